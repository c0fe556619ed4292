package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// chrome is the number of lines taken by the header and help line.
const chrome = 3

type interactiveModel struct {
	rep      *report
	viewport viewport.Model
	section  int
	ready    bool
}

func newInteractiveModel(rep *report) *interactiveModel {
	m := &interactiveModel{rep: rep}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && h > chrome {
		m.viewport = viewport.New(w, h-chrome)
		m.viewport.SetContent(rep.render(true))
		m.ready = true
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			if len(m.rep.sections) > 0 {
				m.section = (m.section + 1) % len(m.rep.sections)
				m.viewport.SetYOffset(m.sectionLine(m.section))
			}
			return m, nil

		case "home":
			m.section = 0
			m.viewport.GotoTop()
			return m, nil
		}

	case tea.WindowSizeMsg:
		height := max(msg.Height-chrome, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.rep.render(true))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// sectionLine returns the line of the rendered report where section i
// starts.
func (m *interactiveModel) sectionLine(i int) int {
	line := 1
	for j := 0; j < i; j++ {
		line += 2 + len(m.rep.sections[j].rows)
	}
	return line
}

func (m *interactiveModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("binpos"))
	b.WriteString(" ")
	b.WriteString(m.rep.title)
	if n := len(m.rep.sections); n > 0 {
		b.WriteString(helpStyle.Render(fmt.Sprintf("  [%s]", m.rep.sections[m.section].heading)))
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("↑/↓ scroll • tab next section • q quit • %3.f%%", m.viewport.ScrollPercent()*100)))
	return b.String()
}

func runInteractive(rep *report) error {
	p := tea.NewProgram(newInteractiveModel(rep), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
