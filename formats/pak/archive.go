package pak

import (
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/assert"
	"github.com/wippyai/binpos/codec"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/internal/checked"
	"github.com/wippyai/binpos/source"
)

// Archive is an opened PAK1 archive.
type Archive struct {
	shared  *source.Shared
	index   map[string]int
	Header  Header
	Entries []Entry
}

// Member is the payload of one entry. It holds its own reference to the
// archive source and must be closed.
type Member struct {
	*source.Window
	handle *source.Shared
}

// Close releases the member's reference to the archive source.
func (m *Member) Close() error {
	return m.handle.Close()
}

// Open decodes the header and entry table of src. src is closed, when it is
// an io.Closer, once the archive and every member are closed.
func Open(src binpos.Source) (*Archive, error) {
	shared := source.Share(src)
	a, err := open(shared)
	if err != nil {
		shared.Close()
		return nil, err
	}
	return a, nil
}

// OpenFile opens the archive at path, memory-mapping it when mmap is set.
func OpenFile(path string, mmap bool) (*Archive, error) {
	var (
		src binpos.Source
		err error
	)
	if mmap {
		src, err = source.OpenMapped(path)
	} else {
		src, err = source.Open(path)
	}
	if err != nil {
		return nil, err
	}
	return Open(src)
}

func open(shared *source.Shared) (*Archive, error) {
	var pos uint64
	h, err := codec.DeserializeDefault[Header](shared, &pos)
	if err != nil {
		return nil, errors.WithContext(err, "pak header")
	}

	a := &Archive{
		shared: shared,
		index:  make(map[string]int),
		Header: h,
	}
	seq := codec.NewSequence(shared, pos, uint64(h.Count), codec.NoCtx{}, codec.Elem[Entry, codec.NoCtx]())
	for e, err := range seq.All() {
		if err != nil {
			return nil, errors.WithContextf(err, "entry %d at offset %d", len(a.Entries), seq.Position())
		}
		if err := a.add(e); err != nil {
			return nil, errors.WithContextf(err, "entry %d", len(a.Entries))
		}
	}

	Logger().Debug("opened archive",
		zap.Uint32("entries", h.Count),
		zap.Uint64("table_end", seq.Position()),
		zap.Uint64("size", shared.Len()),
	)
	return a, nil
}

func (a *Archive) add(e Entry) error {
	if _, err := checked.Span(errors.PhaseValidate, e.Offset, uint64(e.Size), a.shared.Len()); err != nil {
		return errors.WithContextf(err, "payload of %q", e.Name)
	}
	_, dup := a.index[e.Name]
	if err := assert.True(!dup, "duplicate entry %q", e.Name).Err(); err != nil {
		return err
	}
	a.index[e.Name] = len(a.Entries)
	a.Entries = append(a.Entries, e)
	return nil
}

// Lookup returns the entry with the given name.
func (a *Archive) Lookup(name string) (Entry, bool) {
	i, ok := a.index[name]
	if !ok {
		return Entry{}, false
	}
	return a.Entries[i], true
}

// Open returns the payload of the named entry.
func (a *Archive) Open(name string) (*Member, error) {
	e, ok := a.Lookup(name)
	if !ok {
		return nil, errors.Custom(errors.PhaseDecode, "no entry %q", name)
	}
	return a.member(e)
}

func (a *Archive) member(e Entry) (*Member, error) {
	h, err := a.shared.Clone()
	if err != nil {
		return nil, err
	}
	w, err := source.NewWindow(h, e.Offset, uint64(e.Size))
	if err != nil {
		h.Close()
		return nil, err
	}
	return &Member{Window: w, handle: h}, nil
}

// Walk calls fn for every entry from up to workers goroutines, each with its
// own member handle. Zero workers means GOMAXPROCS. All failures are
// returned combined.
func (a *Archive) Walk(workers int, fn func(e Entry, m *Member) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan Entry)
	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range jobs {
				err := a.visit(e, fn)
				if err != nil {
					mu.Lock()
					errs = multierr.Append(errs, errors.WithContextf(err, "entry %q", e.Name))
					mu.Unlock()
				}
			}
		}()
	}
	for _, e := range a.Entries {
		jobs <- e
	}
	close(jobs)
	wg.Wait()
	return errs
}

func (a *Archive) visit(e Entry, fn func(Entry, *Member) error) (err error) {
	m, err := a.member(e)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, m.Close())
	}()
	return fn(e, m)
}

// Close releases the archive's reference to its source.
func (a *Archive) Close() error {
	return a.shared.Close()
}
