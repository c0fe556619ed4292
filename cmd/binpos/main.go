package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/binpos"
	"github.com/wippyai/binpos/assert"
	"github.com/wippyai/binpos/codec"
	"github.com/wippyai/binpos/errors"
	"github.com/wippyai/binpos/formats/pak"
	"github.com/wippyai/binpos/formats/riff"
	"github.com/wippyai/binpos/source"
)

// envLogLevel overrides the default of -log-level.
const envLogLevel = "BINPOS_LOG_LEVEL"

type options struct {
	file        string
	format      string
	offset      uint64
	length      uint64
	logLevel    string
	mmap        bool
	lax         bool
	interactive bool
	backtrace   bool
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr))
}

// realMain returns the process exit code so deferred cleanup runs first.
func realMain(args []string, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("binpos", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "Path to the file to inspect")
	fs.StringVar(&opts.format, "format", "auto", "Format: auto, riff, pak or hex")
	fs.Uint64Var(&opts.offset, "offset", 0, "Start offset for hex dumps")
	fs.Uint64Var(&opts.length, "length", 256, "Byte count for hex dumps")
	fs.StringVar(&opts.logLevel, "log-level", envOr(envLogLevel, "warn"), "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.mmap, "mmap", false, "Memory-map the file instead of reading it")
	fs.BoolVar(&opts.lax, "lax", false, "Downgrade recoverable format violations to warnings")
	fs.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	fs.BoolVar(&opts.backtrace, "backtrace", errors.CaptureStacks(), "Capture and print error stacks")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if opts.file == "" {
		fmt.Fprintln(stderr, "Usage: binpos -file <path> [-format auto|riff|pak|hex] [-mmap] [-lax]")
		fmt.Fprintln(stderr, "       binpos -file <path> -format hex [-offset N] [-length N]")
		fmt.Fprintln(stderr, "       binpos -file <path> -i  (interactive mode)")
		return 1
	}

	log, err := newLogger(opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()
	installLoggers(log)
	errors.SetCaptureStacks(opts.backtrace)

	if err := run(opts, log); err != nil {
		if opts.backtrace {
			fmt.Fprintf(stderr, "Error: %+v\n", err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func installLoggers(log *zap.Logger) {
	codec.SetLogger(log.Named("codec"))
	assert.SetLogger(log.Named("assert"))
	riff.SetLogger(log.Named("riff"))
	pak.SetLogger(log.Named("pak"))
}

func run(opts options, log *zap.Logger) error {
	src, closeSrc, err := openSource(opts.file, opts.mmap)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer closeSrc()

	format := opts.format
	if format == "auto" {
		format = detectFormat(src)
	}
	log.Debug("inspecting file",
		zap.String("file", opts.file),
		zap.String("format", format),
		zap.Uint64("size", src.Len()),
		zap.Bool("mmap", opts.mmap),
	)

	rep, err := describe(src, format, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", format, err)
	}
	rep.title = opts.file

	if opts.interactive {
		return runInteractive(rep)
	}
	fmt.Print(rep.render(term.IsTerminal(int(os.Stdout.Fd()))))
	return nil
}

func openSource(path string, mmap bool) (binpos.Source, func() error, error) {
	if mmap {
		m, err := source.OpenMapped(path)
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	}
	f, err := source.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
