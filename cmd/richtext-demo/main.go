// Package main is an interactive terminal showcase: a styled document
// with live widgets anchored in the text, selectable and copyable, with
// the widgets repositioned by the reconcile engine as the content
// wraps, scrolls, and restyles.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/internal/log"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger, closeLog, err := openLogger(opts.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	env := richtext.DefaultEnvironment()
	if opts.ThemePath != "" {
		loaded, err := richtext.LoadEnvironment(opts.ThemePath)
		if err != nil {
			logger.Warn("theme load failed, using defaults: %v", err)
		} else {
			env = loaded
		}
	}

	if opts.RenderPath != "" {
		if err := renderToFile(opts.RenderPath, env, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: render failed: %v\n", err)
			return 1
		}
		fmt.Printf("Rendered to %s\n", opts.RenderPath)
		return 0
	}

	app, err := newApp(opts, env, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer app.Shutdown()

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// Options holds the demo's command-line configuration.
type Options struct {
	ThemePath  string
	LogLevel   string
	RenderPath string
}

func parseFlags() Options {
	var opts Options
	var showVersion bool

	flag.StringVar(&opts.ThemePath, "theme", "", "Path to a theme file (watched for changes)")
	flag.StringVar(&opts.ThemePath, "t", "", "Path to a theme file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.RenderPath, "render", "", "Render the document to a PNG on the typeset surface and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "richtext-demo - anchored-widget text layout showcase\n\n")
		fmt.Fprintf(os.Stderr, "Usage: richtext-demo [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  q, Esc      quit\n")
		fmt.Fprintf(os.Stderr, "  c           copy the selection (whole document when empty)\n")
		fmt.Fprintf(os.Stderr, "  r           rebuild the document, preserving widget state\n")
		fmt.Fprintf(os.Stderr, "  Up/Down     scroll\n")
		fmt.Fprintf(os.Stderr, "  mouse drag  select\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("richtext-demo %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts
}

// openLogger directs logging to a file, since the terminal belongs to
// the screen.
func openLogger(level string) (*log.Logger, func(), error) {
	path := filepath.Join(os.TempDir(), "richtext-demo.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	logger.SetOutput(f)
	return logger, func() { f.Close() }, nil
}
