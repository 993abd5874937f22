// Command lsapi loads a Go package and renders the names it exposes,
// including nested packages, types, functions, and values, as a readable
// tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lsapi/internal/config"
	"lsapi/internal/inspect"
	"lsapi/internal/loader"
	"lsapi/internal/observability"
	"lsapi/internal/render"
)

var (
	private    = flag.Bool("p", false, "include private names")
	magic      = flag.Bool("m", false, "include magic names")
	all        = flag.Bool("a", false, "include all names (equivalent to -p -m)")
	canonical  = flag.Bool("c", false, "display names under the namespace where they are defined")
	external   = flag.Bool("x", false, "expand namespaces outside the root package")
	signatures = flag.Bool("s", false, "display signatures for callables")
	aliases    = flag.Bool("l", false, "show alias edges as [see ...] nodes instead of omitting them")
	ugly       = flag.Bool("u", false, "use basic ASCII for tree drawing")
	noTree     = flag.Bool("U", false, "do not draw tree glyphs")
	noColor    = flag.Bool("C", false, "do not colorize output")
	maxDepth   = flag.Int("D", inspect.UnboundedDepth, "do not show names nested beyond this depth (root is depth 0, negative is unbounded)")
	watch      = flag.Bool("w", false, "keep watching the package sources and re-render on change")
	ui         = flag.Bool("ui", false, "browse the tree in a terminal UI")
	trends     = flag.Bool("trends", false, "print surface trends from history and exit")
	configPath = flag.String("config", "./lsapi.toml", "Path to config file")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("lsapi v%s\n", VERSION)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lsapi [flags] <package-pattern>")
		flag.Usage()
		os.Exit(2)
	}
	pattern := flag.Arg(0)

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	if *ui {
		// In UI mode, avoid terminal logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
			output = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./lsapi.toml" {
			cfg, err = config.Load("./lsapi.example.toml")
		}
		if err != nil {
			slog.Debug("no config file, using defaults", "error", err)
			cfg = config.Default()
		}
	}

	opts := inspect.Options{
		Filter: inspect.Filter{
			Private: *private || *all,
			Magic:   *magic || *all,
		},
		Canonical:  *canonical,
		External:   *external,
		Signatures: *signatures,
		Aliases:    *aliases,
		MaxDepth:   *maxDepth,
	}

	glyphs := render.Unicode
	if *ugly {
		glyphs = render.ASCII
	}
	if *noTree {
		glyphs = render.Space
	}
	renderer := render.New(glyphs, !*noColor)

	app, err := NewApp(cfg, &loader.Loader{}, renderer, opts, pattern)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if *trends {
		if err := app.PrintTrends(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()
	if endpoint := cfg.Observability.OTLPEndpoint; endpoint != "" {
		shutdown, err := observability.InitTracing(ctx, endpoint)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// A root pattern that cannot be loaded is fatal; everything after a
	// successful load is recovered, never fatal.
	root, err := app.Inspect(ctx)
	if err != nil {
		slog.Error("cannot load package", "pattern", pattern, "error", err)
		os.Exit(1)
	}

	if err := app.WriteOutputs(root); err != nil {
		slog.Error("failed to write outputs", "error", err)
	}

	if !*ui {
		renderer.Render(os.Stdout, root)
	}

	if *watch {
		if err := app.StartWatcher(ctx); err != nil {
			slog.Error("failed to start watcher", "error", err)
			os.Exit(1)
		}
	}

	switch {
	case *ui:
		if err := app.RunUI(root); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	case *watch:
		// Block forever
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "lsapi", "lsapi.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "lsapi", "lsapi.log")
	}

	return "lsapi.log"
}
