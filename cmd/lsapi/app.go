package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lsapi/internal/config"
	"lsapi/internal/history"
	"lsapi/internal/inspect"
	"lsapi/internal/loader"
	"lsapi/internal/observability"
	"lsapi/internal/render"
	"lsapi/internal/util"
	"lsapi/internal/watcher"
)

// Source resolves a package pattern into a root namespace. The go/packages
// loader implements it; tests substitute synthetic namespaces.
type Source interface {
	Load(pattern string) (*loader.Result, error)
}

type App struct {
	Config   *config.Config
	Source   Source
	Renderer *render.Renderer
	Opts     inspect.Options
	Pattern  string

	history    *history.Store
	limiter    *util.Limiter
	obsServer  *observability.Server
	watcher    *watcher.Watcher
	teaProgram *tea.Program

	mu   sync.Mutex
	dirs []string
}

func NewApp(cfg *config.Config, src Source, renderer *render.Renderer, opts inspect.Options, pattern string) (*App, error) {
	app := &App{
		Config:   cfg,
		Source:   src,
		Renderer: renderer,
		Opts:     opts,
		Pattern:  pattern,
		limiter:  util.NewLimiter(cfg.Watch.MaxRebuildsPerSecond, 1),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		app.history = store
	}
	return app, nil
}

func (a *App) Close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.history != nil {
		_ = a.history.Close()
	}
}

// Inspect performs one full load-and-build run. Every run starts a fresh
// visited set; nothing carries over between runs.
func (a *App) Inspect(ctx context.Context) (*inspect.Node, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Inspect")
	defer span.End()

	start := time.Now()
	res, err := a.Source.Load(a.Pattern)
	observability.LoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	opts := a.Opts
	opts.OnSkip = func(namespace, name string, err error) {
		observability.MembersSkippedTotal.Inc()
	}

	start = time.Now()
	root := inspect.Build(res.Root, opts)
	observability.BuildDuration.Observe(time.Since(start).Seconds())
	observability.TreeNodes.Set(float64(root.Count()))

	a.mu.Lock()
	a.dirs = res.Dirs
	a.mu.Unlock()

	if a.history != nil {
		if err := a.history.SaveSnapshot(surfaceSnapshot(a.Pattern, root)); err != nil {
			slog.Warn("failed to save history snapshot", "error", err)
		}
	}
	if a.obsServer != nil {
		a.obsServer.MarkBuild(time.Now())
	}
	return root, nil
}

// WriteOutputs writes the configured JSON and text dumps of the tree.
func (a *App) WriteOutputs(root *inspect.Node) error {
	if path := a.Config.Output.JSON; path != "" {
		data, err := json.MarshalIndent(root, "", "  ")
		if err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		if err := util.WriteFileWithDirs(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if path := a.Config.Output.Text; path != "" {
		var buf bytes.Buffer
		render.New(render.ASCII, false).Render(&buf, root)
		if err := util.WriteStringWithDirs(path, buf.String(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// StartWatcher begins watch mode: debounced source changes trigger a
// rate-limited re-inspection, and the observability server comes up when
// configured.
func (a *App) StartWatcher(ctx context.Context) error {
	a.mu.Lock()
	dirs := append([]string(nil), a.dirs...)
	a.mu.Unlock()
	if len(dirs) == 0 {
		return fmt.Errorf("no source directories to watch")
	}

	w, err := watcher.New(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) { a.onChange(ctx, paths) },
	)
	if err != nil {
		return err
	}
	if err := w.Watch(dirs); err != nil {
		return err
	}
	a.watcher = w
	slog.Info("watching for changes", "dirs", len(dirs))

	if addr := a.Config.Observability.MetricsAddr; addr != "" {
		a.obsServer = observability.NewServer(addr)
		if err := a.obsServer.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) onChange(ctx context.Context, paths []string) {
	observability.WatcherEventsTotal.Inc()
	if !a.limiter.Allow(1) {
		slog.Debug("rebuild suppressed by rate limit", "changed", len(paths))
		return
	}
	observability.RebuildsTotal.Inc()
	slog.Debug("re-inspecting after change", "changed", len(paths))

	root, err := a.Inspect(ctx)
	if err != nil {
		slog.Error("re-inspection failed", "error", err)
		return
	}
	if err := a.WriteOutputs(root); err != nil {
		slog.Error("failed to write outputs", "error", err)
	}

	if a.teaProgram != nil {
		a.teaProgram.Send(updateMsg{root: root, built: time.Now()})
		return
	}
	fmt.Println()
	a.Renderer.Render(os.Stdout, root)
}

// PrintTrends reports the latest surface delta recorded in history.
func (a *App) PrintTrends(w io.Writer) error {
	if a.history == nil {
		return fmt.Errorf("history is not configured (set [history] path in the config file)")
	}
	trend, err := a.history.LatestTrend(a.Pattern)
	if err != nil {
		return err
	}
	if trend == nil {
		fmt.Fprintln(w, "not enough history for a trend yet")
		return nil
	}
	fmt.Fprintf(w, "%s: %s -> %s\n", a.Pattern,
		trend.From.Timestamp.Format(time.RFC3339),
		trend.To.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "  nodes:  %+d (now %d)\n", trend.NodeDelta, trend.To.Nodes)
	fmt.Fprintf(w, "  public: %+d (now %d)\n", trend.PublicDelta, trend.To.Public)
	return nil
}

// surfaceSnapshot summarizes one built tree for the history store.
func surfaceSnapshot(pkg string, root *inspect.Node) history.Snapshot {
	snap := history.Snapshot{Package: pkg}
	root.Walk(func(n *inspect.Node) {
		snap.Nodes++
		switch n.Kind {
		case inspect.KindNamespace:
			snap.Namespaces++
		case inspect.KindCallable:
			snap.Callables++
		default:
			snap.Values++
		}
		switch n.Class {
		case inspect.Private:
			snap.Private++
		case inspect.Magic:
			snap.Magic++
		default:
			snap.Public++
		}
		if n.IsAlias {
			snap.Aliases++
		}
		if n.External {
			snap.External++
		}
		if n.Depth > snap.MaxDepth {
			snap.MaxDepth = n.Depth
		}
	})
	return snap
}
