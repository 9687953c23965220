package app

import (
	"context"
	"os"
	"path/filepath"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"inkpad/internal/config"
	"inkpad/internal/service"
	"inkpad/internal/storage"
	"inkpad/internal/uiloop"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db       *storage.DB
	loop     *uiloop.Loop
	sessions *service.SessionService
	settings *service.SettingsService

	cfgPath    string
	cfgWatcher *config.Watcher
}

// New creates a new App.
func New() *App {
	return &App{}
}

// wailsEmitter sends service events to the frontend.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

func dataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "inkpad")
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	a.cfgPath = config.DefaultPath()
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to load config %s, using defaults: %v", a.cfgPath, err)
	}

	// Preferences are optional: without the database the app still runs on defaults.
	db, err := storage.New(filepath.Join(dataDir(), "inkpad.db"))
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to open settings database: %v", err)
		a.settings = service.NewSettingsService(nil)
	} else {
		a.db = db
		a.settings = service.NewSettingsService(storage.NewSettingsStore(db))
	}

	a.loop = uiloop.New(0)
	a.loop.Start(ctx)
	a.sessions = service.NewSessionService(a.loop, wailsEmitter{}, cfg)

	if err := a.sessions.SetDefaultTool(a.settings.LoadTool(cfg.ToolState())); err != nil {
		wailsRuntime.LogDebugf(ctx, "Ignoring saved tool: %v", err)
	}

	size := a.settings.LoadWindowSize()
	wailsRuntime.WindowSetSize(ctx, size.Width, size.Height)

	a.watchConfig(cfg)
	wailsRuntime.LogInfof(ctx, "inkpad started (page %.0fx%.0f, zoom %.2f..%.2f)",
		cfg.Page.Width, cfg.Page.Height, cfg.Zoom.Min, cfg.Zoom.Max)
}

// watchConfig reloads the config file on change and pushes it to the
// open sessions.
func (a *App) watchConfig(initial config.Config) {
	if err := os.MkdirAll(filepath.Dir(a.cfgPath), 0755); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Config directory unavailable, live reload disabled: %v", err)
		return
	}
	w, err := config.Watch(a.cfgPath, initial, func(cfg config.Config) {
		wailsRuntime.LogInfof(a.ctx, "[config] reloaded %s", a.cfgPath)
		if err := a.sessions.ApplyConfig(a.ctx, cfg); err != nil {
			wailsRuntime.LogErrorf(a.ctx, "[config] apply: %v", err)
		}
		wailsRuntime.EventsEmit(a.ctx, "config:changed", cfg)
	})
	if err != nil {
		wailsRuntime.LogErrorf(a.ctx, "Failed to watch config: %v", err)
		return
	}
	a.cfgWatcher = w
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.settings != nil {
		w, h := wailsRuntime.WindowGetSize(ctx)
		if err := a.settings.SaveWindowSize(w, h); err != nil {
			wailsRuntime.LogDebugf(ctx, "Window size not saved: %v", err)
		}
	}
	if a.cfgWatcher != nil {
		a.cfgWatcher.Close()
	}
	if a.sessions != nil {
		if err := a.sessions.CloseAll(ctx); err != nil {
			wailsRuntime.LogDebugf(ctx, "Sessions not closed: %v", err)
		}
	}
	if a.loop != nil {
		a.loop.Stop()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// GetConfig returns the configuration currently in effect.
func (a *App) GetConfig() config.Config {
	if a.cfgWatcher != nil {
		return a.cfgWatcher.Current()
	}
	cfg, _ := config.Load(a.cfgPath)
	return cfg
}
