package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"inkpad/internal/config"
	mcpserver "inkpad/internal/mcp"
	"inkpad/internal/service"
	"inkpad/internal/uiloop"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// Sessions are headless: nothing is drawn, but fit, centering and gesture
// routing behave exactly as in the desktop app.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfgPath := config.DefaultPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("[MCP] config %s: %v (using defaults)", cfgPath, err)
	}

	loop := uiloop.New(0)
	loop.Start(ctx)
	defer loop.Stop()

	sessions := service.NewSessionService(loop, noopEmitter{}, cfg)

	watcher, err := config.Watch(cfgPath, cfg, func(cfg config.Config) {
		if err := sessions.ApplyConfig(ctx, cfg); err != nil {
			log.Printf("[MCP] apply config: %v", err)
		}
	})
	if err != nil {
		log.Printf("[MCP] config live reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpserver.New(sessions).ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
