// Command storefront runs the interactive terminal storefront.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/app"
	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/dialog"
	"github.com/xenking/storefront/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	// The screen owns stdout, so diagnostics go to a file or nowhere.
	lg, err := newLogger(cfg.Widget.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	loadCtx, loadCancel := context.WithTimeout(ctx, 30*time.Second)
	repo := app.LoadCatalog(loadCtx, lg, cfg.Catalog.Source)
	loadCancel()

	gate := dialog.New()
	surface := ui.NewSurface()
	store := cart.NewStore(repo, gate, surface, lg)
	model := ui.New(repo.List(), store, gate, surface, cfg.Widget.AutoDismiss)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		lg.Error("program exited", zap.Error(err))
		return err
	}
	return nil
}

func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
