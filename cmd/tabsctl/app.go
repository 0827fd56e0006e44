package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pysugar/account-tabs/internal/account"
	"github.com/pysugar/account-tabs/internal/config"
	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/pysugar/account-tabs/internal/importer"
	"github.com/pysugar/account-tabs/internal/logging"
	"github.com/pysugar/account-tabs/internal/store"
	"go.uber.org/zap"
)

var (
	dryRun  = flag.Bool("dry-run", false, "Apply changes to an in-memory copy of the document and discard them")
	verbose = flag.Bool("v", false, "Log debug output to stderr")
)

var stdout io.Writer = os.Stdout

// app is everything a subcommand needs.
type app struct {
	cfg      config.Config
	accounts *account.Service
	importer *importer.Importer
	logger   *zap.Logger
	close    func() error
}

// openApp is replaced in tests.
var openApp = defaultOpenApp

func defaultOpenApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.NewWithOutput(level, "console", "stderr")
	if err != nil {
		return nil, err
	}

	st, closeStore, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	if *dryRun {
		doc, err := st.Read(ctx)
		if err != nil {
			closeStore()
			return nil, err
		}
		logger.Info("dry run, changes will not be saved")
		st = store.NewMemoryStore(doc)
	}
	return newApp(cfg, st, logger, closeStore), nil
}

func newApp(cfg config.Config, st store.Store, logger *zap.Logger, closeFn func() error) *app {
	svc := account.NewService(st, logger)
	return &app{
		cfg:      cfg,
		accounts: svc,
		importer: importer.New(svc, importer.Options{
			Mode:        cfg.ParseMode(),
			Timeout:     cfg.ImportTimeout(),
			Concurrency: cfg.Import.Concurrency,
		}, logger),
		logger: logger,
		close:  closeFn,
	}
}

func parseGroup(tab string) (models.Group, error) {
	g := models.Group(tab)
	if !g.Valid() {
		return "", fmt.Errorf("unknown tab %q (want one of %v)", tab, models.Groups)
	}
	return g, nil
}
