package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/election-audit/audit-cli/internal/catalog"
	"github.com/election-audit/audit-cli/internal/config"
	"github.com/election-audit/audit-cli/internal/fetcher"
	"github.com/election-audit/audit-cli/internal/model"
	"github.com/election-audit/audit-cli/internal/reconcile"
	"github.com/election-audit/audit-cli/internal/store"
)

// newFetcher builds the HTTP fetcher used for URL sources.
func newFetcher(c *config.Config) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  c.Fetch.UserAgent,
		Timeout:    time.Duration(c.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: c.Fetch.MaxRetries,
	})
}

// initStore opens and migrates the run-history database. It returns a nil
// store when history is disabled.
func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	if c.Store.Path == "" {
		return nil, nil
	}
	st, err := store.NewSQLite(c.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "store: migrate")
	}
	return st, nil
}

// loadCatalog reads the palette/regions override, if any.
func loadCatalog(c *config.Config) (*catalog.Catalog, error) {
	return catalog.Load(c.Catalog.Path)
}

func columns(c *config.Config) reconcile.Columns {
	return reconcile.Columns(c.Columns).Merge()
}

func artifactPath(c *config.Config, name string) string {
	return filepath.Join(c.Output.Dir, name)
}

// recordRun stores a run and its critical findings. History is best effort:
// failures are logged, never returned.
func recordRun(ctx context.Context, st store.Store, run *model.Run, stats any, recs []model.Record) {
	if st == nil {
		return
	}
	log := zap.L().With(zap.String("kind", string(run.Kind)))

	if stats != nil {
		b, err := json.Marshal(stats)
		if err != nil {
			log.Warn("runs: marshal stats", zap.Error(err))
		} else {
			run.Stats = b
		}
	}
	critical := reconcile.Critical(recs)
	run.Records = len(recs)
	run.CriticalCount = len(critical)

	if err := st.CreateRun(ctx, run); err != nil {
		log.Warn("runs: record run", zap.Error(err))
		return
	}
	if len(critical) == 0 {
		return
	}
	if err := st.SaveFindings(ctx, run.ID, critical); err != nil {
		log.Warn("runs: save findings", zap.String("run_id", run.ID), zap.Error(err))
	}
}
