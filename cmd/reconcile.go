package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/election-audit/audit-cli/internal/config"
	"github.com/election-audit/audit-cli/internal/fetcher"
	"github.com/election-audit/audit-cli/internal/model"
	"github.com/election-audit/audit-cli/internal/reconcile"
	"github.com/election-audit/audit-cli/internal/source"
	"github.com/election-audit/audit-cli/internal/store"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the spreadsheet tables into plot-processed.json",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if plot, _ := cmd.Flags().GetString("plot"); plot != "" {
			cfg.Sources.Plot = plot
		}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.Output.Dir = out
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		run, err := runPrimary(ctx, cfg, newFetcher(cfg), st)
		if err != nil {
			return err
		}
		zap.L().Info("reconcile complete",
			zap.String("run_id", run.ID),
			zap.String("artifact", run.Artifact),
			zap.Int("records", run.Records),
			zap.Int("critical", run.CriticalCount),
		)
		return nil
	},
}

func init() {
	reconcileCmd.Flags().String("plot", "", "plot table path or URL (overrides config)")
	reconcileCmd.Flags().String("out", "", "output directory (overrides config)")
	rootCmd.AddCommand(reconcileCmd)
}

// runPrimary loads the primary tables, reconciles them and writes the
// artifact. Failed runs are recorded too.
func runPrimary(ctx context.Context, c *config.Config, f fetcher.Fetcher, st store.Store) (*model.Run, error) {
	run := &model.Run{Kind: model.RunKindPrimary, Status: model.RunStatusComplete}

	loader := &source.Loader{Fetcher: f, Encoding: c.Sources.Encoding}
	in, err := loader.LoadPrimary(ctx, source.Locations{
		Plot:         c.Sources.Plot,
		Constituency: c.Sources.Constituency,
		PartyList:    c.Sources.PartyList,
		Referendum:   c.Sources.Referendum,
	})
	if err != nil {
		return failRun(ctx, st, run, err)
	}

	districts, stats := reconcile.NewEngine(columns(c)).Reconcile(in)

	if err := os.MkdirAll(c.Output.Dir, 0o755); err != nil {
		return failRun(ctx, st, run, eris.Wrap(err, "reconcile: create output dir"))
	}
	run.Artifact = artifactPath(c, c.Output.PrimaryArtifact)
	if err := fetcher.WriteJSONFile(run.Artifact, districts); err != nil {
		return failRun(ctx, st, run, eris.Wrap(err, "reconcile: write artifact"))
	}

	recordRun(ctx, st, run, stats, model.Records(districts))
	return run, nil
}

func failRun(ctx context.Context, st store.Store, run *model.Run, err error) (*model.Run, error) {
	run.Status = model.RunStatusFailed
	run.Error = err.Error()
	recordRun(ctx, st, run, nil, nil)
	return run, err
}
