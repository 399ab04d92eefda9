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

var ocrCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Reconcile OCR result sheets into plot-ocr.json",
	Long:  "Joins the constituency and party-list OCR sheets by file identifier. Sheets are read from directories, or from a ZIP archive of the results repository when --archive (or ocr.archive) is set.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if archive, _ := cmd.Flags().GetString("archive"); archive != "" {
			cfg.OCR.Archive = archive
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

		run, err := runOCR(ctx, cfg, newFetcher(cfg), st)
		if err != nil {
			return err
		}
		zap.L().Info("ocr reconcile complete",
			zap.String("run_id", run.ID),
			zap.String("artifact", run.Artifact),
			zap.Int("records", run.Records),
			zap.Int("critical", run.CriticalCount),
		)
		return nil
	},
}

func init() {
	ocrCmd.Flags().String("archive", "", "ZIP archive path or URL of the OCR results (overrides config)")
	ocrCmd.Flags().String("out", "", "output directory (overrides config)")
	rootCmd.AddCommand(ocrCmd)
}

// runOCR reads both sheet sets, reconciles them and writes the artifact.
func runOCR(ctx context.Context, c *config.Config, f fetcher.Fetcher, st store.Store) (*model.Run, error) {
	run := &model.Run{Kind: model.RunKindOCR, Status: model.RunStatusComplete}

	dirs := source.OCRDirs{Constituency: c.OCR.ConstituencyDir, PartyList: c.OCR.PartyListDir}
	if c.OCR.Archive != "" {
		loader := &source.Loader{Fetcher: f}
		d, err := loader.FetchOCRArchive(ctx, c.OCR.Archive, c.OCR.WorkDir)
		if err != nil {
			return failRun(ctx, st, run, err)
		}
		dirs = d
	}

	constituency, partyList, err := source.LoadOCR(dirs)
	if err != nil {
		return failRun(ctx, st, run, err)
	}

	districts, stats := reconcile.ReconcileOCR(constituency, partyList)

	if err := os.MkdirAll(c.Output.Dir, 0o755); err != nil {
		return failRun(ctx, st, run, eris.Wrap(err, "ocr: create output dir"))
	}
	run.Artifact = artifactPath(c, c.Output.OCRArtifact)
	if err := fetcher.WriteJSONFile(run.Artifact, districts); err != nil {
		return failRun(ctx, st, run, eris.Wrap(err, "ocr: write artifact"))
	}

	recordRun(ctx, st, run, stats, model.Records(districts))
	return run, nil
}
