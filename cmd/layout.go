package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/election-audit/audit-cli/internal/catalog"
	"github.com/election-audit/audit-cli/internal/source"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Generate a province tile-layout template",
	Long:  "Lists every province of the plot table once, in first-seen order, at position (0,0). The template is then positioned by hand for the dashboard tile map.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		plot, _ := cmd.Flags().GetString("plot")
		if plot == "" {
			plot = cfg.Sources.Plot
		}

		loader := &source.Loader{Fetcher: newFetcher(cfg), Encoding: cfg.Sources.Encoding}
		rows, err := loader.LoadRows(ctx, plot)
		if err != nil {
			return err
		}
		layout := catalog.LayoutTemplate(rows, columns(cfg).Province)
		zap.L().Info("layout: template built", zap.Int("provinces", len(layout)))

		out := io.Writer(os.Stdout)
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return eris.Wrapf(err, "layout: create %s", outPath)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}
		return writeLayout(out, layout, format)
	},
}

func init() {
	layoutCmd.Flags().String("plot", "", "plot table path or URL (default from config)")
	layoutCmd.Flags().String("format", "json", "output format (json, yaml)")
	layoutCmd.Flags().String("out", "", "output file (default stdout)")
	rootCmd.AddCommand(layoutCmd)
}

func writeLayout(out io.Writer, layout catalog.Layout, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(layout); err != nil {
			return eris.Wrap(err, "layout: encode json")
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(layout); err != nil {
			return eris.Wrap(err, "layout: encode yaml")
		}
		if err := enc.Close(); err != nil {
			return eris.Wrap(err, "layout: close yaml encoder")
		}
		return nil
	default:
		return eris.Errorf("layout: unknown format %q (want json or yaml)", format)
	}
}
