package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/election-audit/audit-cli/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert spreadsheet exports to JSON artifacts",
	Long:  "Reads the four public spreadsheet tables (CSV exports or the sheets of one XLSX workbook) and writes plot.json, constituency.json, partylist.json and referendum.json. Missing inputs are skipped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		workbook, _ := cmd.Flags().GetString("workbook")
		if workbook == "" {
			workbook = cfg.Sources.Workbook
		}
		inputDir, _ := cmd.Flags().GetString("input-dir")
		if inputDir == "" {
			inputDir = cfg.Sources.ExportDir
		}
		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.Output.Dir
		}

		jobs := convert.DefaultJobs(inputDir)
		if workbook != "" {
			jobs = convert.WorkbookJobs(workbook)
		}

		c := &convert.Converter{
			OutputDir: outDir,
			Encoding:  cfg.Sources.Encoding,
			Fetcher:   newFetcher(cfg),
		}
		results := c.ConvertAll(ctx, jobs)
		formatConvertResults(os.Stdout, results)

		for _, r := range results {
			if r.Err != nil {
				return fmt.Errorf("convert: %d of %d jobs failed", countFailed(results), len(results))
			}
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().String("workbook", "", "XLSX workbook path or URL (default from config)")
	convertCmd.Flags().String("input-dir", "", "directory holding the CSV exports (default from config)")
	convertCmd.Flags().String("out", "", "output directory (default from config)")
	rootCmd.AddCommand(convertCmd)
}

func formatConvertResults(out io.Writer, results []convert.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "JOB\tOUTPUT\tROWS\tSTATUS")
	for _, r := range results {
		status := "ok"
		switch {
		case r.Skipped:
			status = "skipped"
		case r.Err != nil:
			status = "failed: " + r.Err.Error()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Job.Name, r.Job.Output, r.Rows, status)
	}
	_ = w.Flush()
}

func countFailed(results []convert.Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
