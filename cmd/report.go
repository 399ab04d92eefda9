package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/election-audit/audit-cli/internal/config"
	"github.com/election-audit/audit-cli/internal/fetcher"
	"github.com/election-audit/audit-cli/internal/model"
	"github.com/election-audit/audit-cli/internal/reconcile"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a reconciliation artifact",
	Long:  "Prints the headline figures, the largest discrepancies, the critical districts and the per-province breakdown of plot-processed.json (or plot-ocr.json with --source ocr).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		src, _ := cmd.Flags().GetString("source")
		top, _ := cmd.Flags().GetInt("top")
		region, _ := cmd.Flags().GetString("region")
		asJSON, _ := cmd.Flags().GetBool("json")
		if top <= 0 {
			top = cfg.Server.TopN
		}

		recs, err := loadRecords(cfg, src)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		rep := reconcile.Analyze(src, recs, cat.Regions.Of, top)
		rep.Provinces = reconcile.FilterRegion(rep.Provinces, region)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		formatReport(os.Stdout, rep)
		return nil
	},
}

func init() {
	reportCmd.Flags().String("source", string(model.RunKindPrimary), "artifact to summarize (primary, ocr)")
	reportCmd.Flags().Int("top", 0, "length of the ranked lists (default from config)")
	reportCmd.Flags().String("region", "", "limit the province breakdown to one region")
	reportCmd.Flags().Bool("json", false, "print the report as JSON")
	rootCmd.AddCommand(reportCmd)
}

// loadRecords reads the shared record view of one artifact.
func loadRecords(c *config.Config, src string) ([]model.Record, error) {
	switch model.RunKind(src) {
	case model.RunKindPrimary:
		ds, err := fetcher.ReadJSONFile[[]model.District](artifactPath(c, c.Output.PrimaryArtifact))
		if err != nil {
			return nil, eris.Wrap(err, "report: read primary artifact")
		}
		return model.Records(*ds), nil
	case model.RunKindOCR:
		ds, err := fetcher.ReadJSONFile[[]model.OCRDistrict](artifactPath(c, c.Output.OCRArtifact))
		if err != nil {
			return nil, eris.Wrap(err, "report: read ocr artifact")
		}
		return model.Records(*ds), nil
	default:
		return nil, eris.Errorf("report: unknown source %q (want primary or ocr)", src)
	}
}

// formatReport writes a human-readable report to out.
func formatReport(out io.Writer, rep model.Report) {
	s := rep.Summary
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "Source:\t%s\n", rep.Source)
	_, _ = fmt.Fprintf(w, "Districts:\t%d\n", s.TotalDistricts)
	_, _ = fmt.Fprintf(w, "Total discrepancy:\t%d\n", s.TotalDiscrepancy)
	if s.MaxDiscrepancyDistrict != nil {
		m := s.MaxDiscrepancyDistrict
		_, _ = fmt.Fprintf(w, "Largest discrepancy:\t%s (%d)\n", reconcile.DistrictName(m.Province, m.District), m.AbsDiscrepancy)
	}
	if s.TopConstituencyParty != nil {
		_, _ = fmt.Fprintf(w, "Top constituency party:\t%s (%d)\n", s.TopConstituencyParty.Party, s.TopConstituencyParty.Count)
	}
	if s.TopPartyListParty != nil {
		_, _ = fmt.Fprintf(w, "Top party-list party:\t%s (%d)\n", s.TopPartyListParty.Party, s.TopPartyListParty.Count)
	}
	_, _ = fmt.Fprintf(w, "Critical districts:\t%d\n", s.CriticalCount)
	_ = w.Flush()

	if len(rep.TopDiscrepancies) > 0 {
		_, _ = fmt.Fprintln(out, "\nLargest discrepancies")
		formatRecords(out, rep.TopDiscrepancies)
	}
	if len(rep.Critical) > 0 {
		_, _ = fmt.Fprintln(out, "\nCritical districts")
		formatRecords(out, rep.Critical)
	}
	if len(rep.Provinces) > 0 {
		_, _ = fmt.Fprintln(out, "\nProvinces")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "PROVINCE\tREGION\tDISTRICTS\tDISCREPANCY\tCONSTITUENCY>\tPARTY_LIST>")
		for _, p := range rep.Provinces {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
				p.Province, p.Region, p.DistrictCount, p.TotalDiscrepancy,
				len(p.ConstituencyGreater), len(p.PartyListGreater))
		}
		_ = w.Flush()
	}
}

func formatRecords(out io.Writer, recs []model.Record) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DISTRICT\tCONSTITUENCY\tPARTY_LIST\tDISCREPANCY\tMARGIN\tWINNER\tCRITICAL")
	for _, r := range recs {
		critical := ""
		if r.IsCritical {
			critical = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			reconcile.DistrictName(r.Province, r.District),
			r.ConstituencyVoters, r.PartyListVoters, r.Discrepancy, r.Margin,
			r.WinningConstituencyParty, critical)
	}
	_ = w.Flush()
}
