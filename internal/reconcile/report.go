package reconcile

import "github.com/election-audit/audit-cli/internal/model"

// Analyze computes every summary of recs. top bounds the ranked lists; the
// critical list and the province breakdown are never truncated.
func Analyze(source string, recs []model.Record, regionOf func(string) string, top int) model.Report {
	return model.Report{
		Source:               source,
		Summary:              Summarize(recs),
		TopDiscrepancies:     nonNil(TopDiscrepancies(recs, top)),
		Critical:             nonNil(Critical(recs)),
		TurnoutGaps:          nonNil(TurnoutGaps(recs, top)),
		InvalidVsDiscrepancy: InvalidVsDiscrepancy(recs, top),
		Provinces:            nonNilProvinces(ByProvince(recs, regionOf)),
	}
}

// FilterRegion keeps the provinces of one region. An empty region keeps all.
func FilterRegion(ps []model.ProvinceSummary, region string) []model.ProvinceSummary {
	if region == "" {
		return ps
	}
	out := []model.ProvinceSummary{}
	for _, p := range ps {
		if p.Region == region {
			out = append(out, p)
		}
	}
	return out
}

func nonNil(recs []model.Record) []model.Record {
	if recs == nil {
		return []model.Record{}
	}
	return recs
}

func nonNilProvinces(ps []model.ProvinceSummary) []model.ProvinceSummary {
	if ps == nil {
		return []model.ProvinceSummary{}
	}
	return ps
}
