package reconcile

import (
	"fmt"
	"math"
	"sort"

	"github.com/election-audit/audit-cli/internal/model"
)

// Summarize computes the overview figures for a set of reconciled records.
func Summarize(recs []model.Record) model.Summary {
	s := model.Summary{
		ConstituencyWins: make(map[string]int),
		PartyListWins:    make(map[string]int),
		SeatDistribution: []model.PartyCount{},
	}
	if len(recs) == 0 {
		return s
	}

	var conOrder, plOrder []string
	maxRec := recs[0]
	for _, r := range recs {
		s.TotalDiscrepancy += r.AbsDiscrepancy
		if r.AbsDiscrepancy > maxRec.AbsDiscrepancy {
			maxRec = r
		}
		if r.IsCritical {
			s.CriticalCount++
		}
		if _, ok := s.ConstituencyWins[r.WinningConstituencyParty]; !ok {
			conOrder = append(conOrder, r.WinningConstituencyParty)
		}
		s.ConstituencyWins[r.WinningConstituencyParty]++
		if _, ok := s.PartyListWins[r.WinningPartyListParty]; !ok {
			plOrder = append(plOrder, r.WinningPartyListParty)
		}
		s.PartyListWins[r.WinningPartyListParty]++
	}

	s.TotalDistricts = len(recs)
	s.MaxDiscrepancyDistrict = &model.DistrictRef{
		Province:       maxRec.Province,
		District:       maxRec.District,
		AbsDiscrepancy: maxRec.AbsDiscrepancy,
	}
	s.SeatDistribution = rankParties(s.ConstituencyWins, conOrder)
	top := s.SeatDistribution[0]
	s.TopConstituencyParty = &top
	topPL := rankParties(s.PartyListWins, plOrder)[0]
	s.TopPartyListParty = &topPL
	return s
}

// rankParties orders parties by wins, descending; ties keep first-seen order.
func rankParties(wins map[string]int, order []string) []model.PartyCount {
	out := make([]model.PartyCount, 0, len(order))
	for _, p := range order {
		out = append(out, model.PartyCount{Party: p, Count: wins[p]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// TopDiscrepancies returns up to n records with the largest absolute
// discrepancy. n <= 0 returns all records, sorted.
func TopDiscrepancies(recs []model.Record, n int) []model.Record {
	out := sortedByAbs(recs)
	return limit(out, n)
}

// Critical returns the records flagged critical, largest discrepancy first.
func Critical(recs []model.Record) []model.Record {
	var crit []model.Record
	for _, r := range recs {
		if r.IsCritical {
			crit = append(crit, r)
		}
	}
	return sortedByAbs(crit)
}

// TurnoutGaps returns up to n records with a non-zero referendum turnout
// difference, largest (signed) first.
func TurnoutGaps(recs []model.Record, n int) []model.Record {
	var out []model.Record
	for _, r := range recs {
		if r.TurnoutDifference != 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TurnoutDifference > out[j].TurnoutDifference
	})
	return limit(out, n)
}

// InvalidVsDiscrepancy pairs the discrepancy of up to n districts with their
// invalid-ballot share, for districts that report any invalid ballots.
func InvalidVsDiscrepancy(recs []model.Record, n int) []model.InvalidPoint {
	var withInvalid []model.Record
	for _, r := range recs {
		if r.InvalidPercentage > 0 {
			withInvalid = append(withInvalid, r)
		}
	}
	top := limit(sortedByAbs(withInvalid), n)

	out := make([]model.InvalidPoint, 0, len(top))
	for _, r := range top {
		out = append(out, model.InvalidPoint{
			Name:              DistrictName(r.Province, r.District),
			Discrepancy:       r.AbsDiscrepancy,
			InvalidPercentage: math.Round(r.InvalidPercentage*100) / 100,
		})
	}
	return out
}

// ByProvince groups records by province. regionOf may be nil.
func ByProvince(recs []model.Record, regionOf func(province string) string) []model.ProvinceSummary {
	idx := make(map[string]int)
	var out []model.ProvinceSummary
	for _, r := range recs {
		i, ok := idx[r.Province]
		if !ok {
			region := ""
			if regionOf != nil {
				region = regionOf(r.Province)
			}
			out = append(out, model.ProvinceSummary{
				Province:            r.Province,
				Region:              region,
				ConstituencyGreater: []model.Record{},
				PartyListGreater:    []model.Record{},
			})
			i = len(out) - 1
			idx[r.Province] = i
		}
		p := &out[i]
		p.DistrictCount++
		p.TotalDiscrepancy += r.Discrepancy
		switch {
		case r.Discrepancy > 0:
			p.ConstituencyGreater = append(p.ConstituencyGreater, r)
		case r.Discrepancy < 0:
			p.PartyListGreater = append(p.PartyListGreater, r)
		}
	}

	c := ProvinceCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Province, out[j].Province) < 0
	})
	for i := range out {
		out[i].ConstituencyGreater = sortedByAbs(out[i].ConstituencyGreater)
		out[i].PartyListGreater = sortedByAbs(out[i].PartyListGreater)
	}
	return out
}

// DistrictName renders a district label the way the dashboard shows it.
func DistrictName(province string, district int) string {
	return fmt.Sprintf("%s เขต %d", province, district)
}

func sortedByAbs(recs []model.Record) []model.Record {
	out := make([]model.Record, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AbsDiscrepancy > out[j].AbsDiscrepancy
	})
	return out
}

func limit(recs []model.Record, n int) []model.Record {
	if n > 0 && len(recs) > n {
		return recs[:n]
	}
	return recs
}
