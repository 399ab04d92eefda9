package reconcile

import (
	"sort"

	"github.com/election-audit/audit-cli/internal/model"
)

// UnknownOCRParty is the winner recorded for a sheet with no result rows.
const UnknownOCRParty = "ไม่ทราบ"

// TopParty returns the party with the most votes. Ties go to the party
// listed first. An empty list yields UnknownOCRParty.
func TopParty(results []model.PartyResult) string {
	if len(results) == 0 {
		return UnknownOCRParty
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Votes > best.Votes {
			best = r
		}
	}
	if best.Party == "" {
		return UnknownOCRParty
	}
	return best.Party
}

// Margin returns the vote gap between the first and second placed parties,
// or 0 when fewer than two parties are listed.
func Margin(results []model.PartyResult) int {
	if len(results) < 2 {
		return 0
	}
	sorted := make([]model.PartyResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})
	return sorted[0].Votes.Int() - sorted[1].Votes.Int()
}
