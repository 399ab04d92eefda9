package reconcile

import (
	"go.uber.org/zap"

	"github.com/election-audit/audit-cli/internal/model"
	"github.com/election-audit/audit-cli/internal/normalize"
)

// UnknownParty is the winner recorded when a spreadsheet row names none.
const UnknownParty = "Unknown"

// PrimaryInput holds the spreadsheet tables. Plot is required; the others
// may be empty.
type PrimaryInput struct {
	Plot         []model.RawRow
	Constituency []model.RawRow
	PartyList    []model.RawRow
	Referendum   []model.RawRow
}

// PrimaryStats counts what happened to the plot rows during a run.
type PrimaryStats struct {
	Input                int `json:"input"`
	Emitted              int `json:"emitted"`
	Skipped              int `json:"skipped"`
	ConstituencyMatched  int `json:"constituency_matched"`
	PartyListMatched     int `json:"party_list_matched"`
	ReferendumMatched    int `json:"referendum_matched"`
	DifferenceFromSource int `json:"difference_from_source"`
	Collisions           int `json:"collisions"`
}

// Engine reconciles the spreadsheet tables.
type Engine struct {
	cols  Columns
	keyer NameKeyer
}

// NewEngine creates an Engine reading the given columns. Empty column names
// fall back to DefaultColumns.
func NewEngine(cols Columns) *Engine {
	cols = cols.Merge()
	return &Engine{
		cols:  cols,
		keyer: NameKeyer{ProvinceColumn: cols.Province, DistrictColumn: cols.District},
	}
}

// Reconcile emits one District per plot row that names a province and a
// district, in input order. Secondary tables that lack a row for a district
// contribute zeros.
func (e *Engine) Reconcile(in PrimaryInput) ([]model.District, PrimaryStats) {
	stats := PrimaryStats{Input: len(in.Plot)}

	constituency, n := Index[model.RawRow]("constituency", in.Constituency, e.keyer)
	stats.Collisions += n
	partyList, n := Index[model.RawRow]("party_list", in.PartyList, e.keyer)
	stats.Collisions += n
	referendum, n := Index[model.RawRow]("referendum", in.Referendum, e.keyer)
	stats.Collisions += n

	out := make([]model.District, 0, len(in.Plot))
	for i, row := range in.Plot {
		jk := e.keyer.JoinKey(row)
		if !jk.Valid() {
			stats.Skipped++
			zap.L().Debug("reconcile: skipping row without province/district", zap.Int("row", i))
			continue
		}
		key := jk.String()

		conRow, conOK := constituency[key]
		plRow, plOK := partyList[key]
		refRow, refOK := referendum[key]
		if conOK {
			stats.ConstituencyMatched++
		}
		if plOK {
			stats.PartyListMatched++
		}
		if refOK {
			stats.ReferendumMatched++
		}

		d, fromSource := e.district(jk, row, conRow, plRow, refRow, refOK)
		if fromSource {
			stats.DifferenceFromSource++
		}
		out = append(out, d)
	}
	stats.Emitted = len(out)

	zap.L().Info("reconcile: primary complete",
		zap.Int("input", stats.Input),
		zap.Int("emitted", stats.Emitted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("referendum_matched", stats.ReferendumMatched),
	)
	return out, stats
}

func (e *Engine) district(jk normalize.JoinKey, row, conRow, plRow, refRow model.RawRow, hasRef bool) (model.District, bool) {
	c := e.cols

	constituencyVoters := normalize.Int(row[c.ConstituencyVoters])
	partyListVoters := Fallback{
		Column(c.PartyListVoters, row[c.PartyListVoters]),
		Column("party_list."+c.Turnout, plRow[c.Turnout]),
	}.Value()

	discrepancy, by := Fallback{
		Column(c.Difference, row[c.Difference]),
		Derived("derived", constituencyVoters-partyListVoters),
	}.Resolve()

	margin := abs(Fallback{
		Column(c.Margin, row[c.Margin]),
	}.Value())

	absDiscrepancy := abs(discrepancy)

	invalidBallots := normalize.Int(conRow[c.InvalidBallots])
	voteNo := normalize.Int(conRow[c.VoteNo])

	d := model.District{
		Province:                 jk.Province,
		District:                 jk.District,
		ConstituencyVoters:       constituencyVoters,
		PartyListVoters:          partyListVoters,
		Discrepancy:              discrepancy,
		AbsDiscrepancy:           absDiscrepancy,
		MarginOfVictory:          margin,
		IsCritical:               IsCritical(absDiscrepancy, margin),
		WinningConstituencyParty: partyOrUnknown(row[c.ConstituencyWinner], UnknownParty),
		WinningPartyListParty:    partyOrUnknown(row[c.PartyListWinner], UnknownParty),
		InvalidBallots:           invalidBallots,
		VoteNo:                   voteNo,
		InvalidPercentage:        percent(invalidBallots+voteNo, constituencyVoters),
	}

	if hasRef {
		d.ReferendumTurnout = normalize.Int(refRow[c.Turnout])
		d.TurnoutDifference = constituencyVoters - d.ReferendumTurnout
		d.TurnoutDiffPercentage = percent(d.TurnoutDifference, d.ReferendumTurnout)
	}

	return d, by == c.Difference
}

// IsCritical reports whether a discrepancy is large enough to have flipped
// the result: it exceeds a non-zero margin of victory.
func IsCritical(absDiscrepancy, margin int) bool {
	return absDiscrepancy > margin && margin > 0
}

func partyOrUnknown(v any, unknown string) string {
	if s := normalize.Text(v); s != "" {
		return s
	}
	return unknown
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
