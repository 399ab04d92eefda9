package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/election-audit/audit-cli/internal/model"
)

var cols = DefaultColumns()

func plotRow(province string, district any, conVoters, plVoters any, winner string, margin any) model.RawRow {
	return model.RawRow{
		cols.Province:           province,
		cols.District:           district,
		cols.ConstituencyVoters: conVoters,
		cols.PartyListVoters:    plVoters,
		cols.ConstituencyWinner: winner,
		cols.Margin:             margin,
	}
}

func TestEngine_CriticalScenario(t *testing.T) {
	e := NewEngine(Columns{})
	out, stats := e.Reconcile(PrimaryInput{
		Plot: []model.RawRow{plotRow("A", 1, 1000, 950, "X", 20)},
	})

	require.Len(t, out, 1)
	d := out[0]
	assert.Equal(t, "A", d.Province)
	assert.Equal(t, 1, d.District)
	assert.Equal(t, 50, d.Discrepancy)
	assert.Equal(t, 50, d.AbsDiscrepancy)
	assert.Equal(t, 20, d.MarginOfVictory)
	assert.True(t, d.IsCritical)
	assert.Equal(t, "X", d.WinningConstituencyParty)
	assert.Equal(t, UnknownParty, d.WinningPartyListParty)
	assert.Equal(t, 0, d.ReferendumTurnout)
	assert.Equal(t, 0, d.TurnoutDifference)
	assert.InDelta(t, 0, d.TurnoutDiffPercentage, 0)
	assert.Equal(t, 1, stats.Emitted)
	assert.Equal(t, 0, stats.DifferenceFromSource)
}

func TestEngine_ZeroMarginNeverCritical(t *testing.T) {
	e := NewEngine(Columns{})
	out, _ := e.Reconcile(PrimaryInput{
		Plot: []model.RawRow{plotRow("A", 1, 100000, 950, "X", 0)},
	})
	require.Len(t, out, 1)
	assert.Equal(t, 99050, out[0].AbsDiscrepancy)
	assert.False(t, out[0].IsCritical)
}

func TestEngine_DifferenceColumnTakesPrecedence(t *testing.T) {
	row := plotRow("ก", "3", "1,000", "950", "X", "10")
	row[cols.Difference] = "-7"

	out, stats := NewEngine(Columns{}).Reconcile(PrimaryInput{Plot: []model.RawRow{row}})
	require.Len(t, out, 1)
	assert.Equal(t, -7, out[0].Discrepancy)
	assert.Equal(t, 7, out[0].AbsDiscrepancy)
	assert.False(t, out[0].IsCritical)
	assert.Equal(t, 1, stats.DifferenceFromSource)
}

func TestEngine_ZeroDifferenceColumnIsDerived(t *testing.T) {
	row := plotRow("ก", 3, 1000, 1200, "X", 5)
	row[cols.Difference] = 0

	out, _ := NewEngine(Columns{}).Reconcile(PrimaryInput{Plot: []model.RawRow{row}})
	require.Len(t, out, 1)
	assert.Equal(t, -200, out[0].Discrepancy)
	assert.Equal(t, 200, out[0].AbsDiscrepancy)
	assert.True(t, out[0].IsCritical)
}

func TestEngine_SkipsHeaderAndSummaryRows(t *testing.T) {
	plot := []model.RawRow{
		plotRow("", 1, 10, 10, "X", 1),
		plotRow("รวม", "", 10, 10, "X", 1),
		plotRow("ก", "abc", 10, 10, "X", 1),
		plotRow("ข", 2, 10, 8, "Y", 1),
	}
	out, stats := NewEngine(Columns{}).Reconcile(PrimaryInput{Plot: plot})
	require.Len(t, out, 1)
	assert.Equal(t, "ข", out[0].Province)
	assert.Equal(t, 3, stats.Skipped)
}

func TestEngine_PreservesInputOrder(t *testing.T) {
	plot := []model.RawRow{
		plotRow("ข", 2, 10, 10, "X", 1),
		plotRow("ก", 1, 10, 10, "X", 1),
		plotRow("ข", 1, 10, 10, "X", 1),
	}
	out, _ := NewEngine(Columns{}).Reconcile(PrimaryInput{Plot: plot})
	var got []string
	for _, d := range out {
		got = append(got, d.Province)
	}
	assert.Equal(t, []string{"ข", "ก", "ข"}, got)
}

func TestEngine_JoinsSecondaryTables(t *testing.T) {
	plot := []model.RawRow{plotRow(" ลำปาง ", "2", 1000, 980, "ประชาชน", 100)}
	constituency := []model.RawRow{{
		cols.Province:       "ลำปาง",
		cols.District:       2,
		cols.InvalidBallots: "30",
		cols.VoteNo:         20,
	}}
	referendum := []model.RawRow{{
		cols.Province: "ลำปาง",
		cols.District: "2",
		cols.Turnout:  "800",
	}}

	out, stats := NewEngine(Columns{}).Reconcile(PrimaryInput{
		Plot:         plot,
		Constituency: constituency,
		Referendum:   referendum,
	})
	require.Len(t, out, 1)

	want := model.District{
		Province:                 "ลำปาง",
		District:                 2,
		ConstituencyVoters:       1000,
		PartyListVoters:          980,
		Discrepancy:              20,
		AbsDiscrepancy:           20,
		MarginOfVictory:          100,
		WinningConstituencyParty: "ประชาชน",
		WinningPartyListParty:    UnknownParty,
		InvalidBallots:           30,
		VoteNo:                   20,
		InvalidPercentage:        5,
		ReferendumTurnout:        800,
		TurnoutDifference:        200,
		TurnoutDiffPercentage:    25,
	}
	if diff := cmp.Diff(want, out[0]); diff != "" {
		t.Errorf("district mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, stats.ConstituencyMatched)
	assert.Equal(t, 1, stats.ReferendumMatched)
}

func TestEngine_ReferendumRowWithZeroTurnout(t *testing.T) {
	plot := []model.RawRow{plotRow("ก", 1, 1000, 1000, "X", 1)}
	referendum := []model.RawRow{{cols.Province: "ก", cols.District: 1}}

	out, _ := NewEngine(Columns{}).Reconcile(PrimaryInput{Plot: plot, Referendum: referendum})
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].ReferendumTurnout)
	assert.Equal(t, 1000, out[0].TurnoutDifference)
	assert.InDelta(t, 0, out[0].TurnoutDiffPercentage, 0)
}

func TestEngine_PartyListTableFillsMissingTurnout(t *testing.T) {
	plot := []model.RawRow{plotRow("ก", 1, 1000, "", "X", 1)}
	partyList := []model.RawRow{{cols.Province: "ก", cols.District: 1, cols.Turnout: 990}}

	out, stats := NewEngine(Columns{}).Reconcile(PrimaryInput{Plot: plot, PartyList: partyList})
	require.Len(t, out, 1)
	assert.Equal(t, 990, out[0].PartyListVoters)
	assert.Equal(t, 10, out[0].Discrepancy)
	assert.Equal(t, 1, stats.PartyListMatched)
}

func TestEngine_DuplicateKeysLastWins(t *testing.T) {
	plot := []model.RawRow{plotRow("ก", 1, 100, 100, "X", 1)}
	referendum := []model.RawRow{
		{cols.Province: "ก", cols.District: 1, cols.Turnout: 10},
		{cols.Province: "ก", cols.District: 1, cols.Turnout: 90},
	}
	out, stats := NewEngine(Columns{}).Reconcile(PrimaryInput{Plot: plot, Referendum: referendum})
	require.Len(t, out, 1)
	assert.Equal(t, 90, out[0].ReferendumTurnout)
	assert.Equal(t, 1, stats.Collisions)
}

func TestEngine_MalformedValuesDegradeToZero(t *testing.T) {
	plot := []model.RawRow{plotRow("ก", 1, "n/a", nil, "", "-")}
	out, _ := NewEngine(Columns{}).Reconcile(PrimaryInput{Plot: plot})
	require.Len(t, out, 1)
	d := out[0]
	assert.Equal(t, 0, d.ConstituencyVoters)
	assert.Equal(t, 0, d.PartyListVoters)
	assert.Equal(t, 0, d.Discrepancy)
	assert.InDelta(t, 0, d.InvalidPercentage, 0)
	assert.Equal(t, UnknownParty, d.WinningConstituencyParty)
	assert.False(t, d.IsCritical)
}

func TestEngine_NegativeMarginIsMagnitude(t *testing.T) {
	plot := []model.RawRow{plotRow("ก", 1, 1000, 990, "X", -5)}
	out, _ := NewEngine(Columns{}).Reconcile(PrimaryInput{Plot: plot})
	require.Len(t, out, 1)
	assert.Equal(t, 5, out[0].MarginOfVictory)
	assert.True(t, out[0].IsCritical)
}

func TestEngine_CustomColumns(t *testing.T) {
	e := NewEngine(Columns{Province: "province", District: "district"})
	plot := []model.RawRow{{
		"province":              "Lampang",
		"district":              1,
		cols.ConstituencyVoters: 10,
		cols.PartyListVoters:    4,
	}}
	out, _ := e.Reconcile(PrimaryInput{Plot: plot})
	require.Len(t, out, 1)
	assert.Equal(t, "Lampang", out[0].Province)
	assert.Equal(t, 6, out[0].Discrepancy)
}

func TestEngine_Invariants(t *testing.T) {
	plot := []model.RawRow{
		plotRow("ก", 1, 500, 700, "X", 0),
		plotRow("ก", 2, 700, 500, "X", 300),
		plotRow("ข", 1, 0, 0, "", 0),
		plotRow("ข", 2, "12,000", "11,999", "Y", "1"),
	}
	out, _ := NewEngine(Columns{}).Reconcile(PrimaryInput{Plot: plot})
	require.Len(t, out, 4)
	for _, d := range out {
		assert.Equal(t, d.ConstituencyVoters-d.PartyListVoters, d.Discrepancy)
		assert.Equal(t, abs(d.Discrepancy), d.AbsDiscrepancy)
		assert.GreaterOrEqual(t, d.MarginOfVictory, 0)
		if d.IsCritical {
			assert.Positive(t, d.MarginOfVictory)
		}
	}
}

func TestIsCritical(t *testing.T) {
	assert.True(t, IsCritical(50, 20))
	assert.False(t, IsCritical(20, 20))
	assert.False(t, IsCritical(50, 0))
	assert.False(t, IsCritical(0, 0))
}
