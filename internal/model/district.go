package model

// RawRow is one row of a source table keyed by its (Thai) column header.
// Values are strings or JSON numbers depending on how the table was read.
type RawRow map[string]any

// District is one reconciled constituency from the spreadsheet pipeline.
// Field names are the artifact contract consumed by the dashboard.
type District struct {
	Province                 string  `json:"province"`
	District                 int     `json:"district"`
	ConstituencyVoters       int     `json:"constituencyVoters"`
	PartyListVoters          int     `json:"partyListVoters"`
	Discrepancy              int     `json:"discrepancy"`
	AbsDiscrepancy           int     `json:"absDiscrepancy"`
	MarginOfVictory          int     `json:"marginOfVictory"`
	IsCritical               bool    `json:"isCritical"`
	WinningConstituencyParty string  `json:"winningConstituencyParty"`
	WinningPartyListParty    string  `json:"winningPartyListParty"`
	InvalidBallots           int     `json:"invalidBallots"`
	VoteNo                   int     `json:"voteNo"`
	InvalidPercentage        float64 `json:"invalidPercentage"`
	ReferendumTurnout        int     `json:"referendumTurnout"`
	TurnoutDifference        int     `json:"turnoutDifference"`
	TurnoutDiffPercentage    float64 `json:"turnoutDiffPercentage"`
}

// OCRDistrict is one reconciled constituency built from OCR'd official
// result sheets.
type OCRDistrict struct {
	Province                 string  `json:"province"`
	District                 int     `json:"district"`
	ConstituencyVoters       int     `json:"constituencyVoters"`
	PartyListVoters          int     `json:"partyListVoters"`
	Discrepancy              int     `json:"discrepancy"`
	AbsDiscrepancy           int     `json:"absDiscrepancy"`
	WinningConstituencyParty string  `json:"winningConstituencyParty"`
	WinningPartyListParty    string  `json:"winningPartyListParty"`
	ConstituencyMargin       int     `json:"constituencyMargin"`
	PartyListMargin          int     `json:"partyListMargin"`
	InvalidVotes             int     `json:"invalidVotes"`
	EligibleVoters           int     `json:"eligibleVoters"`
	InvalidPercentage        float64 `json:"invalidPercentage"`
	IsCritical               bool    `json:"isCritical"`
	ReferendumTurnout        int     `json:"referendumTurnout"`
	TurnoutDifference        int     `json:"turnoutDifference"`
	TurnoutDiffPercentage    float64 `json:"turnoutDiffPercentage"`
	DataSource               string  `json:"dataSource"`
}

// DataSourceOCR tags records produced from OCR result sheets.
const DataSourceOCR = "ocr"

// Record is the view shared by both reconciled record types. Summaries and
// the API work against it so either artifact can be analysed.
type Record struct {
	Province                 string  `json:"province"`
	District                 int     `json:"district"`
	ConstituencyVoters       int     `json:"constituencyVoters"`
	PartyListVoters          int     `json:"partyListVoters"`
	Discrepancy              int     `json:"discrepancy"`
	AbsDiscrepancy           int     `json:"absDiscrepancy"`
	Margin                   int     `json:"margin"`
	IsCritical               bool    `json:"isCritical"`
	WinningConstituencyParty string  `json:"winningConstituencyParty"`
	WinningPartyListParty    string  `json:"winningPartyListParty"`
	InvalidPercentage        float64 `json:"invalidPercentage"`
	ReferendumTurnout        int     `json:"referendumTurnout"`
	TurnoutDifference        int     `json:"turnoutDifference"`
	TurnoutDiffPercentage    float64 `json:"turnoutDiffPercentage"`
}

// Record returns the shared view of d.
func (d District) Record() Record {
	return Record{
		Province:                 d.Province,
		District:                 d.District,
		ConstituencyVoters:       d.ConstituencyVoters,
		PartyListVoters:          d.PartyListVoters,
		Discrepancy:              d.Discrepancy,
		AbsDiscrepancy:           d.AbsDiscrepancy,
		Margin:                   d.MarginOfVictory,
		IsCritical:               d.IsCritical,
		WinningConstituencyParty: d.WinningConstituencyParty,
		WinningPartyListParty:    d.WinningPartyListParty,
		InvalidPercentage:        d.InvalidPercentage,
		ReferendumTurnout:        d.ReferendumTurnout,
		TurnoutDifference:        d.TurnoutDifference,
		TurnoutDiffPercentage:    d.TurnoutDiffPercentage,
	}
}

// Record returns the shared view of d.
func (d OCRDistrict) Record() Record {
	return Record{
		Province:                 d.Province,
		District:                 d.District,
		ConstituencyVoters:       d.ConstituencyVoters,
		PartyListVoters:          d.PartyListVoters,
		Discrepancy:              d.Discrepancy,
		AbsDiscrepancy:           d.AbsDiscrepancy,
		Margin:                   d.ConstituencyMargin,
		IsCritical:               d.IsCritical,
		WinningConstituencyParty: d.WinningConstituencyParty,
		WinningPartyListParty:    d.WinningPartyListParty,
		InvalidPercentage:        d.InvalidPercentage,
		ReferendumTurnout:        d.ReferendumTurnout,
		TurnoutDifference:        d.TurnoutDifference,
		TurnoutDiffPercentage:    d.TurnoutDiffPercentage,
	}
}

// Records converts a slice of reconciled districts to their shared view.
func Records[T interface{ Record() Record }](ds []T) []Record {
	out := make([]Record, len(ds))
	for i, d := range ds {
		out[i] = d.Record()
	}
	return out
}
