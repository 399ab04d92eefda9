package model

// PartyCount is a party and the number of districts it won.
type PartyCount struct {
	Party string `json:"party"`
	Count int    `json:"count"`
}

// DistrictRef names a district and its absolute discrepancy.
type DistrictRef struct {
	Province       string `json:"province"`
	District       int    `json:"district"`
	AbsDiscrepancy int    `json:"absDiscrepancy"`
}

// Summary holds the headline figures shown on the dashboard overview.
type Summary struct {
	TotalDistricts         int            `json:"totalDistricts"`
	TotalDiscrepancy       int            `json:"totalDiscrepancy"`
	MaxDiscrepancyDistrict *DistrictRef   `json:"maxDiscrepancyDistrict,omitempty"`
	TopConstituencyParty   *PartyCount    `json:"topConstituencyParty,omitempty"`
	TopPartyListParty      *PartyCount    `json:"topPartyListParty,omitempty"`
	ConstituencyWins       map[string]int `json:"constituencyWins"`
	PartyListWins          map[string]int `json:"partyListWins"`
	SeatDistribution       []PartyCount   `json:"seatDistribution"`
	CriticalCount          int            `json:"criticalCount"`
}

// ProvinceSummary aggregates the districts of one province.
type ProvinceSummary struct {
	Province            string   `json:"province"`
	Region              string   `json:"region"`
	DistrictCount       int      `json:"districtCount"`
	TotalDiscrepancy    int      `json:"totalDiscrepancy"`
	ConstituencyGreater []Record `json:"constituencyGreater"`
	PartyListGreater    []Record `json:"partyListGreater"`
}

// InvalidPoint pairs a district's discrepancy with its invalid-ballot share.
type InvalidPoint struct {
	Name              string  `json:"name"`
	Discrepancy       int     `json:"discrepancy"`
	InvalidPercentage float64 `json:"invalidPercentage"`
}

// Report bundles every derivation of one artifact, as shown on the
// dashboard overview and printed by the report command.
type Report struct {
	Source               string            `json:"source"`
	Summary              Summary           `json:"summary"`
	TopDiscrepancies     []Record          `json:"topDiscrepancies"`
	Critical             []Record          `json:"critical"`
	TurnoutGaps          []Record          `json:"turnoutGaps"`
	InvalidVsDiscrepancy []InvalidPoint    `json:"invalidVsDiscrepancy"`
	Provinces            []ProvinceSummary `json:"provinces"`
}
