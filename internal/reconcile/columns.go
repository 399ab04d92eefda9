package reconcile

// Columns names the source-sheet headers the engine reads. The defaults
// match the public election-analysis spreadsheet.
type Columns struct {
	Province           string
	District           string
	ConstituencyVoters string
	PartyListVoters    string
	Difference         string
	Margin             string
	ConstituencyWinner string
	PartyListWinner    string
	InvalidBallots     string
	VoteNo             string
	Turnout            string
}

// DefaultColumns returns the headers used by the public spreadsheet.
// "บัญชีรายชือ" in the party-list winner header is spelled as in the source.
func DefaultColumns() Columns {
	return Columns{
		Province:           "จังหวัด",
		District:           "เขตเลือกตั้งที่",
		ConstituencyVoters: "ผู้มาใช้สิทธิ์ ส.ส. เขต",
		PartyListVoters:    "ผู้มาใช้สิทธิ์ บัญชีรายชื่อ",
		Difference:         "ผลต่าง บัตร",
		Margin:             "ผลต่าง เขต ที่ 1 - ที่ 2",
		ConstituencyWinner: "พรรคชนะ ส.ส. เขต",
		PartyListWinner:    "พรรคชนะ บัญชีรายชือ",
		InvalidBallots:     "บัตรเสีย",
		VoteNo:             "บัตรไม่เลือกผู้ใด",
		Turnout:            "ผู้มาใช้สิทธิ์",
	}
}

// Merge returns c with every empty field taken from DefaultColumns.
func (c Columns) Merge() Columns {
	d := DefaultColumns()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Columns{
		Province:           pick(c.Province, d.Province),
		District:           pick(c.District, d.District),
		ConstituencyVoters: pick(c.ConstituencyVoters, d.ConstituencyVoters),
		PartyListVoters:    pick(c.PartyListVoters, d.PartyListVoters),
		Difference:         pick(c.Difference, d.Difference),
		Margin:             pick(c.Margin, d.Margin),
		ConstituencyWinner: pick(c.ConstituencyWinner, d.ConstituencyWinner),
		PartyListWinner:    pick(c.PartyListWinner, d.PartyListWinner),
		InvalidBallots:     pick(c.InvalidBallots, d.InvalidBallots),
		VoteNo:             pick(c.VoteNo, d.VoteNo),
		Turnout:            pick(c.Turnout, d.Turnout),
	}
}
