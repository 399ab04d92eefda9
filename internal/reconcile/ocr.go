package reconcile

import (
	"sort"

	"go.uber.org/zap"

	"github.com/election-audit/audit-cli/internal/model"
)

// OCRStats counts how the union of OCR keys was resolved.
type OCRStats struct {
	ConstituencySheets int `json:"constituency_sheets"`
	PartyListSheets    int `json:"party_list_sheets"`
	Keys               int `json:"keys"`
	OneSided           int `json:"one_sided"`
	ZeroTurnout        int `json:"zero_turnout"`
	Emitted            int `json:"emitted"`
}

// IndexSheets keys OCR sheets by file identifier.
func IndexSheets(source string, sheets []model.OCRSheet) map[string]model.OCRSheet {
	idx, _ := Index[model.OCRSheet](source, sheets, FileKeyer{})
	return idx
}

// ReconcileOCR joins constituency and party-list result sheets by file
// identifier. A key is dropped when either side is missing or reports zero
// turnout (a failed extraction, not a real zero). The result is sorted by
// province then district.
func ReconcileOCR(constituency, partyList map[string]model.OCRSheet) ([]model.OCRDistrict, OCRStats) {
	stats := OCRStats{
		ConstituencySheets: len(constituency),
		PartyListSheets:    len(partyList),
	}

	keys := unionKeys(constituency, partyList)
	stats.Keys = len(keys)

	out := make([]model.OCRDistrict, 0, len(keys))
	for _, key := range keys {
		con, conOK := constituency[key]
		pl, plOK := partyList[key]
		if !conOK || !plOK {
			stats.OneSided++
			zap.L().Debug("reconcile: ocr key on one side only", zap.String("key", key))
			continue
		}

		conVoters := con.Summary.VotersCame.Int()
		plVoters := pl.Summary.VotersCame.Int()
		if conVoters == 0 || plVoters == 0 {
			stats.ZeroTurnout++
			zap.L().Debug("reconcile: ocr key with zero turnout", zap.String("key", key))
			continue
		}

		out = append(out, ocrDistrict(con, pl))
	}

	SortOCR(out)
	stats.Emitted = len(out)

	zap.L().Info("reconcile: ocr complete",
		zap.Int("keys", stats.Keys),
		zap.Int("emitted", stats.Emitted),
		zap.Int("one_sided", stats.OneSided),
		zap.Int("zero_turnout", stats.ZeroTurnout),
	)
	return out, stats
}

func ocrDistrict(con, pl model.OCRSheet) model.OCRDistrict {
	constituencyVoters := con.Summary.VotersCame.Int()
	partyListVoters := pl.Summary.VotersCame.Int()
	discrepancy := constituencyVoters - partyListVoters
	absDiscrepancy := abs(discrepancy)
	constituencyMargin := Margin(con.Results)
	invalidVotes := con.Summary.InvalidVotes.Int()

	return model.OCRDistrict{
		Province:                 con.ProvinceName,
		District:                 con.ConstituencyNumber.Int(),
		ConstituencyVoters:       constituencyVoters,
		PartyListVoters:          partyListVoters,
		Discrepancy:              discrepancy,
		AbsDiscrepancy:           absDiscrepancy,
		WinningConstituencyParty: TopParty(con.Results),
		WinningPartyListParty:    TopParty(pl.Results),
		ConstituencyMargin:       constituencyMargin,
		PartyListMargin:          Margin(pl.Results),
		InvalidVotes:             invalidVotes,
		EligibleVoters:           con.Summary.EligibleVoters.Int(),
		InvalidPercentage:        percent(invalidVotes, constituencyVoters),
		IsCritical:               IsCritical(absDiscrepancy, constituencyMargin),
		DataSource:               model.DataSourceOCR,
	}
}

func unionKeys(a, b map[string]model.OCRSheet) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
