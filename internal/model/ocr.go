package model

import "github.com/election-audit/audit-cli/internal/normalize"

// PartyResult is one party's (or candidate's) vote count in a district.
type PartyResult struct {
	Party string          `json:"party"`
	Votes normalize.Count `json:"votes"`
}

// OCRSummary holds the tally totals printed at the foot of a result sheet.
type OCRSummary struct {
	VotersCame     normalize.Count `json:"voters_came"`
	InvalidVotes   normalize.Count `json:"invalid_votes"`
	EligibleVoters normalize.Count `json:"eligible_voters"`
}

// OCRSheet is one OCR'd result sheet (form ส.ส. 6/1) for a single district
// and ballot type.
type OCRSheet struct {
	// FileID is the file-name identifier ("10_1" for 10_1.json). It is set
	// by the loader, not decoded from the document.
	FileID             string          `json:"-"`
	ProvinceName       string          `json:"province_name"`
	ConstituencyNumber normalize.Count `json:"constituency_number"`
	Summary            OCRSummary      `json:"summary"`
	Results            []PartyResult   `json:"results"`
}
