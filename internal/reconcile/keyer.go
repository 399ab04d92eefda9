// Package reconcile joins per-constituency source tables and derives the
// discrepancy, margin and criticality figures used by the audit dashboard.
package reconcile

import (
	"go.uber.org/zap"

	"github.com/election-audit/audit-cli/internal/model"
	"github.com/election-audit/audit-cli/internal/normalize"
)

// Keyer derives the join key for a record. A record without a usable key
// returns ok=false and is left out of any index.
type Keyer[T any] interface {
	KeyOf(rec T) (key string, ok bool)
}

// NameKeyer keys spreadsheet rows by trimmed province name and district
// number.
type NameKeyer struct {
	ProvinceColumn string
	DistrictColumn string
}

// JoinKey returns the structured key of row.
func (k NameKeyer) JoinKey(row model.RawRow) normalize.JoinKey {
	return normalize.Key(row[k.ProvinceColumn], row[k.DistrictColumn])
}

// KeyOf implements Keyer.
func (k NameKeyer) KeyOf(row model.RawRow) (string, bool) {
	jk := k.JoinKey(row)
	if !jk.Valid() {
		return "", false
	}
	return jk.String(), true
}

// FileKeyer keys OCR sheets by the identifier of the file they were read
// from, which sidesteps English/Thai province name mismatches.
type FileKeyer struct{}

// KeyOf implements Keyer.
func (FileKeyer) KeyOf(s model.OCRSheet) (string, bool) {
	return s.FileID, s.FileID != ""
}

// Index builds a key -> record lookup. When a key repeats, the later record
// replaces the earlier one and the collision is logged; the number of
// collisions is returned.
func Index[T any](source string, recs []T, k Keyer[T]) (map[string]T, int) {
	idx := make(map[string]T, len(recs))
	collisions := 0
	for _, rec := range recs {
		key, ok := k.KeyOf(rec)
		if !ok {
			continue
		}
		if _, dup := idx[key]; dup {
			collisions++
			zap.L().Warn("reconcile: duplicate key, keeping last",
				zap.String("source", source),
				zap.String("key", key),
			)
		}
		idx[key] = rec
	}
	return idx, collisions
}
