package reconcile

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/election-audit/audit-cli/internal/model"
)

// ProvinceCollator orders province names by Thai collation rules. A
// collate.Collator is not safe for concurrent use, so callers create one
// per sort.
func ProvinceCollator() *collate.Collator {
	return collate.New(language.Thai)
}

// SortOCR orders records by province, then by district.
func SortOCR(ds []model.OCRDistrict) {
	c := ProvinceCollator()
	sort.SliceStable(ds, func(i, j int) bool {
		if cmp := c.CompareString(ds[i].Province, ds[j].Province); cmp != 0 {
			return cmp < 0
		}
		return ds[i].District < ds[j].District
	})
}
