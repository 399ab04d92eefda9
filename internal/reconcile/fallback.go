package reconcile

import "github.com/election-audit/audit-cli/internal/normalize"

// Candidate is one possible source for a derived field.
type Candidate struct {
	Name    string
	Value   int
	Present bool
}

// Fallback is an ordered precedence list for a single field: the first
// present candidate wins.
type Fallback []Candidate

// Resolve returns the winning value and the name of the candidate that
// supplied it. With no present candidate it returns 0 and "".
func (f Fallback) Resolve() (int, string) {
	for _, c := range f {
		if c.Present {
			return c.Value, c.Name
		}
	}
	return 0, ""
}

// Value resolves and discards the candidate name.
func (f Fallback) Value() int {
	v, _ := f.Resolve()
	return v
}

// Column is a candidate read from a source cell. Blank, non-numeric and
// zero cells count as absent, matching how the source sheets leave unset
// figures empty or 0.
func Column(name string, cell any) Candidate {
	v := normalize.Int(cell)
	return Candidate{Name: name, Value: v, Present: v != 0}
}

// Derived is a candidate that is always present.
func Derived(name string, v int) Candidate {
	return Candidate{Name: name, Value: v, Present: true}
}
