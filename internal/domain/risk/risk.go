// Package risk holds the read-only applicant risk-profile table.
package risk

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidModifier reports a negative modifier in a profile set.
var ErrInvalidModifier = errors.New("invalid risk modifier")

// DebtModifier marks an applicant that must always be refused.
const DebtModifier = 0

// Profile is a single applicant's credit modifier.
type Profile struct {
	PersonalCode string
	Modifier     int
}

// Table maps personal codes to credit modifiers. It is immutable once built
// and safe for concurrent readers. The zero Table is empty and valid.
type Table struct {
	modifiers map[string]int
}

// NewTable copies profiles into a new Table. Negative modifiers are rejected.
func NewTable(profiles map[string]int) (Table, error) {
	m := make(map[string]int, len(profiles))
	for code, modifier := range profiles {
		if modifier < 0 {
			return Table{}, fmt.Errorf("%w: %q has %d", ErrInvalidModifier, code, modifier)
		}
		m[code] = modifier
	}
	return Table{modifiers: m}, nil
}

// MustTable is NewTable for static tables known to be valid.
func MustTable(profiles map[string]int) Table {
	t, err := NewTable(profiles)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the built-in profile set: one indebted applicant and
// one applicant per credit segment.
func Default() map[string]int {
	return map[string]int{
		"49002010965": DebtModifier, // debt
		"49002010976": 100,          // segment 1
		"49002010987": 300,          // segment 2
		"49002010998": 1000,         // segment 3
	}
}

// Modifier returns the credit modifier for code. Unknown codes resolve to
// DebtModifier.
func (t Table) Modifier(code string) int {
	return t.modifiers[code]
}

// Len returns the number of known applicants.
func (t Table) Len() int {
	return len(t.modifiers)
}

// Profiles returns the table contents sorted by personal code.
func (t Table) Profiles() []Profile {
	out := make([]Profile, 0, len(t.modifiers))
	for code, modifier := range t.modifiers {
		out = append(out, Profile{PersonalCode: code, Modifier: modifier})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PersonalCode < out[j].PersonalCode })
	return out
}
