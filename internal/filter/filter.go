// Package filter evaluates the single-clause equality predicate the
// listing endpoints accept: `attributeName eq "value"`.
package filter

import "strings"

// Predicate is one parsed `attr eq value` clause. Attribute and value are
// both matched case-sensitively.
type Predicate struct {
	Attr  string
	Value string
}

// Parse extracts the predicate from a filter string. Anything that is not
// a single eq clause reports ok == false, which callers treat as "no
// filtering applied": unsupported filters degrade, they never fail.
func Parse(s string) (Predicate, bool) {
	s = strings.TrimSpace(s)
	left, right, found := strings.Cut(s, " eq ")
	if !found {
		return Predicate{}, false
	}
	value := strings.TrimSpace(right)
	value = strings.Trim(value, `"`)
	value = strings.Trim(value, "'")
	return Predicate{
		Attr:  strings.TrimSpace(left),
		Value: value,
	}, true
}

// Getter looks up a resource's canonical string attribute by name.
type Getter func(attr string) (string, bool)

// Matches reports whether the resource exposed through get satisfies the
// predicate. Absent or non-string attributes never match.
func (p Predicate) Matches(get Getter) bool {
	v, ok := get(p.Attr)
	return ok && v == p.Value
}
