// Package natsort provides numeric-aware ("natural") string ordering.
//
// # Usage
//
// Page filenames are ordered so that "2.png" sorts before "10.jpeg",
// which plain lexicographic comparison gets wrong. The ordering is the
// page-numbering contract for imported books, so it must be stable and
// locale-insensitive: digit runs compare by numeric value everywhere.
package natsort

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator builds a collator with numeric digit-run handling under the
// undetermined locale, so results do not depend on host locale settings.
//
// collate.Collator is not safe for concurrent use, so each exported call
// constructs its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric)
}

// Compare returns -1, 0, or +1 depending on whether a sorts before, equal
// to, or after b under natural ordering.
func Compare(a, b string) int {
	return newCollator().CompareString(a, b)
}

// Strings sorts list in place into natural order. The sort is stable so
// names that compare equal keep their original relative order.
func Strings(list []string) {
	c := newCollator()
	sort.SliceStable(list, func(i, j int) bool {
		return c.CompareString(list[i], list[j]) < 0
	})
}
