package natsort_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mangata-app/mangata/pkg/natsort"
)

/*
TestStrings_NumericOrdering verifies that digit runs compare by numeric
value, so "10" does not sort before "2".
*/
func TestStrings_NumericOrdering(t *testing.T) {
	list := []string{"10.jpeg", "1.jpg", "2.png"}

	natsort.Strings(list)

	assert.Equal(t, []string{"1.jpg", "2.png", "10.jpeg"}, list)
}

/*
TestStrings_MixedNames covers names with prefixes and zero padding.
*/
func TestStrings_MixedNames(t *testing.T) {
	list := []string{"page-20.png", "page-3.png", "page-100.png", "cover.png"}

	natsort.Strings(list)

	assert.Equal(t, []string{"cover.png", "page-3.png", "page-20.png", "page-100.png"}, list)
}

/*
TestCompare verifies the three-way comparison contract.
*/
func TestCompare(t *testing.T) {
	assert.Negative(t, natsort.Compare("2.png", "10.jpeg"))
	assert.Positive(t, natsort.Compare("10.jpeg", "2.png"))
	assert.Zero(t, natsort.Compare("5.png", "5.png"))
}
