package ast

import (
	"math"
	"strconv"
)

// Number is a float64 literal with total equality: every NaN equals every
// other NaN, everything else compares with ==.
type Number float64

func (n Number) Equal(o Number) bool {
	a, b := float64(n), float64(o)
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}
