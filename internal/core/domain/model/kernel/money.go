package kernel

import "math"

// AmountEpsilon is the tolerance applied when comparing order amounts.
// Submitted totals may carry rounding noise from client-side arithmetic;
// differences within one cent are treated as equal.
const AmountEpsilon = 0.01

// AmountsEqual reports whether two monetary amounts match within AmountEpsilon.
func AmountsEqual(a float64, b float64) bool {
	return math.Abs(a-b) <= AmountEpsilon
}
