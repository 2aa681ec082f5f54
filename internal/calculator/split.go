// Package calculator implements the share arithmetic for split movements:
// equitable percentage distribution, percentage/value conversion and
// sum validation.
//
// Percentages here are human percentages in [0, 100] rounded to two
// decimals. They are the single source of truth; currency values are always
// derived views and editing a value converts it back to a percentage
// immediately.
package calculator

import (
	"fmt"
	"math"
)

// SumTolerance is how far from 100.00 a percentage sum may drift before
// validation fails.
const SumTolerance = 0.01

// Unit selects how shares are displayed and how sum errors are reported.
type Unit int

const (
	UnitPercent Unit = iota
	UnitValue
)

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EquitablePercentages divides 100% among n participants.
//
// Every participant gets floor(10000/n)/100, the even share truncated to
// two decimals, and the rounding remainder is added to the LAST entry so
// the sum is exactly 100.00. The remainder lands on one entry on purpose:
// it keeps the result stable and observable instead of smearing sub-cent
// noise across everyone.
func EquitablePercentages(n int) []float64 {
	if n <= 0 {
		return nil
	}
	base := math.Floor(10000/float64(n)) / 100
	out := make([]float64, n)
	total := 0.0
	for i := range out {
		out[i] = base
		total += base
	}
	diff := Round2(100 - total)
	out[n-1] = Round2(out[n-1] + diff)
	return out
}

// PercentFromValue converts a currency value into its percentage of total.
// Total must be positive; callers validate the amount before any share math.
func PercentFromValue(value, total float64) float64 {
	return value / total * 100
}

// ValueFromPercent converts a percentage into a currency value of total.
func ValueFromPercent(pct, total float64) float64 {
	return pct / 100 * total
}

// SumError reports a share sum outside the tolerance band. Diff is in the
// unit the form was displaying when validation ran: percentage points for
// UnitPercent, currency for UnitValue. Positive Diff means the shares fall
// short of 100%, negative means they exceed it.
type SumError struct {
	Sum  float64 // percentage sum as entered
	Diff float64 // shortfall (>0) or excess (<0), in Unit
	Unit Unit
}

func (e *SumError) Error() string {
	switch {
	case e.Unit == UnitValue && e.Diff > 0:
		return fmt.Sprintf("participant values fall %.2f short of the total amount", e.Diff)
	case e.Unit == UnitValue:
		return fmt.Sprintf("participant values exceed the total amount by %.2f", -e.Diff)
	case e.Diff > 0:
		return fmt.Sprintf("percentages add up to %.2f%%, missing %.2f%%", e.Sum, e.Diff)
	default:
		return fmt.Sprintf("percentages add up to %.2f%%, %.2f%% over", e.Sum, -e.Diff)
	}
}

// ValidateShareSum checks that percentages sum to 100 within SumTolerance.
// On failure it returns a *SumError with the shortfall/excess expressed in
// the given display unit; amount converts to currency for UnitValue.
func ValidateShareSum(percentages []float64, unit Unit, amount float64) error {
	sum := 0.0
	for _, p := range percentages {
		sum += p
	}
	sum = Round2(sum)
	diff := Round2(100 - sum)
	if math.Abs(diff) <= SumTolerance {
		return nil
	}
	if unit == UnitValue {
		return &SumError{Sum: sum, Diff: Round2(ValueFromPercent(diff, amount)), Unit: unit}
	}
	return &SumError{Sum: sum, Diff: diff, Unit: unit}
}
