// Package alloy plans alloy batches: it validates component percentage
// ranges, composes integer ingot splits for a batch size and plans how many
// full and remainder batches reach a requested total.
package alloy

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/anvil-calc/pkg/constants"
	"github.com/iwvelando/anvil-calc/pkg/mathutil"
)

var (
	// ErrInvalidRange is returned when a minimum percent exceeds the maximum.
	ErrInvalidRange = errors.New("minimum percent cannot exceed maximum percent")

	// ErrBlankName is returned when a component has no name.
	ErrBlankName = errors.New("component name is required")

	// ErrInfeasibleRangeSet is returned when the ranges cannot add up to 100%.
	ErrInfeasibleRangeSet = errors.New("component ranges cannot add up to 100%")
)

// Range is the allowed share of one component in a batch.
type Range struct {
	ID         int64   `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	MinPercent float64 `json:"minPercent" yaml:"minPercent"`
	MaxPercent float64 `json:"maxPercent" yaml:"maxPercent"`
}

// NewRange builds a Range with both percents clamped into [0, 100].
func NewRange(id int64, name string, minPercent, maxPercent float64) (Range, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Range{}, ErrBlankName
	}
	if math.IsNaN(minPercent) || math.IsNaN(maxPercent) {
		return Range{}, fmt.Errorf("%w: %s percent is not a number", ErrInvalidRange, trimmed)
	}

	r := Range{
		ID:         id,
		Name:       trimmed,
		MinPercent: mathutil.ClampPercent(minPercent),
		MaxPercent: mathutil.ClampPercent(maxPercent),
	}
	if r.MinPercent > r.MaxPercent {
		return Range{}, fmt.Errorf("%w: %s %.1f%% > %.1f%%", ErrInvalidRange, trimmed, r.MinPercent, r.MaxPercent)
	}
	return r, nil
}

// Contains reports whether percent lies in the range, within rounding
// tolerance.
func (r Range) Contains(percent float64) bool {
	return mathutil.InRange(percent, r.MinPercent, r.MaxPercent, constants.PercentTolerance)
}

// Bounds summarizes a range set.
type Bounds struct {
	SumMin float64 `json:"sumMin" yaml:"sumMin"`
	SumMax float64 `json:"sumMax" yaml:"sumMax"`
	Valid  bool    `json:"valid" yaml:"valid"`
}

// Err returns ErrInfeasibleRangeSet for an invalid set.
func (b Bounds) Err() error {
	if b.Valid {
		return nil
	}
	return fmt.Errorf("%w: minimums sum to %.1f%%, maximums sum to %.1f%%", ErrInfeasibleRangeSet, b.SumMin, b.SumMax)
}

// ValidateRanges checks that 100% lies between the sum of minimums and the
// sum of maximums. This is necessary for a batch to exist but not
// sufficient; only ComposeBatch can confirm a concrete split.
func ValidateRanges(ranges []Range) Bounds {
	var b Bounds
	for _, r := range ranges {
		b.SumMin += r.MinPercent
		b.SumMax += r.MaxPercent
	}
	b.Valid = b.SumMin <= constants.MaxPercent && b.SumMax >= constants.MaxPercent
	return b
}
