package alloy

import (
	"math"

	"github.com/iwvelando/anvil-calc/pkg/constants"
	"github.com/iwvelando/anvil-calc/pkg/mathutil"
)

// Item is the ingot count of one component in a batch.
type Item struct {
	Name   string `json:"name" yaml:"name"`
	Ingots int    `json:"ingots" yaml:"ingots"`
}

// Volume is the melted volume of the item.
func (i Item) Volume() int {
	return i.Ingots * constants.UnitVolume
}

// Percent is the item's share of a batch of the given size.
func (i Item) Percent(size int) float64 {
	if size <= 0 {
		return 0
	}
	return mathutil.CalculatePercentage(float64(i.Ingots), float64(size))
}

// Batch is a single melt: one item per component, summing to Size.
type Batch struct {
	Size  int    `json:"size" yaml:"size"`
	Items []Item `json:"items" yaml:"items"`
}

// Volume is the melted volume of the batch.
func (b Batch) Volume() int {
	return b.Size * constants.UnitVolume
}

// Item returns the item for a component name.
func (b Batch) Item(name string) (Item, bool) {
	for _, it := range b.Items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

type countBounds struct {
	min, max int
}

// ComposeBatch finds ingot counts for every range that sum to size with
// each component's share inside its range. Components are assigned in
// order, each trying counts from its minimum upwards; the first complete
// assignment wins. It reports false when no split exists.
func ComposeBatch(ranges []Range, size int) (Batch, bool) {
	if len(ranges) == 0 || size <= 0 {
		return Batch{}, false
	}

	bounds := make([]countBounds, len(ranges))
	sumMin, sumMax := 0, 0
	for i, r := range ranges {
		bounds[i] = countBounds{
			min: int(math.Ceil(r.MinPercent * float64(size) / constants.PercentageMultiplier)),
			max: int(math.Floor(r.MaxPercent * float64(size) / constants.PercentageMultiplier)),
		}
		sumMin += bounds[i].min
		sumMax += bounds[i].max
	}
	if sumMin > size || sumMax < size {
		return Batch{}, false
	}

	counts := make([]int, len(ranges))
	var backtrack func(index, remaining int) bool
	backtrack = func(index, remaining int) bool {
		if index == len(ranges) {
			return remaining == 0
		}
		hi := min(bounds[index].max, remaining)
		for n := bounds[index].min; n <= hi; n++ {
			counts[index] = n
			if backtrack(index+1, remaining-n) {
				return true
			}
		}
		return false
	}

	if !backtrack(0, size) {
		return Batch{}, false
	}

	items := make([]Item, len(ranges))
	for i, r := range ranges {
		items[i] = Item{Name: r.Name, Ingots: counts[i]}
	}
	return Batch{Size: size, Items: items}, true
}
