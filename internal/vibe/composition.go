package vibe

import (
	"fmt"
	"math"
	"sort"
)

// Composition weights anchors. Weights lie in [0,1] and need not sum to 1;
// Embed normalises them.
type Composition map[ID]float64

// IDs returns the referenced anchors sorted lexicographically.
func (c Composition) IDs() []ID {
	ids := make([]ID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Sum returns the total weight, accumulated in id order.
func (c Composition) Sum() float64 {
	var sum float64
	for _, id := range c.IDs() {
		sum += c[id]
	}
	return sum
}

// Validate checks every weight and reference. known may be nil to skip the
// reference check.
func (c Composition) Validate(known func(ID) bool) error {
	if len(c) == 0 {
		return fmt.Errorf("%w: no weights", ErrInvalidComposition)
	}
	for _, id := range c.IDs() {
		w := c[id]
		if known != nil && !known(id) {
			return fmt.Errorf("%w: unknown anchor %q", ErrInvalidComposition, id)
		}
		if math.IsNaN(w) || w < 0 || w > 1 {
			return fmt.Errorf("%w: weight for %q must be in [0,1], got %v", ErrInvalidComposition, id, w)
		}
	}
	if sum := c.Sum(); !(sum > 0) {
		return fmt.Errorf("%w: weight sum must be positive, got %v", ErrInvalidComposition, sum)
	}
	return nil
}

// Normalized returns a copy whose weights sum to 1.
func (c Composition) Normalized() (Composition, error) {
	if err := c.Validate(nil); err != nil {
		return nil, err
	}
	sum := c.Sum()
	out := make(Composition, len(c))
	for id, w := range c {
		out[id] = w / sum
	}
	return out, nil
}

// Dominant returns the highest-weight anchor; ties go to the smallest id.
func (c Composition) Dominant() (ID, bool) {
	var (
		best  ID
		bestW = -1.0
	)
	for _, id := range c.IDs() {
		if c[id] > bestW {
			best, bestW = id, c[id]
		}
	}
	return best, bestW >= 0
}
