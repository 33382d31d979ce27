package index

import (
	"fmt"
	"sort"

	"github.com/kamusis/vibe-cli/internal/vibe"
)

// Nearest returns the point closest to target, skipping excluded ids. It is a
// linear scan; on equal distance the earlier-inserted point wins.
func (x *Index) Nearest(target vibe.Point, exclude ...vibe.ID) (Match, error) {
	if !target.Finite() {
		return Match{}, fmt.Errorf("%w: target is not finite", vibe.ErrInvalidComposition)
	}
	skip := excludeSet(exclude)

	best := -1
	var bestD float64
	for i, p := range x.points {
		if _, ok := skip[p.ID]; ok {
			continue
		}
		d := target.Dist(p.Position)
		if best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return Match{}, vibe.ErrEmptyIndex
	}
	return Match{ID: x.points[best].ID, Distance: bestD}, nil
}

// KNearest returns up to k points ordered by distance, ties in insertion order.
func (x *Index) KNearest(target vibe.Point, k int, exclude ...vibe.ID) ([]Match, error) {
	if !target.Finite() {
		return nil, fmt.Errorf("%w: target is not finite", vibe.ErrInvalidComposition)
	}
	if k <= 0 {
		return nil, nil
	}
	skip := excludeSet(exclude)

	out := make([]Match, 0, len(x.points))
	for _, p := range x.points {
		if _, ok := skip[p.ID]; ok {
			continue
		}
		out = append(out, Match{ID: p.ID, Distance: target.Dist(p.Position)})
	}
	if len(out) == 0 {
		return nil, vibe.ErrEmptyIndex
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func excludeSet(ids []vibe.ID) map[vibe.ID]struct{} {
	if len(ids) == 0 {
		return nil
	}
	m := make(map[vibe.ID]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
