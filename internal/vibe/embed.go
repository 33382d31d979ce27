package vibe

import "fmt"

// Embed places a composition on the manifold as the convex combination of its
// anchors' positions. It is pure; weights are divided by their sum and
// accumulated in id order so the result never depends on map order.
func Embed(anchors Positions, c Composition) (Point, error) {
	known := func(id ID) bool {
		_, ok := anchors[id]
		return ok
	}
	if err := c.Validate(known); err != nil {
		return Point{}, err
	}

	sum := c.Sum()
	var out Point
	for _, id := range c.IDs() {
		w := c[id] / sum
		p := anchors[id]
		out.X += w * p.X
		out.Y += w * p.Y
	}
	if !out.Finite() {
		return Point{}, fmt.Errorf("%w: embedded position is not finite", ErrInvalidComposition)
	}
	return out, nil
}
