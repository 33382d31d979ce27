package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kamusis/vibe-cli/internal/vibe"
)

// Index is an immutable set of derived points. It keeps a private copy of
// the anchor positions it was built from so Route never needs a second lookup.
//
// An Index built from older anchor positions is stale after a relayout;
// rebuild it rather than mixing the two.
type Index struct {
	anchors  vibe.Positions
	points   []Point
	byID     map[vibe.ID]int
	rejected []Rejection
}

// Build embeds every definition against anchors. Duplicate ids abort the
// whole build. A definition whose composition is invalid is skipped and
// reported through Rejected; the rest of the batch still builds.
func Build(anchors vibe.Positions, defs []Definition) (*Index, error) {
	if len(anchors) == 0 {
		return nil, fmt.Errorf("%w: no anchor positions", vibe.ErrConfiguration)
	}

	seen := make(map[vibe.ID]struct{}, len(defs))
	var dups []string
	for _, d := range defs {
		if _, ok := seen[d.ID]; ok {
			dups = append(dups, string(d.ID))
			continue
		}
		seen[d.ID] = struct{}{}
	}
	if len(dups) > 0 {
		return nil, fmt.Errorf("%w: %s", vibe.ErrDuplicateID, strings.Join(dups, ", "))
	}

	idx := &Index{
		anchors: anchors.Clone(),
		points:  make([]Point, 0, len(defs)),
		byID:    make(map[vibe.ID]int, len(defs)),
	}
	for _, d := range defs {
		if d.ID == "" {
			idx.rejected = append(idx.rejected, Rejection{ID: d.ID, Err: fmt.Errorf("%w: empty id", vibe.ErrInvalidComposition)})
			continue
		}
		if d.Err != nil {
			idx.rejected = append(idx.rejected, Rejection{ID: d.ID, Err: d.Err})
			continue
		}
		pos, err := vibe.Embed(anchors, d.Composition)
		if err != nil {
			idx.rejected = append(idx.rejected, Rejection{ID: d.ID, Err: err})
			continue
		}
		parent, _ := d.Composition.Dominant()
		comp := cloneComposition(d.Composition)
		idx.byID[d.ID] = len(idx.points)
		idx.points = append(idx.points, Point{
			ID:          d.ID,
			Description: d.Description,
			Composition: comp,
			Position:    pos,
			Parent:      parent,
		})
	}
	return idx, nil
}

// Rejected lists the definitions skipped during Build, in input order.
func (x *Index) Rejected() []Rejection {
	out := make([]Rejection, len(x.rejected))
	copy(out, x.rejected)
	return out
}

// Err joins every rejection, or returns nil when the whole batch was placed.
func (x *Index) Err() error {
	if len(x.rejected) == 0 {
		return nil
	}
	errs := make([]error, len(x.rejected))
	for i, r := range x.rejected {
		errs[i] = r
	}
	return errors.Join(errs...)
}

// Len returns the number of indexed points.
func (x *Index) Len() int { return len(x.points) }

// Get returns the point with the given id.
func (x *Index) Get(id vibe.ID) (Point, bool) {
	i, ok := x.byID[id]
	if !ok {
		return Point{}, false
	}
	return x.points[i].clone(), true
}

// All returns the points in insertion order.
func (x *Index) All() []Point {
	out := make([]Point, len(x.points))
	for i, p := range x.points {
		out[i] = p.clone()
	}
	return out
}

func (p Point) clone() Point {
	p.Composition = cloneComposition(p.Composition)
	return p
}

func cloneComposition(c vibe.Composition) vibe.Composition {
	out := make(vibe.Composition, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Anchors returns a copy of the anchor positions the index was built from.
func (x *Index) Anchors() vibe.Positions { return x.anchors.Clone() }
