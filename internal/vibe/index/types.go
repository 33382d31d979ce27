// Package index holds the manifold's derived points ("sub-vibes") and answers
// nearest-point queries over them. An Index is immutable once built; a
// rebuild always produces a new Index.
package index

import "github.com/kamusis/vibe-cli/internal/vibe"

// Definition is one row of the sub-vibe table: an id and its anchor mix.
type Definition struct {
	ID          vibe.ID
	Description string
	Composition vibe.Composition
	// Err, when set, is a failure from reading the row; Build rejects the
	// definition with it instead of embedding.
	Err error
}

// Point is a derived point with its computed coordinate.
type Point struct {
	ID          vibe.ID
	Description string
	Composition vibe.Composition
	Position    vibe.Point
	// Parent is the highest-weight anchor of the composition.
	Parent vibe.ID
}

// Match is a search hit.
type Match struct {
	ID       vibe.ID
	Distance float64
}

// Rejection records a definition that could not be placed.
type Rejection struct {
	ID  vibe.ID
	Err error
}

func (r Rejection) Error() string { return string(r.ID) + ": " + r.Err.Error() }

func (r Rejection) Unwrap() error { return r.Err }
