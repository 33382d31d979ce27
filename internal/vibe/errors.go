package vibe

import "errors"

var (
	// ErrConfiguration marks a malformed anchor graph, table or layout config.
	// Never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrNumericDivergence indicates NaN/Inf (or collapsed anchors) in computed positions.
	ErrNumericDivergence = errors.New("numeric divergence")

	// ErrInvalidComposition indicates a composition with a non-positive weight
	// sum, an out-of-range weight, or a reference to an unknown anchor.
	ErrInvalidComposition = errors.New("invalid composition")

	// ErrEmptyIndex is returned by searches when no candidate point remains.
	ErrEmptyIndex = errors.New("empty index")

	// ErrDuplicateID indicates an id collision among derived points.
	ErrDuplicateID = errors.New("duplicate id")
)
