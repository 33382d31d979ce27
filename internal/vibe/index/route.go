package index

import (
	"errors"
	"sync/atomic"

	"github.com/kamusis/vibe-cli/internal/vibe"
)

// Route embeds a query composition and returns the id of the nearest
// derived point. Resolving that id to content is the caller's business.
func Route(c vibe.Composition, idx *Index, anchors vibe.Positions) (vibe.ID, error) {
	target, err := vibe.Embed(anchors, c)
	if err != nil {
		return "", err
	}
	m, err := idx.Nearest(target)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// Router serves queries against whichever Index was published last. Swap
// replaces the index in one step, so a query never sees a half-built one.
type Router struct {
	cur atomic.Pointer[Index]
}

// ErrNoIndex is returned by Router.Route before the first Swap.
var ErrNoIndex = errors.New("no index published")

// NewRouter returns a Router serving idx (which may be nil).
func NewRouter(idx *Index) *Router {
	r := &Router{}
	if idx != nil {
		r.cur.Store(idx)
	}
	return r
}

// Swap publishes idx and returns the index it replaced.
func (r *Router) Swap(idx *Index) *Index {
	return r.cur.Swap(idx)
}

// Current returns the published index, or nil.
func (r *Router) Current() *Index {
	return r.cur.Load()
}

// Route resolves c against the published index and the anchors it was built from.
func (r *Router) Route(c vibe.Composition, exclude ...vibe.ID) (Match, vibe.Point, error) {
	idx := r.cur.Load()
	if idx == nil {
		return Match{}, vibe.Point{}, ErrNoIndex
	}
	target, err := vibe.Embed(idx.anchors, c)
	if err != nil {
		return Match{}, target, err
	}
	m, err := idx.Nearest(target, exclude...)
	return m, target, err
}
