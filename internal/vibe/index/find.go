package index

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Find returns points whose id, description or parent anchor contain every
// query token, case-insensitively, ordered by id. limit <= 0 means no limit.
func (x *Index) Find(query string, limit int) []Point {
	fold := cases.Fold()
	tokens := strings.Fields(fold.String(query))
	if len(tokens) == 0 {
		return nil
	}

	var out []Point
	for _, p := range x.points {
		blob := fold.String(strings.Join([]string{string(p.ID), p.Description, string(p.Parent)}, "\n"))
		ok := true
		for _, tok := range tokens {
			if !strings.Contains(blob, tok) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p.clone())
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
