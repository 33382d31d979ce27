// Package catalog loads the static anchor graph and sub-vibe tables from
// YAML. Every id read from the tables goes through vibe.ParseID here.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kamusis/vibe-cli/internal/vibe"
	"github.com/kamusis/vibe-cli/internal/vibe/index"
)

const (
	AnchorsFile  = "anchors.yaml"
	SubVibesFile = "subvibes.yaml"
)

// AnchorRow is one anchor in anchors.yaml.
type AnchorRow struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description,omitempty"`
	Position    []float64 `yaml:"position,omitempty,flow"`
}

// EdgeRow is one undirected edge in anchors.yaml. An omitted distance means
// the configured ideal distance.
type EdgeRow struct {
	From     string   `yaml:"from"`
	To       string   `yaml:"to"`
	Distance *float64 `yaml:"distance,omitempty"`
}

// AnchorTable is the on-disk shape of anchors.yaml.
type AnchorTable struct {
	Anchors []AnchorRow `yaml:"anchors"`
	Edges   []EdgeRow   `yaml:"edges,omitempty"`
}

// SubVibeRow is one derived point definition in subvibes.yaml.
type SubVibeRow struct {
	ID          string             `yaml:"id"`
	Description string             `yaml:"description,omitempty"`
	Composition map[string]float64 `yaml:"composition"`
}

// SubVibeTable is the on-disk shape of subvibes.yaml.
type SubVibeTable struct {
	SubVibes []SubVibeRow `yaml:"subvibes"`
}

// Catalog is a validated anchor graph plus the sub-vibe definitions to place on it.
type Catalog struct {
	Graph    *vibe.Graph
	SubVibes []index.Definition
}

// Load reads anchors.yaml and subvibes.yaml from dir.
func Load(dir string, defaultDistance float64) (*Catalog, error) {
	var at AnchorTable
	if err := decodeFile(filepath.Join(dir, AnchorsFile), &at); err != nil {
		return nil, err
	}
	var st SubVibeTable
	if err := decodeFile(filepath.Join(dir, SubVibesFile), &st); err != nil {
		return nil, err
	}
	return FromTables(at, st, defaultDistance)
}

// FromTables validates already-decoded tables.
func FromTables(at AnchorTable, st SubVibeTable, defaultDistance float64) (*Catalog, error) {
	g, err := at.Graph(defaultDistance)
	if err != nil {
		return nil, err
	}
	defs := make([]index.Definition, 0, len(st.SubVibes))
	for _, row := range st.SubVibes {
		id, err := vibe.ParseID(row.ID)
		if err != nil {
			return nil, fmt.Errorf("subvibe %q: %w", row.ID, err)
		}
		// A bad composition costs only this row; Build reports it as rejected.
		comp, err := ParseWeights(row.Composition)
		defs = append(defs, index.Definition{ID: id, Description: row.Description, Composition: comp, Err: err})
	}
	return &Catalog{Graph: g, SubVibes: defs}, nil
}

// Graph builds the anchor graph described by the table.
func (t AnchorTable) Graph(defaultDistance float64) (*vibe.Graph, error) {
	anchors := make([]vibe.Anchor, 0, len(t.Anchors))
	for _, row := range t.Anchors {
		id, err := vibe.ParseID(row.ID)
		if err != nil {
			return nil, fmt.Errorf("anchor %q: %w", row.ID, err)
		}
		a := vibe.Anchor{ID: id, Description: row.Description}
		switch len(row.Position) {
		case 0:
		case 2:
			a.Position = &vibe.Point{X: row.Position[0], Y: row.Position[1]}
		default:
			return nil, fmt.Errorf("%w: anchor %q position must be [x, y]", vibe.ErrConfiguration, row.ID)
		}
		anchors = append(anchors, a)
	}

	edges := make([]vibe.Edge, 0, len(t.Edges))
	for _, row := range t.Edges {
		from, err := vibe.ParseID(row.From)
		if err != nil {
			return nil, fmt.Errorf("edge from %q: %w", row.From, err)
		}
		to, err := vibe.ParseID(row.To)
		if err != nil {
			return nil, fmt.Errorf("edge to %q: %w", row.To, err)
		}
		d := defaultDistance
		if row.Distance != nil {
			d = *row.Distance
		}
		edges = append(edges, vibe.Edge{From: from, To: to, Distance: d})
	}
	return vibe.NewGraph(anchors, edges)
}

// ParseWeights turns raw classifier or table output into a Composition. Ids
// are canonicalised; anchor existence is checked later, per point. A key that
// is not a valid id can name no anchor, so it is an invalid composition.
func ParseWeights(raw map[string]float64) (vibe.Composition, error) {
	out := make(vibe.Composition, len(raw))
	for k, w := range raw {
		id, err := vibe.ParseID(k)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown anchor %q", vibe.ErrInvalidComposition, k)
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("%w: %q appears twice after normalisation", vibe.ErrInvalidComposition, id)
		}
		out[id] = w
	}
	return out, nil
}

// DecodeWeights reads a YAML (or JSON) mapping of anchor id to weight.
func DecodeWeights(r io.Reader) (vibe.Composition, error) {
	var raw map[string]float64
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no weights", vibe.ErrInvalidComposition)
		}
		return nil, fmt.Errorf("invalid weights: %w", err)
	}
	return ParseWeights(raw)
}

func decodeFile(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return nil
}
