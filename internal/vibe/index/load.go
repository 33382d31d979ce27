package index

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kamusis/vibe-cli/internal/vibe"
)

// Load reads a snapshot written by Write. Coordinates are taken as stored,
// not recomputed, so a loaded snapshot answers exactly like the build that
// produced it.
func Load(dir string) (*Snapshot, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	b, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest %s: %w", manifestPath, err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest JSON %s: %w", manifestPath, err)
	}
	if m.IndexVersion != 1 {
		return nil, fmt.Errorf("unsupported index version: %d", m.IndexVersion)
	}
	if m.AnchorsFile == "" {
		m.AnchorsFile = AnchorsFile
	}
	if m.PointsFile == "" {
		m.PointsFile = PointsFile
	}
	if m.PositionsFile == "" {
		m.PositionsFile = PositionsFile
	}

	anchorRows, err := loadJSONL[AnchorEntry](filepath.Join(dir, m.AnchorsFile))
	if err != nil {
		return nil, err
	}
	pointRows, err := loadJSONL[PointEntry](filepath.Join(dir, m.PointsFile))
	if err != nil {
		return nil, err
	}
	if len(anchorRows) != m.Anchors {
		return nil, fmt.Errorf("corrupt snapshot %s: manifest lists %d anchors, %s has %d", dir, m.Anchors, m.AnchorsFile, len(anchorRows))
	}
	if len(pointRows) != m.Points {
		return nil, fmt.Errorf("corrupt snapshot %s: manifest lists %d points, %s has %d", dir, m.Points, m.PointsFile, len(pointRows))
	}
	coords, err := loadPositions(filepath.Join(dir, m.PositionsFile), len(pointRows))
	if err != nil {
		return nil, err
	}

	idx, err := restore(anchorRows, pointRows, coords)
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot %s: %w", dir, err)
	}
	return &Snapshot{Manifest: m, Anchors: anchorRows, Index: idx}, nil
}

func restore(anchorRows []AnchorEntry, pointRows []PointEntry, coords []float64) (*Index, error) {
	if len(anchorRows) == 0 {
		return nil, fmt.Errorf("%w: no anchors", vibe.ErrConfiguration)
	}
	idx := &Index{
		anchors: make(vibe.Positions, len(anchorRows)),
		points:  make([]Point, 0, len(pointRows)),
		byID:    make(map[vibe.ID]int, len(pointRows)),
	}
	for _, a := range anchorRows {
		id, err := vibe.ParseID(a.ID)
		if err != nil {
			return nil, err
		}
		if _, dup := idx.anchors[id]; dup {
			return nil, fmt.Errorf("%w: duplicate anchor %q", vibe.ErrConfiguration, id)
		}
		p := vibe.Point{X: a.X, Y: a.Y}
		if !p.Finite() {
			return nil, fmt.Errorf("%w: anchor %q", vibe.ErrNumericDivergence, id)
		}
		idx.anchors[id] = p
	}

	for i, r := range pointRows {
		id, err := vibe.ParseID(r.ID)
		if err != nil {
			return nil, err
		}
		if _, dup := idx.byID[id]; dup {
			return nil, fmt.Errorf("%w: %s", vibe.ErrDuplicateID, id)
		}
		comp := make(vibe.Composition, len(r.Composition))
		for k, w := range r.Composition {
			aid, err := vibe.ParseID(k)
			if err != nil {
				return nil, err
			}
			comp[aid] = w
		}
		p := vibe.Point{X: coords[2*i], Y: coords[2*i+1]}
		if !p.Finite() {
			return nil, fmt.Errorf("%w: point %q", vibe.ErrNumericDivergence, id)
		}
		idx.byID[id] = len(idx.points)
		idx.points = append(idx.points, Point{
			ID:          id,
			Description: r.Description,
			Composition: comp,
			Position:    p,
			Parent:      vibe.ID(r.Parent),
		})
	}
	return idx, nil
}

func loadJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	var out []T
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var row T
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("invalid JSONL %s: %w", path, err)
		}
		out = append(out, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return out, nil
}

func loadPositions(path string, nPoints int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open positions file %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat positions file %s: %w", path, err)
	}
	expected := int64(nPoints * 2 * 8)
	if st.Size() != expected {
		return nil, fmt.Errorf("positions file size mismatch: got %d want %d (points=%d)", st.Size(), expected, nPoints)
	}

	out := make([]float64, nPoints*2)
	if err := binary.Read(io.LimitReader(f, expected), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("cannot read positions from %s: %w", path, err)
	}
	return out, nil
}
