package index

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kamusis/vibe-cli/internal/vibe"
)

// Write persists idx and its anchors to dir. anchors fixes the row order of
// anchors.jsonl; every anchor of the index must appear in it.
func Write(dir string, manifest Manifest, anchors []vibe.Anchor, idx *Index) error {
	if idx == nil {
		return fmt.Errorf("nil index")
	}
	if len(anchors) != len(idx.anchors) {
		return fmt.Errorf("anchor count mismatch: got %d want %d", len(anchors), len(idx.anchors))
	}
	if manifest.IndexVersion == 0 {
		manifest.IndexVersion = 1
	}
	if manifest.CreatedAt == "" {
		manifest.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if manifest.AnchorsFile == "" {
		manifest.AnchorsFile = AnchorsFile
	}
	if manifest.PointsFile == "" {
		manifest.PointsFile = PointsFile
	}
	if manifest.PositionsFile == "" {
		manifest.PositionsFile = PositionsFile
	}
	manifest.Anchors = len(anchors)
	manifest.Points = idx.Len()
	manifest.Rejected = len(idx.rejected)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create index dir %s: %w", dir, err)
	}

	anchorRows := make([]any, 0, len(anchors))
	for _, a := range anchors {
		p, ok := idx.anchors[a.ID]
		if !ok {
			return fmt.Errorf("anchor %q has no position in the index", a.ID)
		}
		anchorRows = append(anchorRows, AnchorEntry{ID: string(a.ID), Description: a.Description, X: p.X, Y: p.Y})
	}
	pointRows := make([]any, 0, idx.Len())
	coords := make([]float64, 0, 2*idx.Len())
	for _, p := range idx.points {
		comp := make(map[string]float64, len(p.Composition))
		for k, v := range p.Composition {
			comp[string(k)] = v
		}
		pointRows = append(pointRows, PointEntry{
			ID:          string(p.ID),
			Description: p.Description,
			Parent:      string(p.Parent),
			Composition: comp,
		})
		coords = append(coords, p.Position.X, p.Position.Y)
	}

	mb, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), mb, 0o644); err != nil {
		return fmt.Errorf("cannot write manifest: %w", err)
	}
	if err := writeJSONL(filepath.Join(dir, manifest.AnchorsFile), anchorRows); err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(dir, manifest.PointsFile), pointRows); err != nil {
		return err
	}

	pf, err := os.Create(filepath.Join(dir, manifest.PositionsFile))
	if err != nil {
		return fmt.Errorf("cannot create positions file: %w", err)
	}
	if err := binary.Write(pf, binary.LittleEndian, coords); err != nil {
		_ = pf.Close()
		return fmt.Errorf("cannot write positions: %w", err)
	}
	return pf.Close()
}

func writeJSONL(path string, rows []any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Base(path), err)
	}
	bw := bufio.NewWriter(f)
	for _, r := range rows {
		line, err := json.Marshal(r)
		if err != nil {
			_ = f.Close()
			return err
		}
		if _, err := bw.Write(line); err != nil {
			_ = f.Close()
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
