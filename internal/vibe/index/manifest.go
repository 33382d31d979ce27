package index

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot file names; a snapshot directory holds exactly these four files.
const (
	ManifestFile  = "index_manifest.json"
	AnchorsFile   = "anchors.jsonl"
	PointsFile    = "points.jsonl"
	PositionsFile = "positions.f64"
)

// Manifest describes a persisted snapshot and how it was produced.
type Manifest struct {
	IndexVersion  int     `json:"index_version"`
	BuildID       string  `json:"build_id"`
	CreatedAt     string  `json:"created_at"`
	Seed          uint64  `json:"seed"`
	Iterations    int     `json:"iterations"`
	Converged     bool    `json:"converged"`
	FinalForce    float64 `json:"final_force"`
	Pinned        bool    `json:"pinned"`
	Anchors       int     `json:"anchors"`
	Points        int     `json:"points"`
	Rejected      int     `json:"rejected"`
	AnchorsFile   string  `json:"anchors_file"`
	PointsFile    string  `json:"points_file"`
	PositionsFile string  `json:"positions_file"`
}

// NewManifest stamps a fresh build id and creation time.
func NewManifest() Manifest {
	return Manifest{
		IndexVersion:  1,
		BuildID:       uuid.NewString(),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		AnchorsFile:   AnchorsFile,
		PointsFile:    PointsFile,
		PositionsFile: PositionsFile,
	}
}

// AnchorEntry is one row of anchors.jsonl.
type AnchorEntry struct {
	ID          string  `json:"id"`
	Description string  `json:"description,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// PointEntry is one row of points.jsonl. Coordinates live in positions.f64,
// in the same order.
type PointEntry struct {
	ID          string             `json:"id"`
	Description string             `json:"description,omitempty"`
	Parent      string             `json:"parent,omitempty"`
	Composition map[string]float64 `json:"composition"`
}

// Snapshot is a loaded, ready-to-query manifold.
type Snapshot struct {
	Manifest Manifest
	Anchors  []AnchorEntry
	Index    *Index
}
