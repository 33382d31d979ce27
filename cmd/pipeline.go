package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamusis/vibe-cli/internal/catalog"
	"github.com/kamusis/vibe-cli/internal/config"
	"github.com/kamusis/vibe-cli/internal/logging"
	"github.com/kamusis/vibe-cli/internal/metrics"
	"github.com/kamusis/vibe-cli/internal/vibe"
	"github.com/kamusis/vibe-cli/internal/vibe/index"
	"github.com/kamusis/vibe-cli/internal/vibe/layout"
)

// pipeline carries what every stage needs. It is built once per command.
type pipeline struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Registry
}

// layoutCatalog loads the catalog and lays out its anchors.
func (p *pipeline) layoutCatalog(ctx context.Context) (*catalog.Catalog, *layout.Result, error) {
	cat, err := catalog.Load(p.cfg.CatalogPath, p.cfg.Layout.IdealDistance)
	if err != nil {
		return nil, nil, err
	}
	eng, err := layout.New(p.cfg.Layout, layout.WithLogger(p.logger.WithComponent("layout")))
	if err != nil {
		return nil, nil, err
	}
	res, err := eng.Layout(ctx, cat.Graph)
	if err != nil {
		p.metrics.RecordLayout(0, 0, 0, err)
		return nil, nil, err
	}
	p.metrics.RecordLayout(res.Iterations, res.FinalForce, res.Elapsed, nil)
	return cat, res, nil
}

// buildReport summarises an installed snapshot.
type buildReport struct {
	Manifest index.Manifest
	Rejected []index.Rejection
	Dir      string
}

// build runs catalog → layout → index, writes the snapshot to a temp dir and
// swaps it into cfg.IndexPath under the index lock.
func (p *pipeline) build(ctx context.Context) (*buildReport, error) {
	cat, res, err := p.layoutCatalog(ctx)
	if err != nil {
		return nil, err
	}

	blog := p.logger.WithComponent("build")
	idx, err := index.Build(res.Positions, cat.SubVibes)
	if err != nil {
		blog.LogBuild(ctx, len(cat.SubVibes), 0, err)
		return nil, err
	}
	rejected := idx.Rejected()
	p.metrics.RecordBuild(idx.Len(), len(rejected))
	blog.LogBuild(ctx, len(cat.SubVibes), len(rejected), nil)

	m := index.NewManifest()
	m.Seed = p.cfg.Layout.Seed
	m.Iterations = res.Iterations
	m.Converged = res.Converged
	m.FinalForce = res.FinalForce
	m.Pinned = res.Pinned

	parent := filepath.Dir(p.cfg.IndexPath)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", parent, err)
	}
	// Same parent as the destination so the final rename never crosses filesystems.
	tmpDir, err := os.MkdirTemp(parent, ".index-build-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp index dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := index.Write(tmpDir, m, cat.Graph.Anchors(), idx); err != nil {
		return nil, fmt.Errorf("cannot write index: %w", err)
	}

	unlock, err := index.Lock(ctx, p.cfg.IndexPath+".lock")
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := index.AtomicSwap(tmpDir, p.cfg.IndexPath); err != nil {
		return nil, fmt.Errorf("cannot install index: %w", err)
	}

	snap, err := index.Load(p.cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("installed index does not load: %w", err)
	}
	return &buildReport{Manifest: snap.Manifest, Rejected: rejected, Dir: p.cfg.IndexPath}, nil
}

// loadSnapshot reads the installed snapshot.
func (p *pipeline) loadSnapshot() (*index.Snapshot, error) {
	snap, err := index.Load(p.cfg.IndexPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no index at %s\nRun 'vibe build' first.", p.cfg.IndexPath)
		}
		return nil, err
	}
	p.metrics.IndexPoints.Set(float64(snap.Index.Len()))
	return snap, nil
}

// routeResult is the answer to one route query.
type routeResult struct {
	Target  vibe.Point
	Matches []index.Match
}

// route embeds c against snap and returns up to k nearest sub-vibes,
// nearest first.
func (p *pipeline) route(ctx context.Context, snap *index.Snapshot, c vibe.Composition, k int, exclude []vibe.ID) (*routeResult, error) {
	rlog := p.logger.WithComponent("route")
	router := index.NewRouter(snap.Index)

	best, target, err := router.Route(c, exclude...)
	if err != nil {
		p.metrics.RecordRoute(0, err)
		rlog.LogRoute(ctx, "", 0, err)
		return nil, err
	}
	p.metrics.RecordRoute(best.Distance, nil)
	rlog.LogRoute(ctx, string(best.ID), best.Distance, nil)

	out := &routeResult{Target: target, Matches: []index.Match{best}}
	if k > 1 {
		out.Matches, err = router.Current().KNearest(target, k, exclude...)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func newPipeline(cfg *config.Config) (*pipeline, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return &pipeline{cfg: cfg, logger: logger, metrics: metrics.DefaultRegistry()}, nil
}
