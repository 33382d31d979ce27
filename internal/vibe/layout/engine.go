// Package layout assigns 2D coordinates to anchors with a force-directed
// spring embedding: connected anchors are pulled toward their declared
// distance, unconnected anchors repel.
package layout

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kamusis/vibe-cli/internal/logging"
	"github.com/kamusis/vibe-cli/internal/vibe"
)

// seedStream is the second PCG word; fixed so a seed alone determines a run.
const seedStream = 0x76696265

// Result is a complete, normalised anchor layout plus its convergence
// diagnostics.
type Result struct {
	Positions  vibe.Positions
	Iterations int
	Converged  bool
	// ForceTrace holds the summed force magnitude over all anchors, one
	// entry per iteration. A trace that does not decay signals a layout
	// that has not settled within the iteration budget.
	ForceTrace []float64
	FinalForce float64
	Pinned     bool
	Elapsed    time.Duration
}

// Engine runs layouts for a fixed Config.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	logger *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the random source used for initial placement. A shared
// source advances between runs, so repeated layouts differ; without this
// option every run reseeds from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the logger used for per-iteration diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New validates cfg and returns an Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.MinDistance == 0 {
		cfg.MinDistance = 1.0
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	for _, o := range opts {
		o(e)
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	return e, nil
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// state is the simulation's working set; index i is the i-th anchor of the
// graph in insertion order.
type state struct {
	n       int
	xs, ys  []float64
	fx, fy  []float64
	desired []float64 // n*n, 0 when unconnected
}

// Layout computes positions for every anchor of g. It either returns a full
// valid coordinate set or an error; there is no partial result. ctx is
// checked once per iteration.
func (e *Engine) Layout(ctx context.Context, g *vibe.Graph) (*Result, error) {
	start := time.Now()
	anchors := g.Anchors()

	if g.Pinned() {
		res := &Result{Positions: g.PinnedPositions(), Pinned: true, Converged: true, Elapsed: time.Since(start)}
		e.logger.LogLayout(ctx, len(anchors), 0, 0, true, nil)
		return res, nil
	}

	st := e.initState(g, anchors)
	res := &Result{ForceTrace: make([]float64, 0, e.cfg.Iterations)}

	for it := 0; it < e.cfg.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			e.logger.LogLayout(ctx, st.n, it, 0, false, err)
			return nil, err
		}
		if err := e.accumulate(st); err != nil {
			return nil, err
		}

		total, maxStep, err := e.step(st, it)
		if err != nil {
			e.logger.LogLayout(ctx, st.n, it+1, total, false, err)
			return nil, err
		}
		res.ForceTrace = append(res.ForceTrace, total)
		res.Iterations = it + 1
		res.FinalForce = total

		if e.cfg.LogEvery > 0 && (it+1)%e.cfg.LogEvery == 0 {
			e.logger.LogIteration(ctx, it+1, total, maxStep)
		}
		if e.cfg.Tolerance > 0 && maxStep < e.cfg.Tolerance {
			res.Converged = true
			break
		}
	}

	normalize(st.xs, e.cfg.Range)
	normalize(st.ys, e.cfg.Range)

	res.Positions = make(vibe.Positions, st.n)
	for i, a := range anchors {
		res.Positions[a.ID] = vibe.Point{X: st.xs[i], Y: st.ys[i]}
	}
	if err := checkDistinct(anchors, st); err != nil {
		e.logger.LogLayout(ctx, st.n, res.Iterations, res.FinalForce, false, err)
		return nil, err
	}

	res.Elapsed = time.Since(start)
	e.logger.LogLayout(ctx, st.n, res.Iterations, res.FinalForce, res.Converged, nil)
	return res, nil
}

// initState spreads anchors evenly on a circle with a random rotation and a
// small radial jitter; distinct angles keep every starting point distinct.
func (e *Engine) initState(g *vibe.Graph, anchors []vibe.Anchor) *state {
	rng := e.rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(e.cfg.Seed, seedStream))
	}

	n := len(anchors)
	st := &state{
		n:       n,
		xs:      make([]float64, n),
		ys:      make([]float64, n),
		fx:      make([]float64, n),
		fy:      make([]float64, n),
		desired: make([]float64, n*n),
	}

	radius := math.Max(e.cfg.IdealDistance, e.cfg.IdealDistance*float64(n)/(2*math.Pi))
	rotation := rng.Float64() * 2 * math.Pi
	for i := range anchors {
		angle := rotation + 2*math.Pi*float64(i)/float64(n)
		r := radius * (0.95 + 0.1*rng.Float64())
		st.xs[i] = r * math.Cos(angle)
		st.ys[i] = r * math.Sin(angle)
	}

	for i := range anchors {
		for j := range anchors {
			if d, ok := g.DesiredDistance(anchors[i].ID, anchors[j].ID); ok {
				st.desired[i*n+j] = d
			}
		}
	}
	return st
}

// accumulate fills fx/fy from the current positions. Each anchor's force is
// summed over the others in index order, so splitting anchors across workers
// gives bit-identical results to a serial run.
func (e *Engine) accumulate(st *state) error {
	workers := e.cfg.Workers
	if workers <= 1 || st.n < 2*workers {
		e.forceRange(st, 0, st.n)
		return nil
	}

	var eg errgroup.Group
	chunk := (st.n + workers - 1) / workers
	for lo := 0; lo < st.n; lo += chunk {
		hi := min(lo+chunk, st.n)
		eg.Go(func() error {
			e.forceRange(st, lo, hi)
			return nil
		})
	}
	// Barrier: no position moves until every force is known.
	return eg.Wait()
}

func (e *Engine) forceRange(st *state, lo, hi int) {
	minD := e.cfg.MinDistance
	for i := lo; i < hi; i++ {
		var fx, fy float64
		for j := 0; j < st.n; j++ {
			if i == j {
				continue
			}
			dx := st.xs[j] - st.xs[i]
			dy := st.ys[j] - st.ys[i]
			d := math.Max(math.Hypot(dx, dy), minD)
			ux, uy := dx/d, dy/d

			if d0 := st.desired[i*st.n+j]; d0 > 0 {
				// Spring: positive pulls i toward j, negative pushes it away.
				f := e.cfg.Attraction * (d - d0)
				fx += f * ux
				fy += f * uy
			} else {
				f := e.cfg.Repulsion / (d * d)
				fx -= f * ux
				fy -= f * uy
			}
		}
		st.fx[i] = fx
		st.fy[i] = fy
	}
}

// step applies all accumulated forces at once and reports the total force
// magnitude and the largest single displacement.
func (e *Engine) step(st *state, it int) (total, maxStep float64, err error) {
	lr := e.cfg.LearningRate
	for i := 0; i < st.n; i++ {
		fx, fy := st.fx[i], st.fy[i]
		mag := math.Hypot(fx, fy)
		if math.IsNaN(mag) || math.IsInf(mag, 0) {
			return total, maxStep, fmt.Errorf("%w: non-finite force at iteration %d", vibe.ErrNumericDivergence, it+1)
		}
		total += mag
		dx, dy := lr*fx, lr*fy
		st.xs[i] += dx
		st.ys[i] += dy
		if !(vibe.Point{X: st.xs[i], Y: st.ys[i]}).Finite() {
			return total, maxStep, fmt.Errorf("%w: non-finite position at iteration %d", vibe.ErrNumericDivergence, it+1)
		}
		if s := math.Hypot(dx, dy); s > maxStep {
			maxStep = s
		}
	}
	if math.IsInf(total, 0) {
		return total, maxStep, fmt.Errorf("%w: total force overflowed at iteration %d", vibe.ErrNumericDivergence, it+1)
	}
	return total, maxStep, nil
}

// normalize rescales vs in place so min→0 and max→r. A zero-span axis is
// centred at r/2.
func normalize(vs []float64, r float64) {
	if len(vs) == 0 {
		return
	}
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	for i, v := range vs {
		if span == 0 {
			vs[i] = r / 2
			continue
		}
		vs[i] = (v - lo) / span * r
	}
}

func checkDistinct(anchors []vibe.Anchor, st *state) error {
	for i := 0; i < st.n; i++ {
		for j := i + 1; j < st.n; j++ {
			if st.xs[i] == st.xs[j] && st.ys[i] == st.ys[j] {
				return fmt.Errorf("%w: anchors %q and %q collapsed onto the same coordinate", vibe.ErrNumericDivergence, anchors[i].ID, anchors[j].ID)
			}
		}
	}
	return nil
}
