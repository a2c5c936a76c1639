package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pacer/internal/bench"
	"pacer/internal/results"
	"pacer/internal/runner"
	"pacer/internal/stats"
)

// State tracks the controller's lifecycle. Resolved and TimedOut are both
// terminal and both successful completions.
type State int

const (
	Idle State = iota
	Sampling
	Resolved
	TimedOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sampling:
		return "sampling"
	case Resolved:
		return "resolved"
	case TimedOut:
		return "timed-out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultMinSamples is the minimum sample count per spec when none is
// configured.
const DefaultMinSamples = 50

// Progress is one per-round snapshot for interactive display. Stats is only
// populated once every spec has enough samples for an interval.
type Progress struct {
	Round   int
	State   State
	Elapsed time.Duration
	Stats   []results.Stats
}

// Config controls one sampling invocation.
type Config struct {
	// MinSamples per spec. Defaults to DefaultMinSamples, floor 2.
	MinSamples int
	// Timeout bounds the auto-sampling phase past the minimum; 0 means
	// collect the minimum and stop (CI mode).
	Timeout time.Duration
	// Horizons the pairwise differences must clear.
	Horizons []stats.Horizon
	// Seed for the bootstrap PRNG; 0 picks a time-based seed.
	Seed int64
	// Resamples per bootstrap estimate; 0 means stats.DefaultResamples.
	Resamples int
	// Progress, when set, receives a snapshot after every round.
	Progress func(Progress)
}

// Controller owns the round loop: one sample per spec per round, serial
// within a round so benchmarks never contend for CPU, statistics recomputed
// from scratch after each full round.
type Controller struct {
	specs  []bench.Spec
	runner runner.Runner
	cfg    Config
	engine *stats.Engine
	store  *store
	state  State
	logger *slog.Logger
}

func New(specs []bench.Spec, r runner.Runner, cfg Config) *Controller {
	if cfg.MinSamples < 2 {
		if cfg.MinSamples == 0 {
			cfg.MinSamples = DefaultMinSamples
		} else {
			cfg.MinSamples = 2
		}
	}
	engine := stats.NewEngine(cfg.Seed)
	if cfg.Resamples > 0 {
		engine.Resamples = cfg.Resamples
	}
	return &Controller{
		specs:  specs,
		runner: r,
		cfg:    cfg,
		engine: engine,
		store:  newStore(specs),
		state:  Idle,
		logger: slog.Default().With("component", "sampler"),
	}
}

// Seed preloads samples for one spec, for offline runs that only need the
// statistics (no live measurement).
func (c *Controller) Seed(spec bench.Spec, samples []float64) {
	for _, ms := range samples {
		c.store.append(spec.ID(), ms)
	}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Run drives rounds until every pairwise comparison resolves or the timeout
// elapses, and returns the final comparison matrix. The minimum-sample phase
// always completes; the timeout is checked only at round boundaries, so the
// worst-case overrun is one sample's duration. A sample failure aborts the
// invocation.
func (c *Controller) Run(ctx context.Context) (results.Matrix, error) {
	start := time.Now()
	c.state = Sampling
	round := c.store.minCount()

	// Phase 1: bring every spec up to the minimum sample count.
	for c.store.minCount() < c.cfg.MinSamples {
		round++
		if err := c.sampleRound(ctx, c.specs); err != nil {
			return results.Matrix{}, err
		}
		p := Progress{Round: round, State: c.state, Elapsed: time.Since(start)}
		if c.store.minCount() >= 2 {
			// Intervals are computable before the minimum is met; surface
			// them so callers can watch them narrow.
			p.Stats, _ = c.specStats()
		}
		c.report(p)
	}

	// Phase 2: keep sampling specs in unresolved pairs until everything
	// resolves or the budget runs out.
	for {
		matrix, err := c.evaluate()
		if err != nil {
			return results.Matrix{}, err
		}
		open := matrix.Unresolved()

		if len(open) == 0 {
			c.state = Resolved
			matrix.Outcome = results.OutcomeResolved
			c.report(Progress{Round: round, State: c.state, Elapsed: time.Since(start), Stats: rowStats(matrix)})
			c.logger.Info("all comparisons resolved", "rounds", round)
			return matrix, nil
		}
		if elapsed := time.Since(start); elapsed >= c.cfg.Timeout {
			c.state = TimedOut
			matrix.Outcome = results.OutcomeTimedOut
			c.report(Progress{Round: round, State: c.state, Elapsed: elapsed, Stats: rowStats(matrix)})
			c.logger.Info("sampling timed out with comparisons open",
				"rounds", round, "open", len(open))
			return matrix, nil
		}

		c.report(Progress{Round: round, State: c.state, Elapsed: time.Since(start), Stats: rowStats(matrix)})

		active := make([]bench.Spec, 0, len(open))
		for _, i := range open {
			active = append(active, c.specs[i])
		}
		round++
		if err := c.sampleRound(ctx, active); err != nil {
			return results.Matrix{}, err
		}
	}
}

// sampleRound collects exactly one new sample per active spec, in fixed
// order, one at a time.
func (c *Controller) sampleRound(ctx context.Context, active []bench.Spec) error {
	for _, spec := range active {
		ms, err := c.runner.Sample(ctx, spec)
		if err != nil {
			// No retry: a failed sample invalidates trust in the spec's
			// distribution, so the whole invocation aborts.
			return fmt.Errorf("sampling aborted: %w", err)
		}
		c.store.append(spec.ID(), ms)
		c.logger.Debug("sample collected", "spec", spec.String(), "ms", ms)
	}
	return nil
}

// specStats recomputes every spec's statistics from its full sample history.
func (c *Controller) specStats() ([]results.Stats, error) {
	rs := make([]results.Stats, len(c.specs))
	for i, spec := range c.specs {
		samples := c.store.snapshot(spec.ID())
		ci, err := c.engine.ConfidenceInterval(samples)
		if err != nil {
			return nil, fmt.Errorf("stats for %s: %w", spec.String(), err)
		}
		rs[i] = results.Stats{
			Spec:    spec,
			Samples: samples,
			Mean:    stats.Mean(samples),
			MeanCI:  ci,
		}
	}
	return rs, nil
}

// evaluate recomputes per-spec stats and every ordered pairwise difference
// from the full sample history of this invocation.
func (c *Controller) evaluate() (results.Matrix, error) {
	rs, err := c.specStats()
	if err != nil {
		return results.Matrix{}, err
	}

	cells := make(map[results.PairKey]results.Cell)
	for i := range c.specs {
		for j := range c.specs {
			if i == j {
				continue
			}
			diff, err := c.engine.Difference(rs[i].Samples, rs[j].Samples)
			if err != nil {
				return results.Matrix{}, fmt.Errorf("difference %s vs %s: %w",
					c.specs[i].String(), c.specs[j].String(), err)
			}
			cells[results.PairKey{A: i, B: j}] = results.Cell{
				Difference: diff,
				Resolution: stats.Resolve(diff, c.cfg.Horizons),
			}
		}
	}
	return results.Build(results.OutcomeResolved, rs, cells), nil
}

func (c *Controller) report(p Progress) {
	if c.cfg.Progress == nil {
		return
	}
	c.cfg.Progress(p)
}

func rowStats(m results.Matrix) []results.Stats {
	rs := make([]results.Stats, len(m.Rows))
	for i, row := range m.Rows {
		rs[i] = row.Stats
	}
	return rs
}
