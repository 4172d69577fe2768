// Package simulation drives a set of sensor-steered agents through a static
// obstacle field, one tick at a time, and exposes read-only snapshots for
// an external renderer.
package simulation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zeusync/sensorsim/internal/core/npc"
	"github.com/zeusync/sensorsim/internal/core/observability/log"
	"github.com/zeusync/sensorsim/internal/core/random"
	"github.com/zeusync/sensorsim/internal/core/world"
	"github.com/zeusync/sensorsim/pkg/concurrent"
	"github.com/zeusync/sensorsim/pkg/generic"
)

// DriftTolerance is the heading norm error above which a warning is logged.
const DriftTolerance = 1e-9

// Simulation owns the obstacle field and the agents. It is not safe for
// concurrent use; callers serialise Advance and Snapshot.
type Simulation struct {
	id       string
	field    *world.Field
	agents   []*npc.Agent
	ctrl     npc.Controller
	source   random.Source
	parallel bool
	workers  int
	tick     uint64
	log      log.Log

	steerPool *generic.SlicePool[npc.Steering]
}

// Option customises a Simulation at construction.
type Option func(*Simulation)

// WithSource replaces the random source derived from Config.Seed.
func WithSource(src random.Source) Option {
	return func(s *Simulation) { s.source = src }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l log.Log) Option {
	return func(s *Simulation) { s.log = l }
}

// New validates cfg, builds the obstacle field once and creates every agent
// with its own random stream.
func New(cfg *Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:       uuid.NewString(),
		ctrl:     npc.DefaultController(),
		parallel: cfg.Parallel,
		workers:  cfg.Workers,
		log:      log.NewNop(),

		steerPool: generic.NewSlicePool[npc.Steering](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.source == nil {
		s.source = random.NewSource(cfg.Seed)
	}
	s.log = s.log.Named("simulation").With(log.String("run", s.id))

	field, err := world.Build(cfg.WorldPolygons(), cfg.Boundary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	s.field = field

	s.agents = make([]*npc.Agent, 0, len(cfg.Agents))
	for _, ac := range cfg.Agents {
		agent, err := npc.NewAgent(ac.Spec(), s.source.Stream(ac.ID))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		s.agents = append(s.agents, agent)
	}

	s.log.Info("simulation initialised",
		log.Int("boundary", field.Boundary()),
		log.Int("obstacles", len(cfg.Polygons)),
		log.Int("occupied_cells", field.Len()),
		log.String("fingerprint", fingerprint(field)),
		log.Int("agents", len(s.agents)),
		log.Uint64("seed", s.source.Seed()),
		log.Bool("parallel", s.parallel),
	)
	return s, nil
}

// ID identifies this run.
func (s *Simulation) ID() string { return s.id }

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() uint64 { return s.tick }

// Field returns the shared, read-only obstacle field.
func (s *Simulation) Field() *world.Field { return s.field }

// Len returns the number of agents.
func (s *Simulation) Len() int { return len(s.agents) }

// TickStats summarises one tick across all agents.
type TickStats struct {
	Tick      uint64
	Triggered int // sensor hits
	Wandered  int // agents that fell back to the random walk
	Contacts  int // agents standing on an occupied cell
	MaxDrift  float64
}

// Advance ticks every agent once, in order.
func (s *Simulation) Advance() TickStats {
	steering := s.steerPool.Get(len(s.agents))
	defer s.steerPool.Put(steering)
	for i, a := range s.agents {
		steering[i] = a.Tick(s.field, s.ctrl)
	}
	return s.finishTick(steering)
}

// AdvanceContext is Advance honouring cancellation. With Config.Parallel
// the agents tick concurrently; each agent touches only its own state and
// random stream, so the outcome matches Advance. Cancellation is checked
// before the tick starts; a started tick always completes.
func (s *Simulation) AdvanceContext(ctx context.Context) (TickStats, error) {
	if err := ctx.Err(); err != nil {
		return TickStats{Tick: s.tick}, err
	}
	if !s.parallel {
		return s.Advance(), nil
	}

	steering := s.steerPool.Get(len(s.agents))
	defer s.steerPool.Put(steering)
	// a half-moved swarm is never observable, so the tick ignores cancellation
	err := concurrent.ForEach(context.WithoutCancel(ctx), s.agents, s.workers, func(_ context.Context, i int, a *npc.Agent) error {
		steering[i] = a.Tick(s.field, s.ctrl)
		return nil
	})
	if err != nil {
		return TickStats{Tick: s.tick}, err
	}
	return s.finishTick(steering), nil
}

func (s *Simulation) finishTick(steering []npc.Steering) TickStats {
	s.tick++
	stats := TickStats{Tick: s.tick}
	for i, st := range steering {
		a := s.agents[i]
		stats.Triggered += st.Triggered
		if st.Wandered {
			stats.Wandered++
		}
		if drift := a.HeadingDrift(); drift > stats.MaxDrift {
			stats.MaxDrift = drift
		}
		if s.field.Contains(a.Position().Cell()) {
			stats.Contacts++
			s.logContact(a)
		}
	}

	if stats.MaxDrift > DriftTolerance {
		s.log.Warn("heading norm drift above tolerance",
			log.Uint64("tick", s.tick),
			log.Float64("drift", stats.MaxDrift),
		)
	}
	if s.log.Enabled(log.LevelDebug) {
		s.log.Debug("tick",
			log.Uint64("tick", stats.Tick),
			log.Int("triggered", stats.Triggered),
			log.Int("wandered", stats.Wandered),
			log.Int("contacts", stats.Contacts),
		)
	}
	return stats
}

func (s *Simulation) logContact(a *npc.Agent) {
	if !s.log.Enabled(log.LevelDebug) {
		return
	}
	cell := a.Position().Cell()
	owner, _ := s.field.Owner(cell)
	what := "boundary"
	if owner != world.BoundaryOwner {
		what = fmt.Sprintf("polygon %d", owner)
	}
	s.log.Debug("agent on obstacle cell",
		log.String("agent", a.ID()),
		log.Stringer("cell", cell),
		log.String("obstacle", what),
	)
}

func fingerprint(f *world.Field) string {
	return fmt.Sprintf("%016x", f.Fingerprint())
}
