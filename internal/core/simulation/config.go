package simulation

import (
	"fmt"
	"time"

	"github.com/zeusync/sensorsim/internal/core/npc"
	phys "github.com/zeusync/sensorsim/internal/core/systems/physics"
	"github.com/zeusync/sensorsim/internal/core/world"
	"gopkg.in/yaml.v3"
)

// Config is everything read once at setup.
type Config struct {
	Seed     uint64 `json:"seed" yaml:"seed" toml:"seed"`
	Boundary int    `json:"boundary" yaml:"boundary" toml:"boundary"`

	// Parallel ticks agents concurrently, bounded by Workers (0 = one
	// goroutine per agent). Results are identical to sequential runs.
	Parallel bool `json:"parallel,omitempty" yaml:"parallel,omitempty" toml:"parallel"`
	Workers  int  `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers"`

	TickInterval Duration `json:"tick_interval,omitempty" yaml:"tick_interval,omitempty" toml:"tick_interval"`
	LogLevel     string   `json:"log_level,omitempty" yaml:"log_level,omitempty" toml:"log_level"`
	Listen       string   `json:"listen,omitempty" yaml:"listen,omitempty" toml:"listen"`

	// MaxTicks stops a served run after that many ticks; 0 runs until stopped.
	MaxTicks uint64 `json:"max_ticks,omitempty" yaml:"max_ticks,omitempty" toml:"max_ticks"`

	// Polygons are closed vertex lists on integer coordinates.
	Polygons [][][2]int     `json:"polygons" yaml:"polygons" toml:"polygons"`
	Agents   []*AgentConfig `json:"agents" yaml:"agents" toml:"agents"`
}

// AgentConfig holds the initial parameters of one agent.
type AgentConfig struct {
	ID            string         `json:"id" yaml:"id" toml:"id"`
	Start         [2]float64     `json:"start" yaml:"start" toml:"start"`
	Speed         float64        `json:"speed" yaml:"speed" toml:"speed"`
	SensorLengths []float64      `json:"sensor_lengths" yaml:"sensor_lengths" toml:"sensor_lengths"`
	Display       map[string]any `json:"display,omitempty" yaml:"display,omitempty" toml:"display"`
}

const (
	DefaultBoundary     = 100
	DefaultTickInterval = 100 * time.Millisecond
	DefaultListen       = ":8080"
	DefaultSensorLength = 10
)

// DefaultConfig is a single agent in the middle of a 100x100 field with one
// square obstacle up and to its right.
func DefaultConfig() *Config {
	return &Config{
		Seed:         1,
		Boundary:     DefaultBoundary,
		TickInterval: Duration(DefaultTickInterval),
		LogLevel:     "info",
		Listen:       DefaultListen,
		Polygons: [][][2]int{
			{{60, 60}, {60, 70}, {70, 70}, {70, 60}},
		},
		Agents: []*AgentConfig{
			{
				ID:            "robot-1",
				Start:         [2]float64{DefaultBoundary / 2, DefaultBoundary / 2},
				Speed:         1,
				SensorLengths: []float64{DefaultSensorLength},
				Display:       map[string]any{"color": "b", "marker": "."},
			},
		},
	}
}

// applyDefaults fills zero scalars. Lists are left alone: a file without
// polygons has no obstacles.
func (c *Config) applyDefaults() {
	if c.Boundary == 0 {
		c.Boundary = DefaultBoundary
	}
	if c.TickInterval == 0 {
		c.TickInterval = Duration(DefaultTickInterval)
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	for i, a := range c.Agents {
		if a == nil {
			continue
		}
		if a.ID == "" {
			a.ID = fmt.Sprintf("agent-%d", i+1)
		}
		if len(a.SensorLengths) == 0 {
			a.SensorLengths = []float64{DefaultSensorLength}
		}
	}
}

// Validate checks the configuration and reports the first problem found.
func (c *Config) Validate() error {
	if c.Boundary <= 0 {
		return fmt.Errorf("%w: boundary: %w", ErrInvalidConfig, world.ErrInvalidBoundary)
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidInterval)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	for i, p := range c.Polygons {
		if len(p) < 3 {
			return fmt.Errorf("%w: polygons[%d]: %w", ErrInvalidConfig, i, ErrTooFewVertices)
		}
	}

	seen := make(map[string]int, len(c.Agents))
	for i, a := range c.Agents {
		if a == nil {
			return fmt.Errorf("%w: agents[%d] is empty", ErrInvalidConfig, i)
		}
		if j, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: agents[%d]: %w %q (also agents[%d])", ErrInvalidConfig, i, ErrDuplicateAgent, a.ID, j)
		}
		seen[a.ID] = i
		if err := a.Spec().Validate(); err != nil {
			return fmt.Errorf("%w: agents[%d]: %w", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

// Spec converts the agent configuration into an npc.AgentSpec.
func (a *AgentConfig) Spec() npc.AgentSpec {
	return npc.AgentSpec{
		ID:            a.ID,
		Start:         phys.V(a.Start[0], a.Start[1]),
		Speed:         a.Speed,
		SensorLengths: a.SensorLengths,
		Display:       a.Display,
	}
}

// WorldPolygons converts the configured integer polygons.
func (c *Config) WorldPolygons() []world.Polygon {
	out := make([]world.Polygon, len(c.Polygons))
	for i, p := range c.Polygons {
		poly := make(world.Polygon, len(p))
		for j, v := range p {
			poly[j] = phys.V(float64(v[0]), float64(v[1]))
		}
		out[i] = poly
	}
	return out
}

// Duration is a time.Duration written as a Go duration string ("100ms")
// in every configuration format.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}
