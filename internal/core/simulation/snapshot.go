package simulation

import (
	phys "github.com/zeusync/sensorsim/internal/core/systems/physics"
)

// Snapshot is the complete read-only view handed to a renderer. It shares no
// memory with the simulation.
type Snapshot struct {
	RunID       string          `json:"run_id"`
	Tick        uint64          `json:"tick"`
	Boundary    int             `json:"boundary"`
	Fingerprint string          `json:"fingerprint"`
	Polygons    [][]phys.Vec2   `json:"polygons"`
	Agents      []AgentSnapshot `json:"agents"`
}

// AgentSnapshot is one agent's position, heading and sensor ray ends.
type AgentSnapshot struct {
	ID       string           `json:"id"`
	Position phys.Vec2        `json:"position"`
	Heading  phys.Vec2        `json:"heading"`
	Sensors  []SensorSnapshot `json:"sensors"`
	Display  map[string]any   `json:"display,omitempty"`
}

// SensorSnapshot is where a sensor ray stopped on the last tick.
type SensorSnapshot struct {
	Name string    `json:"name"`
	End  phys.Vec2 `json:"end"`
}

// Snapshot copies the current state.
func (s *Simulation) Snapshot() Snapshot {
	polys := s.field.Polygons()
	snap := Snapshot{
		RunID:       s.id,
		Tick:        s.tick,
		Boundary:    s.field.Boundary(),
		Fingerprint: fingerprint(s.field),
		Polygons:    make([][]phys.Vec2, len(polys)),
		Agents:      make([]AgentSnapshot, len(s.agents)),
	}
	for i, p := range polys {
		snap.Polygons[i] = p
	}

	for i, a := range s.agents {
		sensors := a.Sensors()
		as := AgentSnapshot{
			ID:       a.ID(),
			Position: a.Position(),
			Heading:  a.Heading(),
			Sensors:  make([]SensorSnapshot, len(sensors)),
			Display:  a.Display(),
		}
		for j, sn := range sensors {
			as.Sensors[j] = SensorSnapshot{Name: sn.Name, End: sn.End}
		}
		snap.Agents[i] = as
	}
	return snap
}

// Agent returns the snapshot of one agent.
func (s Snapshot) Agent(id string) (AgentSnapshot, bool) {
	for _, a := range s.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentSnapshot{}, false
}
