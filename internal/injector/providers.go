package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/sensorsim/internal/core/events/bus"
	"github.com/zeusync/sensorsim/internal/core/observability/log"
	"github.com/zeusync/sensorsim/internal/core/simulation"
	"github.com/zeusync/sensorsim/internal/server"
)

// ServerSet builds a ready to start server from a loaded configuration.
var ServerSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	ProvideSimulation,
	server.ConfigFrom,
	server.NewServer,
)

// ProvideLogger builds the process logger at the configured level.
func ProvideLogger(cfg *simulation.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

func ProvideSimulation(cfg *simulation.Config, logger log.Log) (*simulation.Simulation, error) {
	return simulation.New(cfg, simulation.WithLogger(logger))
}
