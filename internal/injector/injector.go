//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/sensorsim/internal/core/observability/log"
	"github.com/zeusync/sensorsim/internal/core/simulation"
	"github.com/zeusync/sensorsim/internal/server"
)

func InitializeServer(cfg *simulation.Config) (*server.Server, error) {
	wire.Build(ServerSet)
	return nil, nil
}

func InitializeLogger(cfg *simulation.Config) (*log.Logger, error) {
	wire.Build(ProvideLogger)
	return nil, nil
}
