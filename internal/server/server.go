package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/zeusync/sensorsim/internal/core/events/bus"
	"github.com/zeusync/sensorsim/internal/core/observability/log"
	"github.com/zeusync/sensorsim/internal/core/simulation"
)

// EventTick is published on the bus after every tick with the new
// simulation.Snapshot as data.
const EventTick = "simulation.tick"

// Server ticks a simulation on a fixed interval and serves its snapshots to
// renderers over HTTP and websocket. The simulation itself never talks to
// the network; it only hands out snapshots.
type Server struct {
	sim *simulation.Simulation
	// guards sim; Advance and Snapshot are not concurrency safe
	simMu sync.Mutex

	bus    bus.EventBus
	config Config
	logger log.Log

	// guards the per-run fields below; a stopped server can be started again
	runMu      sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	stopChan   chan struct{}

	lifeMu  sync.Mutex // serialises Start and Stop
	running int32      // atomic bool
	workers sync.WaitGroup
}

// Config holds server configuration
type Config struct {
	ListenAddr   string
	TickInterval time.Duration

	// MaxTicks stops the tick loop after that many ticks; 0 runs forever.
	MaxTicks uint64

	// ClientBuffer is the number of snapshots queued per websocket client
	// before older ones are dropped.
	ClientBuffer int
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:   simulation.DefaultListen,
		TickInterval: simulation.DefaultTickInterval,
		ClientBuffer: 8,
	}
}

// ConfigFrom derives the server configuration from a simulation config.
func ConfigFrom(c *simulation.Config) Config {
	cfg := DefaultServerConfig()
	if c.Listen != "" {
		cfg.ListenAddr = c.Listen
	}
	if c.TickInterval > 0 {
		cfg.TickInterval = c.TickInterval.Std()
	}
	cfg.MaxTicks = c.MaxTicks
	return cfg
}

// NewServer wires a server around an initialised simulation.
func NewServer(sim *simulation.Simulation, events bus.EventBus, config Config, logger log.Log) *Server {
	if config.ClientBuffer <= 0 {
		config.ClientBuffer = DefaultServerConfig().ClientBuffer
	}
	return &Server{
		sim:    sim,
		bus:    events,
		config: config,
		logger: logger.Named("server"),
	}
}

// Handler returns the HTTP routes:
//
//	GET /healthz   liveness
//	GET /snapshot  current snapshot as JSON
//	GET /agents/{id}  one agent of the current snapshot
//	GET /ws        websocket stream of snapshots, one per tick
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	router.HandleFunc("/agents/{id}", s.handleAgent).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	return router
}

// Start begins listening and ticking. It returns once the listener is bound.
func (s *Server) Start(ctx context.Context) error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}
	if s.config.TickInterval <= 0 {
		atomic.StoreInt32(&s.running, 0)
		return ErrInvalidConfig
	}

	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		return err
	}
	httpServer := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	stop := make(chan struct{})

	s.runMu.Lock()
	s.listener = ln
	s.httpServer = httpServer
	s.stopChan = stop
	s.runMu.Unlock()

	s.workers.Add(2)
	go func() {
		defer s.workers.Done()
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", log.Error(err))
		}
	}()
	go func() {
		defer s.workers.Done()
		s.tickLoop(ctx, stop)
	}()

	s.logger.Info("server started",
		log.String("addr", ln.Addr().String()),
		log.Duration("tick_interval", s.config.TickInterval),
	)
	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop halts the tick loop between ticks and shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	s.runMu.Lock()
	stop, httpServer := s.stopChan, s.httpServer
	s.runMu.Unlock()

	close(stop)
	err := httpServer.Shutdown(ctx)
	s.workers.Wait()
	s.logger.Info("server stopped", log.Uint64("ticks", s.Ticks()))
	return err
}

// Ticks returns the number of completed simulation ticks.
func (s *Server) Ticks() uint64 {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	return s.sim.Ticks()
}

// Step advances the simulation one tick and publishes the snapshot.
func (s *Server) Step(ctx context.Context) (simulation.Snapshot, error) {
	s.simMu.Lock()
	_, err := s.sim.AdvanceContext(ctx)
	snap := s.sim.Snapshot()
	s.simMu.Unlock()
	if err != nil {
		return snap, err
	}

	if err = s.bus.Publish(bus.NewEvent(EventTick, s.sim.ID(), snap)); err != nil {
		s.logger.Warn("tick delivery failed", log.Uint64("tick", snap.Tick), log.Error(err))
	}
	return snap, nil
}

func (s *Server) snapshot() simulation.Snapshot {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	return s.sim.Snapshot()
}

// stopSignal is closed when the current run stops. Before the first Start it
// is nil and never fires.
func (s *Server) stopSignal() <-chan struct{} {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.stopChan
}

func (s *Server) tickLoop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			snap, err := s.Step(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					s.logger.Error("tick failed", log.Error(err))
				}
				return
			}
			if s.config.MaxTicks > 0 && snap.Tick >= s.config.MaxTicks {
				s.logger.Info("tick limit reached", log.Uint64("ticks", snap.Tick))
				return
			}
		}
	}
}
