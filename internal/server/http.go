package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/zeusync/sensorsim/internal/core/observability/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"ticks":  s.Ticks(),
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.snapshot()); err != nil {
		s.logger.Warn("snapshot write failed", log.Error(err))
	}
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	agent, ok := s.snapshot().Agent(id)
	if !ok {
		http.Error(w, "unknown agent "+id, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(agent); err != nil {
		s.logger.Warn("agent write failed", log.String("agent", id), log.Error(err))
	}
}
