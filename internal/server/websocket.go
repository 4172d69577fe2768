package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeusync/sensorsim/internal/core/events/bus"
	"github.com/zeusync/sensorsim/internal/core/observability/log"
	"github.com/zeusync/sensorsim/internal/core/simulation"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// renderers are served from anywhere, snapshots are public
	CheckOrigin: func(*http.Request) bool { return true },
}

// Frame is one websocket message.
type Frame struct {
	Type string              `json:"type"`
	Data simulation.Snapshot `json:"data"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	defer conn.Close()

	stop := s.stopSignal()
	logger := s.logger.With(log.String("remote", conn.RemoteAddr().String()))
	frames := make(chan simulation.Snapshot, s.config.ClientBuffer)

	sub, err := s.bus.Subscribe(EventTick, func(e bus.Event) error {
		snap, ok := e.Data().(simulation.Snapshot)
		if !ok {
			return nil
		}
		select {
		case frames <- snap:
		default:
			// slow renderer: drop the oldest frame, keep the newest
			select {
			case <-frames:
			default:
			}
			select {
			case frames <- snap:
			default:
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("subscribe failed", log.Error(err))
		return
	}
	defer func() { _ = s.bus.Unsubscribe(sub) }()
	logger.Info("renderer connected")

	// reads are only used to notice the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err = s.writeFrame(conn, "snapshot", s.snapshot()); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			logger.Info("renderer disconnected")
			return
		case <-stop:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"),
				time.Now().Add(writeWait))
			return
		case snap := <-frames:
			if err = s.writeFrame(conn, "tick", snap); err != nil {
				logger.Info("renderer write failed", log.Error(err))
				return
			}
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, typ string, snap simulation.Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(Frame{Type: typ, Data: snap})
}
