package devtools

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// session is one websocket client. Messages go through a buffered channel
// so the loop goroutine never blocks on the network.
type session struct {
	id     string
	conn   *websocket.Conn
	out    chan Message
	logger *slog.Logger

	mu      sync.Mutex
	closed  bool
	dropped int
}

func newSession(id string, conn *websocket.Conn, buffer int, logger *slog.Logger) *session {
	return &session{
		id:     id,
		conn:   conn,
		out:    make(chan Message, buffer),
		logger: logger.With("session", id),
	}
}

// send queues msg, dropping it when the client is too slow.
func (s *session) send(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.out <- msg:
	default:
		s.dropped++
		if s.dropped == 1 || s.dropped%100 == 0 {
			s.logger.Warn("dropping messages for slow client", "dropped", s.dropped)
		}
	}
}

func (s *session) writePump() {
	for msg := range s.out {
		if err := s.conn.WriteJSON(msg); err != nil {
			s.logger.Debug("write failed", "error", err)
			s.conn.Close()
			// Drain so senders never see a full channel forever.
			for range s.out {
			}
			return
		}
	}
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.conn.Close()
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}
