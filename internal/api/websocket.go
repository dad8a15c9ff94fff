package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"sales-analytics/internal/dataset"
	"sales-analytics/internal/filter"
)

// Feed message types.
const (
	MessageKPIs  = "kpis"
	MessageError = "error"
)

// FeedMessage is one frame pushed on /ws/kpis.
type FeedMessage struct {
	Type       string       `json:"type"`
	SnapshotID string       `json:"snapshotId,omitempty"`
	LoadedAt   *time.Time   `json:"loadedAt,omitempty"`
	Filter     string       `json:"filter,omitempty"`
	KPIs       *KPIResponse `json:"kpis,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// handleKPIFeed upgrades to a websocket and pushes KPIs for the requested
// filter once on connect and again after every successful dataset load.
func (s *Server) handleKPIFeed(w http.ResponseWriter, r *http.Request) {
	criteria, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.logger.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	s.metrics.WSClients.Inc()
	defer s.metrics.WSClients.Dec()

	updates, unsubscribe := s.cache.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.readLoop(conn, cancel)

	var lastID string
	if snap, err := s.cache.LoadSnapshot(ctx, false); err != nil {
		if !s.send(conn, FeedMessage{Type: MessageError, Error: err.Error()}) {
			return
		}
	} else {
		if !s.send(conn, kpiMessage(snap, criteria)) {
			return
		}
		lastID = snap.ID
	}

	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			snap, ok := s.cache.Snapshot()
			if !ok || snap.ID == lastID {
				continue
			}
			if !s.send(conn, kpiMessage(snap, criteria)) {
				return
			}
			lastID = snap.ID
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so control messages are processed and
// cancels the feed once the peer goes away.
func (s *Server) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	pongWait := s.pingInterval + writeWait
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, msg FeedMessage) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Printf("websocket write: %v", err)
		return false
	}
	s.metrics.WSMessagesSent.Inc()
	return true
}

func kpiMessage(snap dataset.Snapshot, criteria filter.Criteria) FeedMessage {
	k := computeKPIResponse(filter.Apply(snap.Records, criteria))
	loadedAt := snap.LoadedAt
	return FeedMessage{
		Type:       MessageKPIs,
		SnapshotID: snap.ID,
		LoadedAt:   &loadedAt,
		Filter:     criteria.Describe(),
		KPIs:       &k,
	}
}
