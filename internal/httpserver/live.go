// internal/httpserver/live.go
//
// Websocket feed of board snapshots:
//   - GET /game/{id}/live upgrades the connection and sends the current state.
//   - Every accepted move or reset on that board is pushed as a new state.
//
// Notes:
//   - publish is called while the store holds the board's write lock, so it
//     never blocks: a client whose send buffer is full is dropped.
//   - The feed is read-only; inbound frames other than control frames are ignored.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rubberband/internal/game"
	"github.com/robalobadob/rubberband/internal/store"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Buffered snapshots per client before it is considered slow.
	sendBuffer = 16
)

// liveMessage is the frame pushed to subscribers.
type liveMessage struct {
	Type  string        `json:"type"` // "state"
	State game.Snapshot `json:"state"`
}

type liveClient struct {
	conn *websocket.Conn
	send chan []byte
}

// liveHub keeps the subscribers of each board.
type liveHub struct {
	mu    sync.Mutex
	games map[string]map[*liveClient]struct{}
}

func newLiveHub() *liveHub {
	return &liveHub{games: make(map[string]map[*liveClient]struct{})}
}

func encodeState(snap game.Snapshot) ([]byte, error) {
	return json.Marshal(liveMessage{Type: "state", State: snap})
}

// register adds c to the board's subscribers and queues first as its initial frame.
func (h *liveHub) register(gameID string, c *liveClient, first []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.games[gameID]
	if !ok {
		subs = make(map[*liveClient]struct{})
		h.games[gameID] = subs
	}
	subs[c] = struct{}{}
	c.send <- first
}

// unregister removes c and closes its send channel if still registered.
func (h *liveHub) unregister(gameID string, c *liveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(gameID, c)
}

func (h *liveHub) removeLocked(gameID string, c *liveClient) {
	subs, ok := h.games[gameID]
	if !ok {
		return
	}
	if _, ok := subs[c]; !ok {
		return
	}
	delete(subs, c)
	close(c.send)
	if len(subs) == 0 {
		delete(h.games, gameID)
	}
}

// closeGame drops every subscriber of gameID; their write pumps send a close frame.
func (h *liveHub) closeGame(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.games[gameID] {
		h.removeLocked(gameID, c)
	}
}

// publish pushes snap to every subscriber of gameID without blocking.
func (h *liveHub) publish(gameID string, snap game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.games[gameID]
	if len(subs) == 0 {
		return
	}
	payload, err := encodeState(snap)
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("encode live state")
		return
	}
	for c := range subs {
		select {
		case c.send <- payload:
		default:
			log.Warn().Str("gameId", gameID).Msg("dropping slow live client")
			h.removeLocked(gameID, c)
		}
	}
}

// subscribers reports how many clients follow gameID.
func (h *liveHub) subscribers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.games[gameID])
}

// upgrader returns a websocket upgrader accepting the configured client origin.
func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.cfg.ClientOrigin
		},
	}
}

// handleLive upgrades to a websocket and streams the board's snapshots.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.View(r.Context(), id, func(*game.Engine) error { return nil }); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		hlog.FromRequest(r).Debug().Err(err).Msg("websocket upgrade")
		return
	}
	c := &liveClient{conn: conn, send: make(chan []byte, sendBuffer)}

	// Registering under the board's read lock orders the initial snapshot
	// before any state published by a later move.
	err = s.store.View(r.Context(), id, func(g *game.Engine) error {
		first, err := encodeState(g.Snapshot())
		if err != nil {
			return err
		}
		s.live.register(id, c, first)
		return nil
	})
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("gameId", id).Msg("live subscribe")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "unavailable"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	hlog.FromRequest(r).Debug().Str("gameId", id).Msg("live client connected")

	go c.writePump()
	c.readPump(s.live, id)
}

// readPump drains inbound frames so pongs and close frames are processed.
func (c *liveClient) readPump(h *liveHub, gameID string) {
	defer func() {
		h.unregister(gameID, c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("gameId", gameID).Msg("live client closed")
			}
			return
		}
	}
}

// writePump sends queued snapshots and keepalive pings, one frame each.
func (c *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
