// internal/httpserver/ws.go
//
// WebSocket stream for a memory session: GET /memory/{id}/ws.
//
// Server → client messages:
//   {"type":"snapshot","board":{...}}   on connect and after every (re)start
//   {"type":"event","event":{...}}      for each flip, match, mismatch and win
// Client → server messages:
//   {"type":"flip","index":n}
//   {"type":"reset"}
//
// Outgoing messages go through a buffered channel drained by one writer goroutine;
// a slow client drops messages rather than stalling the engine. Every inbound message
// keeps the session alive in the store; when the session is deleted or evicted the
// socket is closed with 1001 (going away).

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/arcade/internal/game"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 120 * time.Second
	wsPingPeriod = 30 * time.Second
	wsSendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == clientOrigin()
	},
}

type wsOut struct {
	Type  string            `json:"type"`
	Board *memoryRes        `json:"board,omitempty"`
	Event *game.MemoryEvent `json:"event,omitempty"`
	Error string            `json:"error,omitempty"`
}

type wsIn struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

func (s *Server) handleMemoryWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup[*game.Memory](s, w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session", sess.id).Msg("ws upgrade")
		return
	}

	send := make(chan []byte, wsSendBuffer)
	done := make(chan struct{})
	gone := make(chan struct{})
	var goneOnce sync.Once
	push := func(out wsOut) {
		b, err := json.Marshal(out)
		if err != nil {
			return
		}
		select {
		case send <- b:
		case <-done:
		default:
		}
	}
	snapshot := func() wsOut {
		return wsOut{Type: "snapshot", Board: &memoryRes{ID: sess.id, MemorySnapshot: sess.engine.View()}}
	}

	cancel := sess.engine.Subscribe(func(ev game.MemoryEvent) {
		switch ev.Type {
		case game.EventClosed:
			goneOnce.Do(func() { close(gone) })
			return
		case game.EventStarted:
			push(snapshot())
			return
		}
		push(wsOut{Type: "event", Event: &ev})
	})
	defer func() {
		cancel()
		close(done)
		_ = conn.Close()
	}()

	push(snapshot())
	go wsWriteLoop(conn, send, done, gone)

	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("session", sess.id).Msg("ws read")
			}
			return
		}
		if err := s.store.Touch(r.Context(), sess.id); err != nil {
			return
		}
		var in wsIn
		if err := json.Unmarshal(data, &in); err != nil {
			push(wsOut{Type: "error", Error: "invalid_json"})
			continue
		}
		switch in.Type {
		case "flip":
			sess.engine.Flip(in.Index)
		case "reset":
			if sess.daily {
				push(wsOut{Type: "error", Error: "daily board cannot be reset"})
				continue
			}
			sess.engine.Reset()
		default:
			push(wsOut{Type: "error", Error: "unknown message type"})
		}
	}
}

// wsWriteLoop is the only writer on conn. It exits when done closes or a write fails.
// When gone closes (the session was torn down) it says goodbye and closes conn, which
// also ends the read loop.
func wsWriteLoop(conn *websocket.Conn, send <-chan []byte, done, gone <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-gone:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
			_ = conn.Close()
			return
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
