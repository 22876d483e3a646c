// internal/httpserver/ws.go
//
// GET /game/{id}/events streams a session to a remote display.
// The first message is {"type":"snapshot","view":{...}}; after that every
// session event (deactivated, rebuilt, ended) is forwarded as-is. The server
// closes the socket after the ended event.

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rhysstever/CardMatchGame/internal/game"
)

const (
	eventBuffer  = 64
	writeTimeout = 5 * time.Second
)

type snapshotMsg struct {
	Type string    `json:"type"`
	View game.View `json:"view"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.originPatterns()})
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("websocket accept")
		return
	}
	defer c.CloseNow()

	// Events are produced under the session lock, so the observer must never
	// block: a display that falls this far behind is disconnected.
	ch := make(chan game.Event, eventBuffer)
	overflow := make(chan struct{})
	var overflowed bool
	cancel := g.Observe(func(ev game.Event) {
		if overflowed {
			return
		}
		select {
		case ch <- ev:
		default:
			overflowed = true
			close(overflow)
		}
	})
	defer cancel()

	// Clients never send; CloseRead handles control frames and cancels ctx
	// when the peer goes away.
	ctx := c.CloseRead(r.Context())

	view := g.Snapshot()
	if err := write(ctx, c, snapshotMsg{Type: "snapshot", View: view}); err != nil {
		return
	}
	if view.Finished {
		c.Close(websocket.StatusNormalClosure, "game ended")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-overflow:
			log.Warn().Str("gameId", g.ID).Msg("websocket client too slow")
			c.Close(websocket.StatusPolicyViolation, "too slow")
			return
		case ev := <-ch:
			if err := write(ctx, c, ev); err != nil {
				log.Debug().Err(err).Str("gameId", g.ID).Msg("websocket write")
				return
			}
			if ev.Type == game.EventEnded {
				c.Close(websocket.StatusNormalClosure, "game ended")
				return
			}
		}
	}
}

func write(ctx context.Context, c *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, v)
}
