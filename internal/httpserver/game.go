// internal/httpserver/game.go
//
// Game endpoints. Every live game is a *game.Session in the store; the games
// table mirrors its counters for history and stats, keyed to the signed-in
// user or to the guest cookie.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rhysstever/CardMatchGame/internal/game"
	"github.com/rhysstever/CardMatchGame/internal/match"
)

// newGameReq is the payload for POST /game/new. Zero fields take the
// configured defaults.
type newGameReq struct {
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
	CardCount int    `json:"cardCount"` // rows = ceil(cardCount / columns)
	Fill      string `json:"fill"`      // "random" | "sequential" | "paired"
	Offset    int    `json:"offset"`
	Seed      uint64 `json:"seed"`
}

type newGameRes struct {
	GameID string    `json:"gameId"`
	View   game.View `json:"view"`
}

// gameReq identifies a session for the action endpoints.
type gameReq struct {
	GameID string `json:"gameId"`
}

// selectReq is the payload for POST /game/select. A null or missing slot is a
// click on empty space.
type selectReq struct {
	GameID string `json:"gameId"`
	Slot   *int   `json:"slot"`
}

type selectRes struct {
	Result match.Result `json:"result"`
	View   game.View    `json:"view"`
}

type doubleRes struct {
	Added int       `json:"added"`
	View  game.View `json:"view"`
}

// options merges a request over the configured defaults.
func (s *Server) options(req newGameReq) (game.Options, error) {
	opts := s.defaults
	if req.Columns != 0 {
		opts.Columns = req.Columns
	}
	if req.Rows != 0 {
		opts.Rows = req.Rows
	}
	if req.CardCount > maxCells {
		return opts, errBoardTooLarge
	}
	if req.CardCount > 0 && opts.Columns > 0 {
		opts.Rows = (req.CardCount + opts.Columns - 1) / opts.Columns
	}
	if req.Fill != "" {
		opts.Fill = game.Fill(req.Fill)
	}
	if req.Offset != 0 {
		opts.Offset = req.Offset
	}
	opts.Seed = req.Seed
	if opts.Rows > 0 && opts.Columns > 0 && opts.Rows > maxCells/opts.Columns {
		return opts, errBoardTooLarge
	}
	return opts, nil
}

// handleNewGame deals a new board, stores the session and persists an
// "owner" row (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	opts, err := s.options(req)
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := game.New(opts)
	if err != nil {
		writeError(w, err)
		return
	}
	g.Observe(s.pub.Event)
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	sum := g.Summary()
	now := sum.StartedAt.Format(time.RFC3339)
	if me := currentUser(r); me != nil {
		_, err = s.db.Exec(`INSERT INTO games (id, user_id, fill, cards, status, started_at)
		                    VALUES (?,?,?,?,?,?)`, g.ID, me.ID, string(sum.Fill), sum.Cards, "playing", now)
	} else {
		anon := s.ensureAnonID(w, r)
		_, err = s.db.Exec(`INSERT INTO games (id, anonymous_id, fill, cards, status, started_at)
		                    VALUES (?,?,?,?,?,?)`, g.ID, anon, string(sum.Fill), sum.Cards, "playing", now)
	}
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID, View: g.Snapshot()})
}

// handleGetGame returns the current view of a session.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

// session loads the session named by the request body into dst and rejects
// daily games, which are played through /daily.
func (s *Server) session(r *http.Request, dst any, id func() string) (*game.Session, error) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return nil, errBadJSON
	}
	g, err := s.store.Get(r.Context(), id())
	if err != nil {
		return nil, err
	}
	if s.daily.owns(g.ID) {
		return nil, errDailyGame
	}
	return g, nil
}

// handleSelect applies one selection, persists the counters and, when the
// selection ended the game, records the result.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	g, err := s.session(r, &req, func() string { return req.GameID })
	if err != nil {
		writeError(w, err)
		return
	}
	slot := match.NoCard
	if req.Slot != nil {
		slot = *req.Slot
	}
	res, err := g.Select(slot)
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Ended {
		s.finish(w, r, g)
	} else if res.Outcome != match.OutcomeReset {
		s.saveProgress(w, r, g)
	}
	_ = json.NewEncoder(w).Encode(selectRes{Result: res, View: g.Snapshot()})
}

// handleDouble appends a copy of every active card.
func (s *Server) handleDouble(w http.ResponseWriter, r *http.Request) {
	var req gameReq
	g, err := s.session(r, &req, func() string { return req.GameID })
	if err != nil {
		writeError(w, err)
		return
	}
	added, err := g.Double()
	if err != nil {
		writeError(w, err)
		return
	}
	s.saveProgress(w, r, g)
	_ = json.NewEncoder(w).Encode(doubleRes{Added: added, View: g.Snapshot()})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, (*game.Session).Pause)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, (*game.Session).Resume)
}

// handleAbort ends the game as lost.
func (s *Server) handleAbort(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, func(g *game.Session) error {
		if err := g.Abort(); err != nil {
			return err
		}
		s.finish(w, r, g)
		return nil
	})
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request, fn func(*game.Session) error) {
	var req gameReq
	g, err := s.session(r, &req, func() string { return req.GameID })
	if err != nil {
		writeError(w, err)
		return
	}
	if err := fn(g); err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

// ownerClause narrows a games-row update to the caller's own row.
func (s *Server) ownerClause(w http.ResponseWriter, r *http.Request) (string, any, *authUser) {
	if me := currentUser(r); me != nil {
		return `user_id=?`, me.ID, me
	}
	return `anonymous_id=?`, s.ensureAnonID(w, r), nil
}

// saveProgress mirrors the session counters into its games row (best effort).
func (s *Server) saveProgress(w http.ResponseWriter, r *http.Request, g *game.Session) {
	clause, arg, _ := s.ownerClause(w, r)
	sum := g.Summary()
	if _, err := s.db.Exec(`UPDATE games SET cards=?, selections=?, matches=?, mismatches=?
	                        WHERE id=? AND `+clause,
		sum.Cards, sum.Selections, sum.Matches, sum.Mismatches, g.ID, arg); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("update game progress")
	}
}

// finish records an ended game: final counters and status on the games row,
// user stats when signed in, and a finished event. Failures are logged, not
// returned; the in-memory session is authoritative.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, g *game.Session) {
	sum := g.Summary()
	s.pub.Finished(sum)

	status := "lost"
	if sum.Won {
		status = "won"
	}
	clause, arg, me := s.ownerClause(w, r)

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET status=?, cards=?, selections=?, matches=?, mismatches=?, finished_at=?
	                      WHERE id=? AND `+clause,
		status, sum.Cards, sum.Selections, sum.Matches, sum.Mismatches,
		sum.FinishedAt.Format(time.RFC3339), g.ID, arg); err != nil {
		log.Warn().Err(err).Msg("finish game")
	}
	if me != nil {
		if err := recordStats(tx, me.ID, sum); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("record stats")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit finish tx")
	}
}
