// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/select      → select a card on today's daily board
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each user can finish once per day (enforced by DB + in-memory session).
// Every player gets the same paired board for a date: the seed is derived
// from date + salt. Sessions live in the main store (so /game/{id} and the
// websocket work) but only accept selections through /daily/select.
// Sessions from earlier dates are swept on the first /daily/new of a new day,
// and a session pruned from the store is dealt again on the next /daily/new.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rhysstever/CardMatchGame/internal/daily"
	"github.com/rhysstever/CardMatchGame/internal/game"
	"github.com/rhysstever/CardMatchGame/internal/match"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	games    map[string]struct{}      // IDs of every daily session
	date     string                   // date the maps were last swept for
	mu       sync.Mutex               // guards sessions, games and date
}

// dailySession pairs a game session with the player and date it was dealt for.
type dailySession struct {
	UserID  string
	Date    string
	Seed    uint64
	Session *game.Session
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.Daily.Salt,
		sessions: make(map[string]*dailySession),
		games:    make(map[string]struct{}),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/select", dd.handleSelect)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// owns reports whether id is a daily session.
func (d *dailyServer) owns(id string) bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.games[id]
	return ok
}

// sweep drops every session dealt for a date other than today. It runs once
// per date change. Callers hold d.mu.
func (d *dailyServer) sweep(ctx context.Context, today string) {
	if d.date == today {
		return
	}
	for key, sess := range d.sessions {
		if sess.Date != today {
			d.drop(ctx, key, sess)
		}
	}
	d.date = today
}

// drop forgets a daily session and removes it from the session store.
// Callers hold d.mu.
func (d *dailyServer) drop(ctx context.Context, key string, sess *dailySession) {
	delete(d.sessions, key)
	delete(d.games, sess.Session.ID)
	if err := d.srv.store.Delete(ctx, sess.Session.ID); err != nil {
		log.Warn().Err(err).Str("gameId", sess.Session.ID).Msg("delete daily game")
	}
}

// live returns the caller's session for key if it is still in the session
// store; sessions pruned from the store are dropped here. Callers hold d.mu.
func (d *dailyServer) live(ctx context.Context, key string) (*dailySession, bool) {
	sess, ok := d.sessions[key]
	if !ok {
		return nil, false
	}
	if _, err := d.srv.store.Get(ctx, sess.Session.ID); err != nil {
		d.drop(ctx, key, sess)
		return nil, false
	}
	return sess, true
}

// today returns today's date key and board seed.
func (d *dailyServer) today() (date string, seed uint64) {
	now := time.Now().UTC()
	return daily.DateKey(now), daily.Seed(now, d.salt)
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new.
type newRes struct {
	GameID string     `json:"gameId"`
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	View   *game.View `json:"view,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
//   - If user already has a DB row for today → return Played=true.
//   - Otherwise create/reuse an in-memory session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	date, seed := d.today()

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("daily already played")
	} else if played {
		_ = json.NewEncoder(w).Encode(newRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweep(r.Context(), date)
	if sess, ok := d.live(r.Context(), key); ok {
		view := sess.Session.Snapshot()
		_ = json.NewEncoder(w).Encode(newRes{GameID: sess.Session.ID, Date: date, View: &view})
		return
	}

	opts := d.srv.defaults
	opts.Rows, opts.Columns = d.srv.cfg.Daily.Rows, d.srv.cfg.Daily.Columns
	opts.Fill, opts.Seed = game.FillPaired, seed
	g, err := game.New(opts)
	if err != nil {
		writeError(w, err)
		return
	}
	g.Observe(d.srv.pub.Event)
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save daily game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	d.sessions[key] = &dailySession{UserID: uid, Date: date, Seed: seed, Session: g}
	d.games[g.ID] = struct{}{}

	view := g.Snapshot()
	_ = json.NewEncoder(w).Encode(newRes{GameID: g.ID, Date: date, View: &view})
}

// -----------------------------------------------------------------------------
// /daily/select

// dailySelectRes is the response payload for /daily/select.
type dailySelectRes struct {
	Result     match.Result `json:"result"`
	State      string       `json:"state"` // in_progress | won | locked
	Selections int          `json:"selections"`
	View       game.View    `json:"view"`
}

// handleSelect applies a selection to today's daily session and persists
// the result on win.
func (d *dailyServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p selectReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.GameID == "" {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	date, _ := d.today()
	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.live(r.Context(), key)
	d.mu.Unlock()
	if !ok || sess.Session.ID != p.GameID {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}
	g := sess.Session

	slot := match.NoCard
	if p.Slot != nil {
		slot = *p.Slot
	}
	res, err := g.Select(slot)
	sum := g.Summary()
	if err != nil {
		// already finished: the board is locked for today
		_ = json.NewEncoder(w).Encode(dailySelectRes{Result: res, State: "locked", Selections: sum.Selections, View: g.Snapshot()})
		return
	}

	state := "in_progress"
	if res.Ended && res.Won {
		state = "won"
		d.srv.pub.Finished(sum)
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:     uid,
			Date:       sess.Date,
			Seed:       sess.Seed,
			Selections: sum.Selections,
			ElapsedMs:  sum.Elapsed.Milliseconds(),
		}); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	_ = json.NewEncoder(w).Encode(dailySelectRes{Result: res, State: state, Selections: sum.Selections, View: g.Snapshot()})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
