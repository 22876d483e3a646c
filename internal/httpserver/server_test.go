package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhysstever/CardMatchGame/assets"
	"github.com/rhysstever/CardMatchGame/internal/config"
	"github.com/rhysstever/CardMatchGame/internal/db"
	"github.com/rhysstever/CardMatchGame/internal/game"
	"github.com/rhysstever/CardMatchGame/internal/match"
	"github.com/rhysstever/CardMatchGame/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn, assets.Migrations()))

	cfg, err := config.Load("")
	require.NoError(t, err)
	srv, err := New(store.NewMemoryStore(), conn, cfg, nil)
	require.NoError(t, err)
	return srv
}

// client is a cookie-keeping caller of the router.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, h: s.Router(), cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

// json performs a request, expects status and decodes the body into out.
func (c *client) json(method, path string, body any, status int, out any) {
	c.t.Helper()
	rec := c.do(method, path, body)
	require.Equal(c.t, status, rec.Code, rec.Body.String())
	if out != nil {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out))
	}
}

func (c *client) errorCode(method, path string, body any, status int) string {
	c.t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	c.json(method, path, body, status, &e)
	return e.Error
}

func (c *client) newGame(req map[string]any) newGameRes {
	c.t.Helper()
	var res newGameRes
	c.json(http.MethodPost, "/game/new", req, http.StatusOK, &res)
	require.NotEmpty(c.t, res.GameID)
	return res
}

func (c *client) pick(id string, slot int) selectRes {
	c.t.Helper()
	var res selectRes
	c.json(http.MethodPost, "/game/select", map[string]any{"gameId": id, "slot": slot}, http.StatusOK, &res)
	return res
}

// pairs groups the active cards of v into matching slot pairs.
func pairs(v game.View) [][2]int {
	byLabel := map[string][]int{}
	var order []string
	for _, c := range v.Cards {
		if !c.Active {
			continue
		}
		if _, ok := byLabel[c.Label]; !ok {
			order = append(order, c.Label)
		}
		byLabel[c.Label] = append(byLabel[c.Label], c.Slot)
	}
	var out [][2]int
	for _, l := range order {
		slots := byLabel[l]
		for i := 0; i+1 < len(slots); i += 2 {
			out = append(out, [2]int{slots[i], slots[i+1]})
		}
	}
	return out
}

// solve matches every pair on the board through /game/select.
func (c *client) solve(id string, v game.View) selectRes {
	c.t.Helper()
	var last selectRes
	for _, p := range pairs(v) {
		first := c.pick(id, p[0])
		require.Equal(c.t, match.OutcomeSelected, first.Result.Outcome)
		last = c.pick(id, p[1])
		require.Equal(c.t, match.OutcomeMatched, last.Result.Outcome)
	}
	return last
}

func TestHealth(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	assert.Equal(t, "not_found", c.errorCode(http.MethodGet, "/nope", nil, http.StatusNotFound))
}

func TestGameLifecycle(t *testing.T) {
	c := newClient(t, newTestServer(t))
	g := c.newGame(map[string]any{"rows": 2, "columns": 2, "fill": "paired"})

	assert.Equal(t, game.StatusPlaying, g.View.Status)
	assert.Equal(t, game.FillPaired, g.View.Fill)
	require.Len(t, g.View.Cards, 4)
	assert.Equal(t, 4, g.View.Active)
	assert.NotEmpty(t, c.cookies[anonCookieName], "guests get an anon cookie")

	ps := pairs(g.View)
	require.Len(t, ps, 2)

	res := c.pick(g.GameID, ps[0][0])
	assert.Equal(t, match.OutcomeSelected, res.Result.Outcome)
	assert.Equal(t, []int{ps[0][0]}, res.View.Selection)

	res = c.pick(g.GameID, ps[0][1])
	assert.Equal(t, match.OutcomeMatched, res.Result.Outcome)
	assert.False(t, res.Result.Ended)
	assert.Equal(t, 2, res.View.Active)

	// a click on empty space only clears the selection
	var reset selectRes
	c.json(http.MethodPost, "/game/select", map[string]any{"gameId": g.GameID, "slot": nil}, http.StatusOK, &reset)
	assert.Equal(t, match.OutcomeReset, reset.Result.Outcome)
	assert.Equal(t, match.NotACard, reset.Result.Reason)

	c.pick(g.GameID, ps[1][0])
	res = c.pick(g.GameID, ps[1][1])
	assert.True(t, res.Result.Ended)
	assert.True(t, res.Result.Won)

	var v game.View
	c.json(http.MethodGet, "/game/"+g.GameID, nil, http.StatusOK, &v)
	assert.Equal(t, game.StatusEnded, v.Status)
	assert.True(t, v.Finished)
	assert.True(t, v.Won)
	assert.Equal(t, 4, v.Selections)
	assert.Equal(t, 2, v.Matches)

	assert.Equal(t, "game_ended",
		c.errorCode(http.MethodPost, "/game/select", map[string]any{"gameId": g.GameID, "slot": 0}, http.StatusConflict))
}

func TestMismatchAndDouble(t *testing.T) {
	c := newClient(t, newTestServer(t))
	// sequential from the standard deck: One..Four of Air
	g := c.newGame(map[string]any{"rows": 2, "columns": 2, "fill": "sequential"})
	assert.Equal(t, "One of Air", g.View.Cards[0].Label)

	c.pick(g.GameID, 0)
	res := c.pick(g.GameID, 1)
	assert.Equal(t, match.OutcomeMismatch, res.Result.Outcome)
	assert.Equal(t, match.WrongValue, res.Result.Reason)
	assert.Equal(t, 4, res.View.Active)

	var d doubleRes
	c.json(http.MethodPost, "/game/double", map[string]any{"gameId": g.GameID}, http.StatusOK, &d)
	assert.Equal(t, 4, d.Added)
	assert.Equal(t, 8, d.View.Active)
	assert.Equal(t, 4, d.View.Rows)
	assert.Equal(t, 1, d.View.TimesDoubled)

	// every original now has a twin
	last := c.solve(g.GameID, d.View)
	assert.True(t, last.Result.Won)
}

func TestNewGameValidation(t *testing.T) {
	c := newClient(t, newTestServer(t))
	cases := []struct {
		name string
		req  map[string]any
		code string
	}{
		{"negative columns", map[string]any{"columns": -1}, "invalid_size"},
		{"unknown fill", map[string]any{"fill": "spiral"}, "unknown_fill"},
		{"odd paired", map[string]any{"rows": 3, "columns": 3, "fill": "paired"}, "odd_cells"},
		{"too large", map[string]any{"rows": 30, "columns": 30}, "board_too_large"},
		{"rows product wraps negative", map[string]any{"rows": 1 << 62, "columns": 2}, "board_too_large"},
		{"rows product wraps to zero", map[string]any{"rows": 1 << 32, "columns": 1 << 32}, "board_too_large"},
		{"card count too large", map[string]any{"columns": 2, "cardCount": 1 << 62}, "board_too_large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, c.errorCode(http.MethodPost, "/game/new", tc.req, http.StatusBadRequest))
		})
	}

	g := c.newGame(map[string]any{"columns": 3, "cardCount": 7})
	assert.Equal(t, 3, g.View.Rows)
	assert.Len(t, g.View.Cards, 9)
}

func TestUnknownGameAndBadJSON(t *testing.T) {
	c := newClient(t, newTestServer(t))
	assert.Equal(t, "not_found", c.errorCode(http.MethodGet, "/game/missing", nil, http.StatusNotFound))
	assert.Equal(t, "not_found",
		c.errorCode(http.MethodPost, "/game/select", map[string]any{"gameId": "missing", "slot": 1}, http.StatusNotFound))

	req := httptest.NewRequest(http.MethodPost, "/game/double", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPauseResumeAbort(t *testing.T) {
	c := newClient(t, newTestServer(t))
	g := c.newGame(map[string]any{"rows": 2, "columns": 2, "fill": "paired"})
	body := map[string]any{"gameId": g.GameID}

	var v game.View
	c.json(http.MethodPost, "/game/pause", body, http.StatusOK, &v)
	assert.Equal(t, game.StatusPaused, v.Status)

	assert.Equal(t, "not_playing",
		c.errorCode(http.MethodPost, "/game/select", map[string]any{"gameId": g.GameID, "slot": 0}, http.StatusConflict))
	assert.Equal(t, "not_playing", c.errorCode(http.MethodPost, "/game/double", body, http.StatusConflict))

	c.json(http.MethodPost, "/game/resume", body, http.StatusOK, &v)
	assert.Equal(t, game.StatusPlaying, v.Status)
	assert.Equal(t, "not_paused", c.errorCode(http.MethodPost, "/game/resume", body, http.StatusConflict))

	c.json(http.MethodPost, "/game/abort", body, http.StatusOK, &v)
	assert.Equal(t, game.StatusEnded, v.Status)
	assert.True(t, v.Finished)
	assert.False(t, v.Won)
	assert.Equal(t, "game_ended", c.errorCode(http.MethodPost, "/game/abort", body, http.StatusConflict))
}
