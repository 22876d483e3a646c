package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stats struct {
	GamesPlayed  int    `json:"gamesPlayed"`
	Wins         int    `json:"wins"`
	Streak       int    `json:"streak"`
	BestStreak   int    `json:"bestStreak"`
	TotalMatches int    `json:"totalMatches"`
	PerfectGames int    `json:"perfectGames"`
	FastestWinMs *int64 `json:"fastestWinMs"`
}

type historyRow struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Selections int    `json:"selections"`
	Matches    int    `json:"matches"`
}

func TestAuthStatsAndHistory(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	// a guest game, claimed on signup
	guest := c.newGame(map[string]any{"rows": 2, "columns": 2, "fill": "paired"})
	c.json(http.MethodPost, "/game/abort", map[string]any{"gameId": guest.GameID}, http.StatusOK, nil)

	assert.Equal(t, "Unauthorized", c.errorCode(http.MethodGet, "/auth/me", nil, http.StatusUnauthorized))

	creds := map[string]string{"username": "alice_1", "password": "password123"}
	c.json(http.MethodPost, "/auth/signup", creds, http.StatusOK, nil)
	assert.Equal(t, "Username taken", c.errorCode(http.MethodPost, "/auth/signup", creds, http.StatusConflict))

	var me authUser
	c.json(http.MethodGet, "/auth/me", nil, http.StatusOK, &me)
	assert.Equal(t, "alice_1", me.Username)

	var mine []historyRow
	c.json(http.MethodGet, "/games/mine", nil, http.StatusOK, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, guest.GameID, mine[0].ID)
	assert.Equal(t, "lost", mine[0].Status)

	won := c.newGame(map[string]any{"rows": 2, "columns": 2, "fill": "paired"})
	c.solve(won.GameID, won.View)

	var st stats
	c.json(http.MethodGet, "/stats/me", nil, http.StatusOK, &st)
	require.NotNil(t, st.FastestWinMs)
	fastest := *st.FastestWinMs
	st.FastestWinMs = nil
	assert.Equal(t, stats{GamesPlayed: 1, Wins: 1, Streak: 1, BestStreak: 1, TotalMatches: 2, PerfectGames: 1}, st)

	lost := c.newGame(map[string]any{"rows": 2, "columns": 2})
	c.json(http.MethodPost, "/game/abort", map[string]any{"gameId": lost.GameID}, http.StatusOK, nil)
	st = stats{}
	c.json(http.MethodGet, "/stats/me", nil, http.StatusOK, &st)
	require.NotNil(t, st.FastestWinMs)
	assert.Equal(t, fastest, *st.FastestWinMs, "a loss leaves the fastest win alone")
	st.FastestWinMs = nil
	assert.Equal(t, stats{GamesPlayed: 2, Wins: 1, Streak: 0, BestStreak: 1, TotalMatches: 2, PerfectGames: 1}, st)

	c.json(http.MethodGet, "/games/mine", nil, http.StatusOK, &mine)
	require.Len(t, mine, 3)
	byID := map[string]historyRow{}
	for _, r := range mine {
		byID[r.ID] = r
	}
	assert.Equal(t, "won", byID[won.GameID].Status)
	assert.Equal(t, 4, byID[won.GameID].Selections)
	assert.Equal(t, 2, byID[won.GameID].Matches)

	c.json(http.MethodPost, "/auth/logout", nil, http.StatusOK, nil)
	assert.Equal(t, "Unauthorized", c.errorCode(http.MethodGet, "/auth/me", nil, http.StatusUnauthorized))

	c.json(http.MethodPost, "/auth/login", creds, http.StatusOK, nil)
	c.json(http.MethodGet, "/auth/me", nil, http.StatusOK, &me)
	assert.Equal(t, "alice_1", me.Username)

	bad := map[string]string{"username": "alice_1", "password": "wrongpassword"}
	assert.Equal(t, "Invalid username or password",
		c.errorCode(http.MethodPost, "/auth/login", bad, http.StatusUnauthorized))
}

func TestSignupValidation(t *testing.T) {
	c := newClient(t, newTestServer(t))
	for _, creds := range []map[string]string{
		{"username": "ab", "password": "password123"},
		{"username": "bad name", "password": "password123"},
		{"username": "bob", "password": "short"},
	} {
		c.json(http.MethodPost, "/auth/signup", creds, http.StatusBadRequest, nil)
	}
}

func TestBearerToken(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.json(http.MethodPost, "/auth/signup", map[string]string{"username": "carol", "password": "password123"}, http.StatusOK, nil)

	u, err := srv.findUserByUsername("carol")
	require.NoError(t, err)
	tok, _, err := srv.signJWT(u.ID, u.Username)
	require.NoError(t, err)

	_, ok := srv.parseToken(tok)
	assert.True(t, ok)
	_, ok = srv.parseToken(tok + "x")
	assert.False(t, ok)
}
