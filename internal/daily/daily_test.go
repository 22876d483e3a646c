package daily

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhysstever/CardMatchGame/assets"
	"github.com/rhysstever/CardMatchGame/internal/db"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 08:00 on the 2nd at +10 is still the 1st in UTC
	ts := time.Date(2026, 3, 2, 8, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-01", DateKey(ts))
}

func TestSeedDeterministic(t *testing.T) {
	d := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, Seed(d, "salt"), Seed(d.Add(6*time.Hour), "salt"), "same day")
	assert.NotEqual(t, Seed(d, "salt"), Seed(d.AddDate(0, 0, 1), "salt"), "next day")
	assert.NotEqual(t, Seed(d, "salt"), Seed(d, "pepper"), "other salt")
	assert.NotZero(t, Seed(d, ""))
}

func newStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn, assets.Migrations()))
	return NewStore(conn)
}

func TestStoreResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	date := "2026-03-01"

	played, err := s.AlreadyPlayed(ctx, "u1", date)
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: date, Seed: math.MaxUint64, Selections: 30, ElapsedMs: 5000}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u2", Date: date, Seed: 7, Selections: 24, ElapsedMs: 9000}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u3", Date: date, Seed: 7, Selections: 24, ElapsedMs: 4000}))
	// ignored: u1 already finished today
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: date, Seed: 7, Selections: 20, ElapsedMs: 1}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: "2026-03-02", Seed: 7, Selections: 20, ElapsedMs: 1}))

	played, err = s.AlreadyPlayed(ctx, "u1", date)
	require.NoError(t, err)
	assert.True(t, played)

	lb, err := s.Leaderboard(ctx, date, 10)
	require.NoError(t, err)
	require.Len(t, lb, 3)
	assert.Equal(t, []string{"u3", "u2", "u1"}, []string{lb[0].UserID, lb[1].UserID, lb[2].UserID})
	assert.Equal(t, 30, lb[2].Selections)

	lb, err = s.Leaderboard(ctx, date, 1)
	require.NoError(t, err)
	assert.Len(t, lb, 1)

	lb, err = s.Leaderboard(ctx, "1999-01-01", 10)
	require.NoError(t, err)
	assert.Empty(t, lb)
}
