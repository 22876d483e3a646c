// internal/httpserver/stats.go
//
// Per-user stats, updated once per finished game:
//   - games played, wins, current and best win streak
//   - total pairs matched
//   - perfect games: wins without a single mismatch
//   - fastest win, in milliseconds
//
// GET /stats/me (require auth) reports them.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/rhysstever/CardMatchGame/internal/game"
)

// statsRow is the stats columns of a users row.
type statsRow struct {
	ID           string `json:"id"`
	GamesPlayed  int    `json:"gamesPlayed"`
	Wins         int    `json:"wins"`
	Streak       int    `json:"streak"`
	BestStreak   int    `json:"bestStreak"`
	TotalMatches int    `json:"totalMatches"`
	PerfectGames int    `json:"perfectGames"`
	FastestWinMs *int64 `json:"fastestWinMs"` // nil until the first win
}

func (s *Server) findStats(id string) (*statsRow, error) {
	var st statsRow
	var fastest sql.NullInt64
	err := s.db.QueryRow(`SELECT id, games_played, wins, streak, best_streak, total_matches, perfect_games, fastest_win_ms
	                      FROM users WHERE id=?`, id).
		Scan(&st.ID, &st.GamesPlayed, &st.Wins, &st.Streak, &st.BestStreak, &st.TotalMatches, &st.PerfectGames, &fastest)
	if err != nil {
		return nil, err
	}
	if fastest.Valid {
		st.FastestWinMs = &fastest.Int64
	}
	return &st, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.findStats(currentUser(r).ID)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

// recordStats folds one finished game into the user's stats (within tx).
// SET expressions read the pre-update row, so streak+1 below is the new streak.
func recordStats(tx *sql.Tx, userID string, sum game.Summary) error {
	won := 0
	if sum.Won {
		won = 1
	}
	perfect := 0
	if sum.Won && sum.Mismatches == 0 {
		perfect = 1
	}
	res, err := tx.Exec(`UPDATE users SET
	    games_played   = games_played + 1,
	    wins           = wins + ?1,
	    streak         = CASE WHEN ?1 THEN streak + 1 ELSE 0 END,
	    best_streak    = CASE WHEN ?1 THEN MAX(best_streak, streak + 1) ELSE best_streak END,
	    total_matches  = total_matches + ?2,
	    perfect_games  = perfect_games + ?3,
	    fastest_win_ms = CASE WHEN ?1 AND (fastest_win_ms IS NULL OR ?4 < fastest_win_ms)
	                          THEN ?4 ELSE fastest_win_ms END
	  WHERE id = ?5`,
		won, sum.Matches, perfect, sum.Elapsed.Milliseconds(), userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
