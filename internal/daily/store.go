package daily

import (
	"context"
	"database/sql"
)

// Result is one player's finished daily board.
type Result struct {
	UserID     string `json:"userId"`
	Date       string `json:"date"`
	Seed       uint64 `json:"seed"`
	Selections int    `json:"selections"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same user and date is
// ignored; the first finish counts.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	// sqlite3 rejects uint64 with the high bit set, store the bit pattern
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, seed, selections, elapsed_ms)
		 VALUES(?,?,?,?,?)`, r.UserID, r.Date, int64(r.Seed), r.Selections, r.ElapsedMs,
	)
	return err
}

type LBRow struct {
	UserID     string `json:"userId"`
	Username   string `json:"username,omitempty"`
	Selections int    `json:"selections"`
	ElapsedMs  int64  `json:"elapsedMs"`
}

// Leaderboard returns the best results for date: fewest selections first,
// then fastest, then earliest.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.user_id, COALESCE(u.username, ''), r.selections, r.elapsed_ms
		 FROM daily_results r
		 LEFT JOIN users u ON u.id = r.user_id
		 WHERE r.date=?
		 ORDER BY r.selections ASC, r.elapsed_ms ASC, r.created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Selections, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
