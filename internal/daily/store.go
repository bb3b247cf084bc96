package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultLimit is the leaderboard size when none is given.
const DefaultLimit = 20

// Result is one owner's finished daily board.
type Result struct {
	OwnerID   string `json:"ownerId"`
	Date      string `json:"date"`
	Moves     int    `json:"moves"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	OwnerID   string `json:"ownerId"`
	Moves     int    `json:"moves"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store reads and writes daily_results. One row per owner per date.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether owner has a recorded result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE owner_id=? AND date=?`,
		ownerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same owner and date is ignored;
// inserted reports whether this call wrote the row.
func (s *Store) InsertResult(ctx context.Context, r Result) (inserted bool, err error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner_id, date, moves, elapsed_ms) VALUES(?,?,?,?)`,
		r.OwnerID, r.Date, r.Moves, r.ElapsedMs,
	)
	if err != nil {
		return false, fmt.Errorf("insert daily result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Leaderboard returns the best results for date: fewest moves, then fastest, then earliest.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner_id, moves, elapsed_ms
         FROM daily_results
         WHERE date=?
         ORDER BY moves ASC, elapsed_ms ASC, created_at ASC
         LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.OwnerID, &r.Moves, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Claim moves the results of from to to, dropping any that would collide with a
// date to already has.
func (s *Store) Claim(ctx context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx,
		`UPDATE OR IGNORE daily_results SET owner_id=? WHERE owner_id=?`, to, from,
	); err != nil {
		return fmt.Errorf("claim daily results: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_results WHERE owner_id=?`, from); err != nil {
		return fmt.Errorf("drop unclaimed daily results: %w", err)
	}
	return tx.Commit()
}
