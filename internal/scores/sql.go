package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// sqlStore keeps bests in the scores table (owner_id, game_key, value, updated_at).
// value is the decimal's canonical string.
type sqlStore struct {
	db *sql.DB
}

// NewSQLStore returns a Store over db. The scores table must already exist.
func NewSQLStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func best(ctx context.Context, q querier, owner string, key Key) (decimal.Decimal, bool, error) {
	var v decimal.Decimal
	err := q.QueryRowContext(ctx,
		`SELECT value FROM scores WHERE owner_id=? AND game_key=?`, owner, string(key),
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("select best %s: %w", key, err)
	}
	return v, true, nil
}

func (s *sqlStore) Best(ctx context.Context, owner string, key Key) (decimal.Decimal, bool, error) {
	if !key.Valid() {
		return decimal.Zero, false, ErrUnknownKey
	}
	return best(ctx, s.db, owner, key)
}

func (s *sqlStore) RecordIfBetter(ctx context.Context, owner string, key Key, value decimal.Decimal, d Direction) (bool, error) {
	if !key.Valid() {
		return false, ErrUnknownKey
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	ok, err := recordIfBetter(ctx, tx, owner, key, value, d)
	if err != nil || !ok {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit best %s: %w", key, err)
	}
	return true, nil
}

func recordIfBetter(ctx context.Context, q querier, owner string, key Key, value decimal.Decimal, d Direction) (bool, error) {
	cur, ok, err := best(ctx, q, owner, key)
	if err != nil {
		return false, err
	}
	if ok && !Better(value, cur, d) {
		return false, nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := q.ExecContext(ctx, `
        INSERT INTO scores (owner_id, game_key, value, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (owner_id, game_key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		owner, string(key), value.String(), now,
	); err != nil {
		return false, fmt.Errorf("upsert best %s: %w", key, err)
	}
	return true, nil
}

func (s *sqlStore) All(ctx context.Context, owner string) (map[Key]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT game_key, value FROM scores WHERE owner_id=?`, owner)
	if err != nil {
		return nil, fmt.Errorf("select scores: %w", err)
	}
	defer rows.Close()

	out := make(map[Key]decimal.Decimal)
	for rows.Next() {
		var k string
		var v decimal.Decimal
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[Key(k)] = v
	}
	return out, rows.Err()
}

func (s *sqlStore) Claim(ctx context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	anon, err := s.All(ctx, from)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for k, v := range anon {
		if !k.Valid() {
			continue
		}
		if _, err := recordIfBetter(ctx, tx, to, k, v, k.Direction()); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE owner_id=?`, from); err != nil {
		return fmt.Errorf("delete claimed scores: %w", err)
	}
	return tx.Commit()
}
