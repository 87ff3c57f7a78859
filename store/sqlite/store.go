// Package sqlite is an ActionLog kept in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	record TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS actions (
	game_id TEXT NOT NULL REFERENCES games(game_id),
	seq INTEGER NOT NULL,
	player_id TEXT NOT NULL,
	action TEXT NOT NULL,
	PRIMARY KEY (game_id, seq)
);
`

// Store provides SQLite-backed action log persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite action log and creates its tables.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// CreateGame persists a new game record.
func (s *Store) CreateGame(ctx context.Context, rec protocol.GameRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	rec, err := store.CheckRecord(rec)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM games WHERE game_id = ?`, rec.GameID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check game: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", store.ErrGameExists, rec.GameID)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO games (game_id, created_at, record) VALUES (?, ?, ?)
`,
		rec.GameID,
		rec.CreatedAt.UTC().UnixMilli(),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return tx.Commit()
}

// GetGame fetches a game record by id.
func (s *Store) GetGame(ctx context.Context, gameID string) (protocol.GameRecord, error) {
	if err := s.ready(ctx); err != nil {
		return protocol.GameRecord{}, err
	}

	var payload string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT record FROM games WHERE game_id = ?`, gameID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return protocol.GameRecord{}, fmt.Errorf("%w: game %s", store.ErrNotFound, gameID)
	}
	if err != nil {
		return protocol.GameRecord{}, fmt.Errorf("get game: %w", err)
	}

	var rec protocol.GameRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return protocol.GameRecord{}, fmt.Errorf("unmarshal game: %w", err)
	}
	return rec, nil
}

// AppendAction adds the next action of a game.
func (s *Store) AppendAction(ctx context.Context, gameID string, a protocol.Action) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal action: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var games int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM games WHERE game_id = ?`, gameID).Scan(&games)
	if err != nil {
		return fmt.Errorf("check game: %w", err)
	}
	if games == 0 {
		return fmt.Errorf("%w: game %s", store.ErrNotFound, gameID)
	}

	var last int64
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM actions WHERE game_id = ?`, gameID).Scan(&last)
	if err != nil {
		return fmt.Errorf("get last seq: %w", err)
	}
	if err := store.CheckNext(gameID, uint64(last), a); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO actions (game_id, seq, player_id, action) VALUES (?, ?, ?, ?)
`,
		gameID,
		int64(a.Seq),
		a.PlayerID,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("append action: %w", err)
	}
	return tx.Commit()
}

// ListActions lists up to limit actions after afterSeq, in sequence order.
func (s *Store) ListActions(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]protocol.Action, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT action
FROM actions
WHERE game_id = ? AND seq > ?
ORDER BY seq
LIMIT ?
`, gameID, int64(afterSeq), limit)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	actions := []protocol.Action{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		var a protocol.Action
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, fmt.Errorf("unmarshal action: %w", err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return actions, nil
}

// ListGames lists every game record, oldest first.
func (s *Store) ListGames(ctx context.Context) ([]protocol.GameRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT record FROM games ORDER BY created_at, game_id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	recs := []protocol.GameRecord{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		var rec protocol.GameRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal game: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return recs, nil
}
