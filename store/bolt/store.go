// Package bolt is an ActionLog kept in a BoltDB file.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/store"
)

const (
	gamesBucket   = "games"
	actionsBucket = "actions"
)

// Store provides a BoltDB-backed action log. Each game's actions live in
// their own bucket, keyed by big-endian sequence number so that a cursor
// walks them in order.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
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

	return s.db.Update(func(tx *bbolt.Tx) error {
		games, err := bucket(tx, gamesBucket)
		if err != nil {
			return err
		}
		if games.Get([]byte(rec.GameID)) != nil {
			return fmt.Errorf("%w: %s", store.ErrGameExists, rec.GameID)
		}
		actions, err := bucket(tx, actionsBucket)
		if err != nil {
			return err
		}
		if _, err := actions.CreateBucketIfNotExists([]byte(rec.GameID)); err != nil {
			return fmt.Errorf("create actions bucket: %w", err)
		}
		return games.Put([]byte(rec.GameID), payload)
	})
}

// GetGame fetches a game record by id.
func (s *Store) GetGame(ctx context.Context, gameID string) (protocol.GameRecord, error) {
	if err := s.ready(ctx); err != nil {
		return protocol.GameRecord{}, err
	}

	var rec protocol.GameRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		games, err := bucket(tx, gamesBucket)
		if err != nil {
			return err
		}
		payload := games.Get([]byte(gameID))
		if payload == nil {
			return fmt.Errorf("%w: game %s", store.ErrNotFound, gameID)
		}
		if err := json.Unmarshal(payload, &rec); err != nil {
			return fmt.Errorf("unmarshal game: %w", err)
		}
		return nil
	})
	return rec, err
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

	return s.db.Update(func(tx *bbolt.Tx) error {
		actions, err := gameActions(tx, gameID)
		if err != nil {
			return err
		}
		var last uint64
		if k, _ := actions.Cursor().Last(); k != nil {
			last = binary.BigEndian.Uint64(k)
		}
		if err := store.CheckNext(gameID, last, a); err != nil {
			return err
		}
		return actions.Put(seqKey(a.Seq), payload)
	})
}

// ListActions lists up to limit actions after afterSeq, in sequence order.
func (s *Store) ListActions(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]protocol.Action, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	list := []protocol.Action{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		actions, err := gameActions(tx, gameID)
		if err != nil {
			return err
		}
		c := actions.Cursor()
		for k, v := c.Seek(seqKey(afterSeq + 1)); k != nil; k, v = c.Next() {
			if limit > 0 && len(list) >= limit {
				break
			}
			var a protocol.Action
			if err := json.Unmarshal(v, &a); err != nil {
				return fmt.Errorf("unmarshal action: %w", err)
			}
			list = append(list, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListGames lists every game record, oldest first.
func (s *Store) ListGames(ctx context.Context) ([]protocol.GameRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	recs := []protocol.GameRecord{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		games, err := bucket(tx, gamesBucket)
		if err != nil {
			return err
		}
		return games.ForEach(func(_, v []byte) error {
			var rec protocol.GameRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal game: %w", err)
			}
			recs = append(recs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	store.SortRecords(recs)
	return recs, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{gamesBucket, actionsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func bucket(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b == nil {
		return nil, fmt.Errorf("%s bucket is missing", name)
	}
	return b, nil
}

func gameActions(tx *bbolt.Tx, gameID string) (*bbolt.Bucket, error) {
	actions, err := bucket(tx, actionsBucket)
	if err != nil {
		return nil, err
	}
	b := actions.Bucket([]byte(gameID))
	if b == nil {
		return nil, fmt.Errorf("%w: game %s", store.ErrNotFound, gameID)
	}
	return b, nil
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
