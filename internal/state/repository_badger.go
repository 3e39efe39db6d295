// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// badgerKeyPrefix namespaces state records in a shared BadgerDB.
const badgerKeyPrefix = "state:"

// BadgerRepository stores records in BadgerDB. Entries carry a TTL so idle
// sessions also expire without CleanupExpired.
type BadgerRepository struct {
	db     *badger.DB
	ttl    time.Duration
	ownsDB bool
}

// OpenBadgerRepository opens (or creates) a BadgerDB at path.
func OpenBadgerRepository(path string, ttl time.Duration) (*BadgerRepository, error) {
	if path == "" {
		return nil, errors.New("badger state store requires a path")
	}
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	// State records are small.
	opts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for view state: %w", err)
	}
	r := NewBadgerRepository(db, ttl)
	r.ownsDB = true
	return r, nil
}

// NewBadgerRepository wraps an open DB. Close does not close a DB passed in
// here.
func NewBadgerRepository(db *badger.DB, ttl time.Duration) *BadgerRepository {
	return &BadgerRepository{db: db, ttl: ttl}
}

func badgerKey(sessionID string) []byte {
	return []byte(badgerKeyPrefix + sessionID)
}

func (r *BadgerRepository) Load(_ context.Context, sessionID string) (*Record, error) {
	var rec Record
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get state: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *BadgerRepository) Save(_ context.Context, rec *Record) error {
	if rec == nil || rec.SessionID == "" {
		return errors.New("state record requires a session id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(badgerKey(rec.SessionID), data)
		if r.ttl > 0 {
			e = e.WithTTL(r.ttl)
		}
		return txn.SetEntry(e)
	})
}

func (r *BadgerRepository) Delete(_ context.Context, sessionID string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(badgerKey(sessionID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete state: %w", err)
		}
		return nil
	})
}

func (r *BadgerRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	var stale [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var rec struct {
				UpdatedAt time.Time `json:"updatedAt"`
			}
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &rec) }); err != nil {
				// Undecodable records are garbage.
				stale = append(stale, item.KeyCopy(nil))
				continue
			}
			if rec.UpdatedAt.Before(cutoff) {
				stale = append(stale, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan state: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	wb := r.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range stale {
		if err := wb.Delete(k); err != nil {
			return 0, fmt.Errorf("delete expired state: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush expired state: %w", err)
	}
	return len(stale), nil
}

// Close closes the DB when the repository opened it.
func (r *BadgerRepository) Close() error {
	if r.ownsDB {
		return r.db.Close()
	}
	return nil
}
