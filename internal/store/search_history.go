package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

const searchRecordPrefix = "history:"

// ErrSearchRecordNotFound is returned when a search history record is not found.
var ErrSearchRecordNotFound = ErrNotFound.WithMessage("search record not found")

// CreateSearchRecord stores a new search history record.
func (s *Store) CreateSearchRecord(ctx context.Context, record *domain.SearchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := searchRecordPrefix + domain.SearchRecordKey(record.UserID, record.ID)
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal search record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// GetSearchRecord retrieves a search record by user and search ID.
func (s *Store) GetSearchRecord(ctx context.Context, userID, searchID string) (*domain.SearchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := searchRecordPrefix + domain.SearchRecordKey(userID, searchID)
	var record domain.SearchRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSearchRecordNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})

	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateSearchRecord overwrites an existing search record.
// Used to append clicked books; the record must already exist.
func (s *Store) UpdateSearchRecord(ctx context.Context, record *domain.SearchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := searchRecordPrefix + domain.SearchRecordKey(record.UserID, record.ID)
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal search record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSearchRecordNotFound
		}
		if err != nil {
			return err
		}
		return txn.Set([]byte(key), data)
	})
}

// ListSearchRecords retrieves a user's search history, newest first.
// A limit of 0 returns everything.
func (s *Store) ListSearchRecords(ctx context.Context, userID string, limit int) ([]*domain.SearchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := searchRecordPrefix + userID + ":search:"
	var results []*domain.SearchRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			var record domain.SearchRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			results = append(results, &record)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Keys are random nanoids, so order by creation time explicitly.
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}
