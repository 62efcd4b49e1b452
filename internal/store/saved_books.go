package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

const savedBookPrefix = "saved:"

// ErrSavedBookNotFound is returned when a saved book is not found.
var ErrSavedBookNotFound = ErrNotFound.WithMessage("book not in library")

// GetSavedBook retrieves a saved book for a user+book.
func (s *Store) GetSavedBook(ctx context.Context, userID, bookID string) (*domain.SavedBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := savedBookPrefix + domain.SavedBookID(userID, bookID)
	var sb domain.SavedBook

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSavedBookNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sb)
		})
	})

	if err != nil {
		return nil, err
	}
	return &sb, nil
}

// UpsertSavedBook creates or updates a saved book. Last write wins.
// The search index is updated asynchronously after the write commits.
func (s *Store) UpsertSavedBook(ctx context.Context, sb *domain.SavedBook) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := savedBookPrefix + domain.SavedBookID(sb.UserID, sb.Book.ID)
	data, err := json.Marshal(sb)
	if err != nil {
		return fmt.Errorf("marshal saved book: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return err
	}

	s.indexSavedBookAsync(sb)
	return nil
}

// DeleteSavedBook removes a saved book. Idempotent.
func (s *Store) DeleteSavedBook(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := savedBookPrefix + domain.SavedBookID(userID, bookID)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return err
	}

	s.deleteSavedBookIndexAsync(userID, bookID)
	return nil
}

// ListSavedBooks retrieves all saved books for a user.
func (s *Store) ListSavedBooks(ctx context.Context, userID string) ([]*domain.SavedBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Prefix: saved:userID:saved: (matching SavedBookID format)
	prefix := savedBookPrefix + userID + ":saved:"
	var results []*domain.SavedBook

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			var sb domain.SavedBook
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sb)
			})
			if err != nil {
				return err
			}
			results = append(results, &sb)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return results, nil
}

// indexSavedBookAsync pushes a saved book into the search index without
// blocking the store write. Index failures are logged, never surfaced.
func (s *Store) indexSavedBookAsync(sb *domain.SavedBook) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.IndexSavedBook(context.Background(), sb); err != nil && s.logger != nil {
			s.logger.Warn("failed to index saved book", "user_id", sb.UserID, "book_id", sb.Book.ID, "error", err)
		}
	}()
}

func (s *Store) deleteSavedBookIndexAsync(userID, bookID string) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		if err := s.searchIndexer.DeleteSavedBook(context.Background(), userID, bookID); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove saved book from index", "user_id", userID, "book_id", bookID, "error", err)
		}
	}()
}
