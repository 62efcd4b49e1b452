package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

const wishlistPrefix = "wish:"

// ErrWishlistItemNotFound is returned when a wishlist item is not found.
var ErrWishlistItemNotFound = ErrNotFound.WithMessage("book not on wishlist")

// GetWishlistItem retrieves a wishlist item for a user+book.
func (s *Store) GetWishlistItem(ctx context.Context, userID, bookID string) (*domain.WishlistItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := wishlistPrefix + domain.WishlistItemID(userID, bookID)
	var item domain.WishlistItem

	err := s.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrWishlistItemNotFound
		}
		if err != nil {
			return err
		}

		return it.Value(func(val []byte) error {
			return json.Unmarshal(val, &item)
		})
	})

	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertWishlistItem creates or updates a wishlist item. Last write wins.
func (s *Store) UpsertWishlistItem(ctx context.Context, item *domain.WishlistItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := wishlistPrefix + domain.WishlistItemID(item.UserID, item.Book.ID)
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal wishlist item: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// DeleteWishlistItem removes a wishlist item. Idempotent.
func (s *Store) DeleteWishlistItem(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := wishlistPrefix + domain.WishlistItemID(userID, bookID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// ListWishlistItems retrieves all wishlist items for a user.
func (s *Store) ListWishlistItems(ctx context.Context, userID string) ([]*domain.WishlistItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Prefix: wish:userID:wish: (matching WishlistItemID format)
	prefix := wishlistPrefix + userID + ":wish:"
	var results []*domain.WishlistItem

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			var item domain.WishlistItem
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			})
			if err != nil {
				return err
			}
			results = append(results, &item)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return results, nil
}

// MoveWishlistItemToLibrary atomically removes a wishlist item and creates the
// corresponding saved book. The wishlist row must exist; the saved row is an
// upsert so an existing library entry is overwritten.
func (s *Store) MoveWishlistItemToLibrary(ctx context.Context, userID, bookID string, sb *domain.SavedBook) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	wishKey := wishlistPrefix + domain.WishlistItemID(userID, bookID)
	savedKey := savedBookPrefix + domain.SavedBookID(userID, bookID)

	data, err := json.Marshal(sb)
	if err != nil {
		return fmt.Errorf("marshal saved book: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(wishKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrWishlistItemNotFound
		}
		if err != nil {
			return err
		}

		if err := txn.Delete([]byte(wishKey)); err != nil {
			return err
		}
		return txn.Set([]byte(savedKey), data)
	})
	if err != nil {
		return err
	}

	s.indexSavedBookAsync(sb)
	return nil
}
