package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

const readingGoalPrefix = "goal:"

// ErrReadingGoalNotFound is returned when no goal exists for a user+year.
var ErrReadingGoalNotFound = ErrNotFound.WithMessage("reading goal not found")

// GetReadingGoal retrieves the goal for a user+year.
func (s *Store) GetReadingGoal(ctx context.Context, userID string, year int) (*domain.ReadingGoal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := readingGoalPrefix + domain.ReadingGoalID(userID, year)
	var goal domain.ReadingGoal

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrReadingGoalNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &goal)
		})
	})

	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpsertReadingGoal creates or updates a reading goal. One row per user+year.
func (s *Store) UpsertReadingGoal(ctx context.Context, goal *domain.ReadingGoal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := readingGoalPrefix + domain.ReadingGoalID(goal.UserID, goal.Year)
	data, err := json.Marshal(goal)
	if err != nil {
		return fmt.Errorf("marshal reading goal: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}
