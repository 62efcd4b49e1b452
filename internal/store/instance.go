package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

const instanceKey = "instance"

// ErrInstanceNotFound is returned when the server instance has not been configured yet.
var ErrInstanceNotFound = errors.New("instance not found")

// GetInstance retrieves the singleton server instance record.
func (s *Store) GetInstance(_ context.Context) (*domain.Instance, error) {
	var instance domain.Instance
	if err := s.get([]byte(instanceKey), &instance); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// SaveInstance creates or updates the singleton server instance record.
func (s *Store) SaveInstance(_ context.Context, instance *domain.Instance) error {
	return s.set([]byte(instanceKey), instance)
}
