// Package audit persists session gate decisions so that denied and
// fail-closed evaluations can be told apart after the fact.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/manas-foundation/manas-admin/internal/models"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ErrEventNotFound is returned by Get for unknown IDs
var ErrEventNotFound = errors.New("gate event not found")

// Store reads and writes gate events
type Store struct {
	db *gorm.DB
}

// NewStore creates an audit store on db
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Record persists ev, assigning its ID
func (s *Store) Record(ctx context.Context, ev *models.GateEvent) error {
	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("failed to record gate event: %w", err)
	}
	return nil
}

// Recent returns the newest events first. limit is clamped to
// [1, MaxLimit]; zero means DefaultLimit.
func (s *Store) Recent(ctx context.Context, limit int) ([]models.GateEvent, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	var events []models.GateEvent
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list gate events: %w", err)
	}
	return events, nil
}

// Get returns one event by ID
func (s *Store) Get(ctx context.Context, id string) (*models.GateEvent, error) {
	var ev models.GateEvent
	if err := models.FindByID(s.db.WithContext(ctx), id, &ev); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get gate event: %w", err)
	}
	return &ev, nil
}

// Purge deletes events created before cutoff and returns how many went
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.GateEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge gate events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
