package service

import (
	"context"
	"time"

	"github.com/thedevsir/fresh/internal/fresh/domain"
	"github.com/thedevsir/fresh/internal/fresh/store"
)

// StatusService manages the catalog of assignable statuses.
type StatusService struct {
	Store store.Store
}

// Create registers a status under its "{pivot}-{name}" slug id.
func (s *StatusService) Create(ctx context.Context, pivot, name string) (domain.Status, error) {
	now := time.Now().UTC()
	status := domain.Status{
		ID:        domain.StatusID(pivot, name),
		Pivot:     pivot,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Statuses().CreateStatus(ctx, status); err != nil {
		return domain.Status{}, err
	}
	return status, nil
}

func (s *StatusService) GetByID(ctx context.Context, id string) (domain.Status, error) {
	return s.Store.Statuses().GetStatusByID(ctx, id)
}

func (s *StatusService) List(ctx context.Context, limit, offset int) ([]domain.Status, int, error) {
	return s.Store.Statuses().ListStatuses(ctx, limit, offset)
}

// UpdateName renames a status. The slug id is fixed at creation; history
// entries keep the name they were stamped with.
func (s *StatusService) UpdateName(ctx context.Context, id, name string) error {
	return s.Store.Statuses().UpdateStatusName(ctx, id, name)
}

func (s *StatusService) Delete(ctx context.Context, id string) error {
	return s.Store.Statuses().DeleteStatus(ctx, id)
}
