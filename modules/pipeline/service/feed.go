package service

import (
	"context"

	"stayops/core/logger"
	"stayops/modules/reservation/entity"

	"github.com/google/uuid"
)

// Feed surfaces reservations the pipeline should pick up: newly pending ones
// and confirmed ones not yet expanded into work items.
type Feed interface {
	Pending(ctx context.Context) ([]uuid.UUID, error)
}

// ReservationLister is the read slice of the reservation repository the
// Postgres feed polls.
type ReservationLister interface {
	ListByStatus(ctx context.Context, status entity.ReservationStatus, limit int) ([]entity.Reservation, error)
}

// PostgresFeed derives the change feed by polling the reservation store.
// Duplicate deliveries across polls are expected; the queue's in-flight guard
// and the scheduler's status re-fetch make them harmless.
type PostgresFeed struct {
	repo  ReservationLister
	batch int
}

func NewPostgresFeed(repo ReservationLister, batch int) *PostgresFeed {
	if batch <= 0 {
		batch = 50
	}
	return &PostgresFeed{repo: repo, batch: batch}
}

func (f *PostgresFeed) Pending(ctx context.Context) ([]uuid.UUID, error) {
	pending, err := f.repo.ListByStatus(ctx, entity.ReservationStatusPending, f.batch)
	if err != nil {
		return nil, err
	}

	confirmed, err := f.repo.ListByStatus(ctx, entity.ReservationStatusConfirmed, f.batch)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(pending)+len(confirmed))
	for _, r := range pending {
		ids = append(ids, r.ID)
	}
	for _, r := range confirmed {
		if !r.JobsCreated {
			ids = append(ids, r.ID)
		}
	}

	if len(ids) > 0 {
		logger.Debug("PostgresFeed:Pending", "count", len(ids))
	}
	return ids, nil
}
