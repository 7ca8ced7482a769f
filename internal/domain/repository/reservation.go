package repository

import (
	"context"
	"time"

	"github.com/minhtg/flashsale/internal/domain/model"
)

// ReservationRepository describes persistence operations with stock holds.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) (*model.Reservation, error)
	GetByID(ctx context.Context, id int64) (*model.Reservation, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Reservation, error)
	MarkConverted(ctx context.Context, id int64, at time.Time) error
	MarkCancelled(ctx context.Context, id int64) error
	MarkExpired(ctx context.Context, id int64) error
	// ExpiredCandidates returns active reservations whose expiry has passed.
	// Plain read; each candidate is re-checked under lock before reclaiming.
	ExpiredCandidates(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error)
}
