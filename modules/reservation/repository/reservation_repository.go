package repository

import (
	"context"
	"database/sql"

	"stayops/core/database"
	"stayops/core/logger"
	"stayops/modules/reservation/entity"

	"github.com/google/uuid"
)

// ReservationRepositoryInterface defines the repository contract
type ReservationRepositoryInterface interface {
	Create(ctx context.Context, reservation *entity.Reservation) (*entity.Reservation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	ListByStatus(ctx context.Context, status entity.ReservationStatus, limit int) ([]entity.Reservation, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReservationStatus, reason string) error
	MarkJobsCreated(ctx context.Context, id uuid.UUID) error
}

type ReservationRepository struct {
	DB database.Database
}

func NewReservationRepository(db database.Database) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

const reservationColumns = `id, property_id, guest_name, guest_email, check_in, check_out, guests, total_amount, status, status_reason, jobs_created, extensions, created_at, updated_at`

func (r *ReservationRepository) Create(ctx context.Context, reservation *entity.Reservation) (*entity.Reservation, error) {
	query := `
		INSERT INTO reservations (property_id, guest_name, guest_email, check_in, check_out, guests, total_amount, status, extensions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + reservationColumns

	var created entity.Reservation
	err := r.DB.GetContext(ctx, &created, query,
		reservation.PropertyID, reservation.GuestName, reservation.GuestEmail,
		reservation.CheckIn, reservation.CheckOut, reservation.Guests,
		reservation.TotalAmount, reservation.Status, reservation.Extensions)
	if err != nil {
		logger.Error("ReservationRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	var reservation entity.Reservation
	err := r.DB.GetContext(ctx, &reservation, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ReservationRepository:GetByID", err)
		return nil, err
	}

	return &reservation, nil
}

func (r *ReservationRepository) ListByStatus(ctx context.Context, status entity.ReservationStatus, limit int) ([]entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2
	`

	var reservations []entity.Reservation
	err := r.DB.SelectContext(ctx, &reservations, query, status, limit)
	if err != nil {
		logger.Error("ReservationRepository:ListByStatus", err)
		return nil, err
	}

	return reservations, nil
}

func (r *ReservationRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE property_id = $1
		ORDER BY check_in DESC
	`

	var reservations []entity.Reservation
	err := r.DB.SelectContext(ctx, &reservations, query, propertyID)
	if err != nil {
		logger.Error("ReservationRepository:ListByProperty", err)
		return nil, err
	}

	return reservations, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReservationStatus, reason string) error {
	query := `
		UPDATE reservations
		SET status = $2, status_reason = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query, id, status, reason)
	if err != nil {
		logger.Error("ReservationRepository:UpdateStatus", err)
		return err
	}
	return nil
}

func (r *ReservationRepository) MarkJobsCreated(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE reservations SET jobs_created = true, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("ReservationRepository:MarkJobsCreated", err)
		return err
	}
	return nil
}
