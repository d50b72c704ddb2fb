package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when an appointment does not exist.
var ErrNotFound = errors.New("booking: appointment not found")

// DB is the subset of pgx used by the repository. Both *pgxpool.Pool and
// pgxmock satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence for customers and appointments.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by the given database.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("booking: database required")
	}
	return &Repository{db: db}
}

// UpsertCustomer returns the existing customer with the given email or
// inserts a new one.
func (r *Repository) UpsertCustomer(ctx context.Context, name, email, phone string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT id FROM customers WHERE email = $1`, email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("booking: select customer: %w", err)
	}

	id = uuid.New()
	_, err = r.db.Exec(ctx,
		`INSERT INTO customers (id, name, email, phone) VALUES ($1, $2, $3, $4)`,
		id, name, email, phone)
	if err != nil {
		return uuid.Nil, fmt.Errorf("booking: insert customer: %w", err)
	}
	return id, nil
}

// HasConflict reports whether another active appointment at the same location
// starts within the given window around startsAt.
func (r *Repository) HasConflict(ctx context.Context, location string, startsAt time.Time, window time.Duration) (bool, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE location = $1
		   AND status <> $2
		   AND starts_at > $3
		   AND starts_at < $4`,
		location, StatusCancelled, startsAt.Add(-window), startsAt.Add(window)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("booking: check conflict: %w", err)
	}
	return count > 0, nil
}

// Insert stores a new appointment.
func (r *Repository) Insert(ctx context.Context, appt Appointment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO appointments (id, customer_id, treatment, location, starts_at, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		appt.ID, appt.CustomerID, appt.Treatment, appt.Location, appt.StartsAt, appt.Status, appt.CreatedAt)
	if err != nil {
		return fmt.Errorf("booking: insert appointment: %w", err)
	}
	return nil
}

// Cancel marks an appointment as cancelled. Returns ErrNotFound when no
// active appointment with the given id exists.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET status = $1 WHERE id = $2 AND status <> $1`,
		StatusCancelled, id)
	if err != nil {
		return fmt.Errorf("booking: cancel appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
