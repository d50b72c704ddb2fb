package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUpsertCustomer_Existing(t *testing.T) {
	mock := newMock(t)
	existing := uuid.New()
	mock.ExpectQuery(`SELECT id FROM customers`).
		WithArgs("anna@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(existing))

	repo := NewRepository(mock)
	id, err := repo.UpsertCustomer(context.Background(), "Anna", "anna@example.com", "")

	require.NoError(t, err)
	assert.Equal(t, existing, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertCustomer_New(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id FROM customers`).
		WithArgs("neu@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO customers`).
		WithArgs(pgxmock.AnyArg(), "Neu", "neu@example.com", "0611123456").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewRepository(mock)
	id, err := repo.UpsertCustomer(context.Background(), "Neu", "neu@example.com", "0611123456")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasConflict(t *testing.T) {
	startsAt := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		count int
		want  bool
	}{
		{name: "free slot", count: 0, want: false},
		{name: "occupied slot", count: 1, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments`).
				WithArgs("Wiesbaden", StatusCancelled, startsAt.Add(-collisionWindow), startsAt.Add(collisionWindow)).
				WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(tt.count))

			repo := NewRepository(mock)
			got, err := repo.HasConflict(context.Background(), "Wiesbaden", startsAt, collisionWindow)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCancel_NotFound(t *testing.T) {
	mock := newMock(t)
	id := uuid.New()
	mock.ExpectExec(`UPDATE appointments SET status`).
		WithArgs(StatusCancelled, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewRepository(mock)
	err := repo.Cancel(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_Success(t *testing.T) {
	mock := newMock(t)
	id := uuid.New()
	mock.ExpectExec(`UPDATE appointments SET status`).
		WithArgs(StatusCancelled, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewRepository(mock)
	err := repo.Cancel(context.Background(), id)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
