package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"parishevents/internal/domain"

	"github.com/stretchr/testify/require"
)

var registrantTestColumns = []string{
	"id", "event_id", "full_name", "saint_name", "role_name", "portrait_url", "team_id",
	"second_day_only", "selected_attendance_day", "email", "phone", "invoice_code", "payment_status",
	"created_at", "updated_at",
}

func TestRegistrantRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("success with role and nulls", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(registrantTestColumns).
			AddRow("reg-1", "event-1", "Nguyễn Văn An", "Giuse", "Ban Tổ Chức", nil, nil,
				false, nil, "an@example.com", nil, "HD-ABC12345", "verified", created, created)
		mock.ExpectQuery(`SELECT .+ FROM registrants WHERE id`).
			WithArgs("reg-1").
			WillReturnRows(rows)

		repo := NewRegistrantRepository(db)
		reg, err := repo.GetByID(ctx, "reg-1")
		require.NoError(t, err)
		require.Equal(t, "Nguyễn Văn An", reg.FullName)
		require.Equal(t, "Giuse", reg.SaintName)
		require.NotNil(t, reg.EventRole)
		require.Equal(t, "Ban Tổ Chức", reg.EventRole.Name)
		require.Empty(t, reg.TeamID)
		require.Empty(t, reg.Phone)
		require.Equal(t, domain.PaymentVerified, reg.PaymentStatus)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM registrants WHERE id`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewRegistrantRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrantRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate invoice code", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO registrants`).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewRegistrantRepository(db)
		err = repo.Create(ctx, &domain.Registrant{
			EventID:       "event-1",
			FullName:      "Trần Thị Bích",
			InvoiceCode:   "HD-DUP00001",
			PaymentStatus: domain.PaymentPending,
		})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrantRepository_ListByIDs_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// DB returns rows in storage order; the repo must reorder to the caller's ids.
	rows := sqlmock.NewRows(registrantTestColumns).
		AddRow("reg-1", "event-1", "An", nil, nil, nil, nil, false, nil, nil, nil, "HD-1", "pending", created, created).
		AddRow("reg-2", "event-1", "Bích", nil, nil, nil, nil, false, nil, nil, nil, "HD-2", "pending", created, created).
		AddRow("reg-3", "event-1", "Cường", nil, nil, nil, nil, false, nil, nil, nil, "HD-3", "pending", created, created)
	mock.ExpectQuery(`SELECT .+ FROM registrants WHERE id = ANY`).
		WillReturnRows(rows)

	repo := NewRegistrantRepository(db)
	regs, err := repo.ListByIDs(ctx, []string{"reg-3", "reg-1", "reg-2"})
	require.NoError(t, err)
	require.Len(t, regs, 3)
	require.Equal(t, "reg-3", regs[0].ID)
	require.Equal(t, "reg-1", regs[1].ID)
	require.Equal(t, "reg-2", regs[2].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrantRepository_SetPaymentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE registrants SET payment_status`).
			WithArgs(domain.PaymentVerified, "reg-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewRegistrantRepository(db)
		require.NoError(t, repo.SetPaymentStatus(ctx, "reg-1", domain.PaymentVerified))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE registrants SET payment_status`).
			WithArgs(domain.PaymentVerified, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewRegistrantRepository(db)
		err = repo.SetPaymentStatus(ctx, "missing", domain.PaymentVerified)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
