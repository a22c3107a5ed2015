package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/pkg/dbmetrics"
)

var testTime = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func bookingRow(id int64, status string, driverID interface{}) []driver.Value {
	return []driver.Value{
		id, "LF2025000123", int64(3), driverID, int64(21), int64(22),
		"standard", status, "online", "pending",
		"10.000", "100.00", "25.00", "27.50", "15.50", "10.20", "2.00", "6.42", "86.62",
		testTime, nil, nil, nil, testTime, testTime,
	}
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newBooking() *domain.Booking {
	return &domain.Booking{
		TrackingNumber:      "LF2025000123",
		CustomerID:          3,
		PickupLocationID:    21,
		DeliveryLocationID:  22,
		ServiceType:         domain.ServiceStandard,
		Status:              domain.StatusPending,
		PaymentMethod:       domain.PaymentOnline,
		PaymentStatus:       domain.PaymentPending,
		ScheduledPickupTime: testTime,
		Breakdown: domain.Breakdown{
			TotalAmount: decimal.RequireFromString("86.62"),
		},
	}
}

func TestCreate(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (tracking_number,customer_id,")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), testTime, testTime))

	b, err := NewRepository(db).Create(context.Background(), newBooking())
	require.NoError(t, err)
	assert.Equal(t, int64(5), b.ID)
	assert.Equal(t, testTime, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateTrackingNumber(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_tracking_number_key"})

	_, err := NewRepository(db).Create(context.Background(), newBooking())
	assert.ErrorIs(t, err, ErrDuplicateTrackingNumber)
	assert.NotErrorIs(t, err, ErrExecQuery)
}

func TestCreate_OtherUniqueViolation(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_pkey"})

	_, err := NewRepository(db).Create(context.Background(), newBooking())
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrDuplicateTrackingNumber)
}

func TestGetByID(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(bookingRow(5, "assigned", int64(7))...))

	b, err := NewRepository(db).GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, b.Status)
	require.NotNil(t, b.DriverID)
	assert.Equal(t, int64(7), *b.DriverID)
	assert.Equal(t, "86.62", b.TotalAmount.StringFixed(2))
	assert.True(t, b.TotalAmount.Equal(b.ComponentsSum()))
	assert.Nil(t, b.ActualPickupTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery("FROM bookings").WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := NewRepository(db).GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByIDForUpdate_LocksInsideTransaction(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(bookingRow(5, "pending", nil)...))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	b, err := NewRepository(db).GetByIDForUpdate(dbmetrics.WithTx(context.Background(), tx), 5)
	require.NoError(t, err)
	assert.Nil(t, b.DriverID)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_StampsActualTimes(t *testing.T) {
	tests := []struct {
		status domain.BookingStatus
		query  string
		args   []driver.Value
	}{
		{
			status: domain.StatusPickedUp,
			query:  "UPDATE bookings SET status = $1, updated_at = $2, actual_pickup_time = $3 WHERE id = $4",
			args:   []driver.Value{"picked_up", testTime, testTime, int64(5)},
		},
		{
			status: domain.StatusDelivered,
			query:  "UPDATE bookings SET status = $1, updated_at = $2, actual_delivery_time = $3 WHERE id = $4",
			args:   []driver.Value{"delivered", testTime, testTime, int64(5)},
		},
		{
			status: domain.StatusInTransit,
			query:  "UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3",
			args:   []driver.Value{"in_transit", testTime, int64(5)},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			db, mock := newMock(t)

			mock.ExpectExec(regexp.QuoteMeta(tt.query)).
				WithArgs(tt.args...).
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, NewRepository(db).UpdateStatus(context.Background(), 5, tt.status, testTime))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewRepository(db).UpdateStatus(context.Background(), 5, domain.StatusConfirmed, testTime)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatus_ExecErrorKeepsCause(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("UPDATE bookings").WillReturnError(context.DeadlineExceeded)

	err := NewRepository(db).UpdateStatus(context.Background(), 5, domain.StatusConfirmed, testTime)
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAssignDriver_Conditional(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		wantErr      error
	}{
		{name: "pending booking without driver", rowsAffected: 1},
		{name: "booking not eligible", rowsAffected: 0, wantErr: ErrConditionNotMet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)

			mock.ExpectExec(regexp.QuoteMeta(
				"UPDATE bookings SET driver_id = $1, status = $2, updated_at = $3 WHERE driver_id IS NULL AND id = $4 AND status = $5",
			)).
				WithArgs(int64(7), "assigned", testTime, int64(5), "pending").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			err := NewRepository(db).AssignDriver(context.Background(), 5, 7, testTime)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET payment_status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("paid", testTime, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewRepository(db).UpdatePaymentStatus(context.Background(), 5, domain.PaymentPaid, testTime))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsTrackingNumberConflict(t *testing.T) {
	assert.True(t, isTrackingNumberConflict(&pq.Error{Code: "23505", Constraint: trackingNumberConstraint}))
	assert.False(t, isTrackingNumberConflict(&pq.Error{Code: "23503", Constraint: trackingNumberConstraint}))
	assert.False(t, isTrackingNumberConflict(errors.New("23505")))
	assert.False(t, isTrackingNumberConflict(nil))
}
