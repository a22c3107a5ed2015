package update_booking_status

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/internal/integrations/eventbus"
	"github.com/m04kA/LogiFlow-BookingService/internal/testutil/memstore"
	"github.com/m04kA/LogiFlow-BookingService/pkg/logger"
	"github.com/m04kA/LogiFlow-BookingService/pkg/ptr"
)

var fixedNow = time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return fixedNow }

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e eventbus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type countingMetrics struct {
	transitions map[string]int
}

func (m *countingMetrics) IncStatusTransition(status string) {
	if m.transitions == nil {
		m.transitions = map[string]int{}
	}
	m.transitions[status]++
}

const (
	customerID int64 = 3
	driverID   int64 = 7
	adminID    int64 = 1
)

type fixture struct {
	store     *memstore.Store
	publisher *recordingPublisher
	metrics   *countingMetrics
	uc        *UseCase
}

func newFixture(strict bool) *fixture {
	f := &fixture{
		store:     memstore.New(),
		publisher: &recordingPublisher{},
		metrics:   &countingMetrics{},
	}
	f.uc = NewUseCase(
		f.store.Bookings(),
		f.store.TrackingRepo(),
		f.store.Drivers(),
		f.publisher,
		f.metrics,
		f.store.TxManager(),
		logger.Discard(),
		strict,
	).WithTimeProvider(fixedTime{})
	return f
}

func (f *fixture) addBooking(status domain.BookingStatus, driver *int64) int64 {
	return f.store.AddBooking(domain.Booking{
		TrackingNumber: "LF2025123456",
		CustomerID:     customerID,
		DriverID:       driver,
		ServiceType:    domain.ServiceStandard,
		Status:         status,
		PaymentMethod:  domain.PaymentOnline,
		PaymentStatus:  domain.PaymentPending,
		Breakdown: domain.Breakdown{
			TotalAmount: decimal.RequireFromString("86.62"),
		},
	})
}

func (f *fixture) addDriver(status domain.DriverStatus) {
	f.store.AddDriver(domain.Driver{
		UserID:              driverID,
		Status:              status,
		CommissionRate:      decimal.NewFromInt(15),
		TotalEarnings:       decimal.RequireFromString("100.00"),
		CompletedDeliveries: 4,
	})
}

func TestExecute_UpdatesStatusAndAppendsTracking(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusAssigned, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "picked_up", ActorID: driverID})
	require.NoError(t, err)

	assert.Equal(t, "assigned", resp.PreviousStatus)
	assert.Equal(t, "picked_up", resp.Status)
	assert.Equal(t, "LF2025123456", resp.TrackingNumber)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusPickedUp, b.Status)
	require.NotNil(t, b.ActualPickupTime)
	assert.Equal(t, fixedNow, *b.ActualPickupTime)
	assert.Nil(t, b.ActualDeliveryTime)

	tracking := f.store.Tracking(id)
	require.Len(t, tracking, 1)
	assert.Equal(t, "picked_up", tracking[0].Status)
	assert.Equal(t, "Status updated to picked_up", *tracking[0].Notes)
	assert.Equal(t, driverID, *tracking[0].UpdatedBy)
	assert.True(t, tracking[0].IsPublic)
	assert.Equal(t, domain.UpdateTypeStatus, tracking[0].UpdateType)

	d, _ := f.store.Driver(driverID)
	assert.Equal(t, domain.DriverBusy, d.Status)
	assert.Equal(t, 4, d.CompletedDeliveries)

	assert.Equal(t, 1, f.metrics.transitions["picked_up"])
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, eventbus.EventStatusChanged, f.publisher.events[0].Type)
	assert.Equal(t, "picked_up", f.publisher.events[0].Status)
}

func TestExecute_KeepsCustomNotes(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusInTransit, nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: id,
		Status:    "out_for_delivery",
		ActorID:   adminID,
		Notes:     ptr.Ptr("Arrived at the local hub"),
	})
	require.NoError(t, err)

	tracking := f.store.Tracking(id)
	require.Len(t, tracking, 1)
	assert.Equal(t, "Arrived at the local hub", *tracking[0].Notes)
}

func TestExecute_DeliveredCreditsDriver(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusOutForDelivery, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "delivered", ActorID: driverID})
	require.NoError(t, err)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusDelivered, b.Status)
	require.NotNil(t, b.ActualDeliveryTime)
	assert.Equal(t, fixedNow, *b.ActualDeliveryTime)

	d, _ := f.store.Driver(driverID)
	assert.Equal(t, 5, d.CompletedDeliveries)
	assert.Equal(t, "112.99", d.TotalEarnings.StringFixed(2))
	assert.Equal(t, domain.DriverAvailable, d.Status)
}

func TestExecute_DeliveredTwiceCreditsOnce(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusOutForDelivery, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)

	req := &Request{BookingID: id, Status: "delivered", ActorID: driverID}
	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	_, err = f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	d, _ := f.store.Driver(driverID)
	assert.Equal(t, 5, d.CompletedDeliveries)
	assert.Equal(t, "112.99", d.TotalEarnings.StringFixed(2))
	assert.Len(t, f.store.Tracking(id), 2)
}

func TestExecute_DeliveredWithoutDriverProfile(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusOutForDelivery, ptr.Ptr(driverID))

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "delivered", ActorID: adminID})
	require.NoError(t, err)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusDelivered, b.Status)
}

func TestExecute_CreditFailureRollsBackStatus(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusOutForDelivery, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)
	f.store.FailOn("driver.CreditDelivery", errors.New("connection reset"))

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "delivered", ActorID: driverID})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusOutForDelivery, b.Status)
	assert.Nil(t, b.ActualDeliveryTime)
	assert.Empty(t, f.store.Tracking(id))

	d, _ := f.store.Driver(driverID)
	assert.Equal(t, 4, d.CompletedDeliveries)
	assert.Equal(t, "100.00", d.TotalEarnings.StringFixed(2))

	assert.Empty(t, f.publisher.events)
	assert.Zero(t, f.metrics.transitions["delivered"])
}

func TestExecute_TrackingFailureRollsBack(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusConfirmed, nil)
	f.store.FailOn("tracking.Create", errors.New("disk full"))

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "in_transit", ActorID: adminID})
	assert.ErrorIs(t, err, ErrInternal)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
}

func TestExecute_InvalidStatus(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusPending, nil)

	for _, raw := range []string{"", "lost", "DELIVERED", "in transit"} {
		_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: raw, ActorID: adminID})
		assert.ErrorIs(t, err, ErrInvalidStatus, raw)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus, raw)
	}

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Empty(t, f.store.Tracking(id))
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(false)

	tests := []struct {
		name string
		req  *Request
	}{
		{"no booking", &Request{Status: "confirmed", ActorID: adminID}},
		{"no actor", &Request{BookingID: 1, Status: "confirmed"}},
		{"long notes", &Request{BookingID: 1, Status: "confirmed", ActorID: adminID, Notes: ptr.Ptr(string(make([]byte, domain.MaxNotesLength+1)))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture(false)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 404, Status: "confirmed", ActorID: adminID})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_PermissiveAllowsAnyTransition(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusDelivered, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "pending", ActorID: adminID})
	require.NoError(t, err)
	assert.Equal(t, "delivered", resp.PreviousStatus)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusPending, b.Status)
}

func TestExecute_StrictRejectsIllegalTransition(t *testing.T) {
	f := newFixture(true)
	id := f.addBooking(domain.StatusDelivered, nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "pending", ActorID: adminID})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, domain.ErrConflict)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusDelivered, b.Status)
	assert.Empty(t, f.store.Tracking(id))
}

func TestExecute_StrictAllowsForwardTransition(t *testing.T) {
	f := newFixture(true)
	id := f.addBooking(domain.StatusPickedUp, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "in_transit", ActorID: driverID})
	require.NoError(t, err)
}

func TestExecute_FailedReleasesDriver(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusInTransit, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "failed", ActorID: adminID})
	require.NoError(t, err)

	d, _ := f.store.Driver(driverID)
	assert.Equal(t, domain.DriverAvailable, d.Status)
	assert.Equal(t, 4, d.CompletedDeliveries)
}

func TestExecute_OfflineDriverStaysOffline(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusInTransit, ptr.Ptr(driverID))
	f.addDriver(domain.DriverOffline)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "cancelled", ActorID: adminID})
	require.NoError(t, err)

	d, _ := f.store.Driver(driverID)
	assert.Equal(t, domain.DriverOffline, d.Status)
}

func TestExecute_DriverCannotTouchForeignBooking(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusInTransit, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)

	otherDriver := driverID + 92
	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: id,
		Status:    "delivered",
		ActorID:   otherDriver,
		ActorRole: domain.RoleDriver,
	})
	assert.ErrorIs(t, err, ErrNotAssignedDriver)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusInTransit, b.Status)
	assert.Empty(t, f.store.Tracking(id))

	d, _ := f.store.Driver(driverID)
	assert.Equal(t, 4, d.CompletedDeliveries)
	assert.Equal(t, "100.00", d.TotalEarnings.StringFixed(2))
	assert.Equal(t, domain.DriverBusy, d.Status)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_DriverCannotTouchUnassignedBooking(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusPending, nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: id,
		Status:    "picked_up",
		ActorID:   driverID,
		ActorRole: domain.RoleDriver,
	})
	assert.ErrorIs(t, err, ErrNotAssignedDriver)
}

func TestExecute_AssignedDriverUpdatesOwnBooking(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusOutForDelivery, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: id,
		Status:    "delivered",
		ActorID:   driverID,
		ActorRole: domain.RoleDriver,
	})
	require.NoError(t, err)

	d, _ := f.store.Driver(driverID)
	assert.Equal(t, 5, d.CompletedDeliveries)
}

func TestExecute_AdminUpdatesAnyBooking(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusAssigned, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: id,
		Status:    "picked_up",
		ActorID:   adminID,
		ActorRole: domain.RoleAdmin,
	})
	require.NoError(t, err)
}

func TestExecute_ReopenedBookingDoesNotReleaseDriver(t *testing.T) {
	tests := []struct {
		name   string
		reopen string
	}{
		{name: "reopened as pending", reopen: "pending"},
		{name: "reopened as in_transit", reopen: "in_transit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false)
			id := f.addBooking(domain.StatusDelivered, ptr.Ptr(driverID))
			// водитель уже везет другой груз
			f.addBooking(domain.StatusPickedUp, ptr.Ptr(driverID))
			f.addDriver(domain.DriverBusy)

			_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: tt.reopen, ActorID: adminID})
			require.NoError(t, err)
			_, err = f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "cancelled", ActorID: adminID})
			require.NoError(t, err)

			d, _ := f.store.Driver(driverID)
			assert.Equal(t, domain.DriverBusy, d.Status)
		})
	}
}

func TestExecute_TerminalReleasesDriverWithoutOtherBookings(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusConfirmed, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "failed", ActorID: adminID})
	require.NoError(t, err)

	d, _ := f.store.Driver(driverID)
	assert.Equal(t, domain.DriverAvailable, d.Status)
}

func TestExecute_CountActiveFailureRollsBack(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusInTransit, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)
	f.store.FailOn("booking.CountActiveByDriver", errors.New("connection reset by peer"))

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: id, Status: "cancelled", ActorID: adminID})
	assert.ErrorIs(t, err, ErrInternal)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusInTransit, b.Status)
	assert.Empty(t, f.store.Tracking(id))
}

func TestCancel_ByOwner(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusAssigned, ptr.Ptr(driverID))
	f.addDriver(domain.DriverBusy)

	resp, err := f.uc.Cancel(context.Background(), &CancelRequest{BookingID: id, CustomerID: customerID})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusCancelled, b.Status)

	tracking := f.store.Tracking(id)
	require.Len(t, tracking, 1)
	assert.Equal(t, cancelledByCustomerNotes, *tracking[0].Notes)
	assert.Equal(t, customerID, *tracking[0].UpdatedBy)

	d, _ := f.store.Driver(driverID)
	assert.Equal(t, domain.DriverAvailable, d.Status)
}

func TestCancel_WithReason(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusPending, nil)

	_, err := f.uc.Cancel(context.Background(), &CancelRequest{BookingID: id, CustomerID: customerID, Reason: ptr.Ptr("Changed plans")})
	require.NoError(t, err)

	tracking := f.store.Tracking(id)
	require.Len(t, tracking, 1)
	assert.Equal(t, "Changed plans", *tracking[0].Notes)
}

func TestCancel_ForeignBooking(t *testing.T) {
	f := newFixture(false)
	id := f.addBooking(domain.StatusPending, nil)

	_, err := f.uc.Cancel(context.Background(), &CancelRequest{BookingID: id, CustomerID: customerID + 1})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	b, _ := f.store.Booking(id)
	assert.Equal(t, domain.StatusPending, b.Status)
}

func TestCancel_AfterPickup(t *testing.T) {
	f := newFixture(false)

	for _, status := range []domain.BookingStatus{domain.StatusPickedUp, domain.StatusInTransit, domain.StatusDelivered, domain.StatusCancelled} {
		id := f.addBooking(status, nil)

		_, err := f.uc.Cancel(context.Background(), &CancelRequest{BookingID: id, CustomerID: customerID})
		assert.ErrorIs(t, err, ErrCannotCancel, string(status))

		b, _ := f.store.Booking(id)
		assert.Equal(t, status, b.Status)
	}
	assert.Empty(t, f.publisher.events)
}
