package assign_driver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LogiFlow-BookingService/internal/api/middleware"
	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	assignDriver "github.com/m04kA/LogiFlow-BookingService/internal/usecase/assign_driver"
	"github.com/m04kA/LogiFlow-BookingService/pkg/logger"
)

type fakeUseCase struct {
	got *assignDriver.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *assignDriver.Request) (*assignDriver.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &assignDriver.Response{
		BookingID:      req.BookingID,
		TrackingNumber: "LF1",
		DriverID:       req.DriverID,
		Status:         string(domain.StatusAssigned),
	}, nil
}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/4/assign-driver", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"bookingId": "4"})
	return r.WithContext(middleware.WithUser(r.Context(), 1, domain.RoleAdmin))
}

func TestHandle_Assigns(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, logger.Discard())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(`{"driverId": 7}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), uc.got.BookingID)
	assert.Equal(t, int64(7), uc.got.DriverID)
	assert.Equal(t, int64(1), uc.got.ActorID)
	assert.Contains(t, rec.Body.String(), `"driverId":7`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{name: "bad body", body: `{"driverId": "seven"}`, wantCode: http.StatusBadRequest},
		{name: "invalid input", body: `{"driverId": 0}`, err: assignDriver.ErrInvalidInput, wantCode: http.StatusBadRequest},
		{name: "driver not found", body: `{"driverId": 7}`, err: assignDriver.ErrDriverNotFound, wantCode: http.StatusNotFound},
		{name: "driver busy", body: `{"driverId": 7}`, err: assignDriver.ErrDriverUnavailable, wantCode: http.StatusConflict},
		{name: "booking not pending", body: `{"driverId": 7}`, err: assignDriver.ErrBookingNotEligible, wantCode: http.StatusConflict},
		{name: "internal", body: `{"driverId": 7}`, err: assignDriver.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.Discard())
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.body))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
