package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/LogiFlow-BookingService/internal/api/middleware"
	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/bookings"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/bookings/models"
	"github.com/m04kA/LogiFlow-BookingService/pkg/logger"
)

type fakeService struct {
	gotUser int64
	gotRole domain.Role
	err     error
}

func (f *fakeService) GetByID(_ context.Context, bookingID, userID int64, role domain.Role) (*models.BookingResponse, error) {
	f.gotUser, f.gotRole = userID, role
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: bookingID, TrackingNumber: "LF1"}, nil
}

func newRequest(id string, withUser bool) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id, nil)
	r = mux.SetURLVars(r, map[string]string{"bookingId": id})
	if withUser {
		r = r.WithContext(middleware.WithUser(r.Context(), 3, domain.RoleCustomer))
	}
	return r
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		withUser bool
		err      error
		wantCode int
	}{
		{name: "ok", id: "12", withUser: true, wantCode: http.StatusOK},
		{name: "bad id", id: "x", withUser: true, wantCode: http.StatusBadRequest},
		{name: "no user", id: "12", wantCode: http.StatusUnauthorized},
		{name: "not found", id: "12", withUser: true, err: bookings.ErrBookingNotFound, wantCode: http.StatusNotFound},
		{name: "foreign", id: "12", withUser: true, err: bookings.ErrAccessDenied, wantCode: http.StatusForbidden},
		{name: "internal", id: "12", withUser: true, err: bookings.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			h := NewHandler(svc, logger.Discard())
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.id, tt.withUser))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, int64(3), svc.gotUser)
				assert.Equal(t, domain.RoleCustomer, svc.gotRole)
			}
		})
	}
}
