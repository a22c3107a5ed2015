package list_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func (f *fakeService) ListBookings(_ context.Context, userID int64, role domain.Role) (*models.BookingListResponse, error) {
	f.gotUser, f.gotRole = userID, role
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{
		{ID: 2, TrackingNumber: "LF2"},
		{ID: 1, TrackingNumber: "LF1"},
	}}, nil
}

func newRequest(withUser bool) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	if withUser {
		r = r.WithContext(middleware.WithUser(r.Context(), 7, domain.RoleDriver))
	}
	return r
}

func TestHandle_ListsForUserAndRole(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.Discard())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotUser)
	assert.Equal(t, domain.RoleDriver, svc.gotRole)
	assert.Contains(t, rec.Body.String(), `"trackingNumber":"LF2"`)
	assert.Contains(t, rec.Body.String(), `"trackingNumber":"LF1"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		withUser bool
		err      error
		wantCode int
	}{
		{name: "no user", wantCode: http.StatusUnauthorized},
		{name: "unknown role", withUser: true, err: bookings.ErrInvalidRole, wantCode: http.StatusBadRequest},
		{name: "internal", withUser: true, err: bookings.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			h := NewHandler(svc, logger.Discard())
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.withUser))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "bookings:")
		})
	}
}
