package update_payment_status

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
	"github.com/m04kA/LogiFlow-BookingService/internal/service/bookings"
	"github.com/m04kA/LogiFlow-BookingService/internal/service/bookings/models"
	"github.com/m04kA/LogiFlow-BookingService/pkg/logger"
)

type fakeService struct {
	got *models.UpdatePaymentStatusRequest
	err error
}

func (f *fakeService) UpdatePaymentStatus(_ context.Context, req *models.UpdatePaymentStatusRequest) (*models.PaymentStatusResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.PaymentStatusResponse{BookingID: req.BookingID, PaymentStatus: req.Status}, nil
}

func newRequest(id, body string, withUser bool) *http.Request {
	r := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/"+id+"/payment", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"bookingId": id})
	if withUser {
		r = r.WithContext(middleware.WithUser(r.Context(), 1, domain.RoleAdmin))
	}
	return r
}

func TestHandle_UpdatesPayment(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.Discard())

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("4", `{"paymentStatus": "paid"}`, true))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(4), svc.got.BookingID)
	assert.Equal(t, int64(1), svc.got.ActorID)
	assert.Equal(t, "paid", svc.got.Status)
	assert.Contains(t, rec.Body.String(), `"paymentStatus":"paid"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		body     string
		withUser bool
		err      error
		wantCode int
	}{
		{name: "bad id", id: "x", body: `{"paymentStatus": "paid"}`, withUser: true, wantCode: http.StatusBadRequest},
		{name: "no user", id: "4", body: `{"paymentStatus": "paid"}`, wantCode: http.StatusUnauthorized},
		{name: "bad body", id: "4", body: `{"paymentStatus": 1}`, withUser: true, wantCode: http.StatusBadRequest},
		{name: "unknown status", id: "4", body: `{"paymentStatus": "void"}`, withUser: true, err: bookings.ErrInvalidInput, wantCode: http.StatusUnprocessableEntity},
		{name: "not found", id: "4", body: `{"paymentStatus": "paid"}`, withUser: true, err: bookings.ErrBookingNotFound, wantCode: http.StatusNotFound},
		{name: "internal", id: "4", body: `{"paymentStatus": "paid"}`, withUser: true, err: bookings.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			h := NewHandler(svc, logger.Discard())
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.id, tt.body, tt.withUser))
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.err == nil {
				assert.Nil(t, svc.got)
			}
		})
	}
}
