package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_BusinessCounters(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry(), "booking-test")

	m.IncBookingCreated("express")
	m.IncBookingCreated("express")
	m.IncStatusTransition("delivered")
	m.IncDriverAssignment("conflict")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsCreated.WithLabelValues("express")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusTransitions.WithLabelValues("delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.driverAssignments.WithLabelValues("conflict")))
}

func TestMetrics_DBObservations(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry(), "booking-test")

	m.ObserveDBQuery("select", time.Millisecond, nil)
	m.ObserveDBQuery("select", time.Millisecond, sql.ErrNoRows)
	m.ObserveDBQuery("update", time.Millisecond, errors.New("boom"))
	m.SetDBPoolStats(sql.DBStats{OpenConnections: 5, InUse: 2, Idle: 3})

	assert.Equal(t, 2, testutil.CollectAndCount(m.dbQueryDuration))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbConnections.WithLabelValues("idle")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncBookingCreated("standard")
		m.ObserveHTTPRequest("GET", "/api/v1/bookings", 200, time.Millisecond)
		m.SetDBPoolStats(sql.DBStats{})
	})
}
