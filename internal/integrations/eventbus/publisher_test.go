package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	declared   []string
	kind       string
	published  []published
	publishErr error
	declareErr error
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp091.Table) error {
	if c.declareErr != nil {
		return c.declareErr
	}
	c.declared = append(c.declared, name)
	c.kind = kind
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestNewRabbitPublisher_DeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	_, err := NewRabbitPublisher(ch, "logiflow.bookings")
	require.NoError(t, err)
	assert.Equal(t, []string{"logiflow.bookings"}, ch.declared)
	assert.Equal(t, amqp091.ExchangeTopic, ch.kind)
}

func TestNewRabbitPublisher_DeclareError(t *testing.T) {
	_, err := NewRabbitPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "x")
	assert.ErrorIs(t, err, ErrConnect)
}

func TestPublish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewRabbitPublisher(ch, "logiflow.bookings")
	require.NoError(t, err)

	event := Event{
		Type:           EventCreated,
		BookingID:      5,
		TrackingNumber: "LF2025000123",
		Status:         "pending",
		OccurredAt:     time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "logiflow.bookings", got.exchange)
	assert.Equal(t, "booking.created", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, got.msg.DeliveryMode)

	var decoded Event
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, event, decoded)
}

func TestPublish_Error(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewRabbitPublisher(ch, "x")
	require.NoError(t, err)

	ch.publishErr = amqp091.ErrClosed
	err = p.Publish(context.Background(), Event{Type: EventStatusChanged})
	assert.ErrorIs(t, err, ErrPublish)
}

func TestClose_WithoutConnection(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewRabbitPublisher(ch, "x")
	require.NoError(t, err)
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), Event{Type: EventCreated}))
	assert.NoError(t, p.Close())
}
