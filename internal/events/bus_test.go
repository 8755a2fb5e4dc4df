package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newProductEvents(t *testing.T) []domain.Event {
	t.Helper()
	p, err := domain.NewProduct("Widget", "A widget", domain.MustMoney("9.99", "USD"), 3, uuid.New())
	require.NoError(t, err)
	require.NoError(t, p.UpdateStock(7))
	return p.PullEvents()
}

func TestBus_TypedHandlersRunBeforeGlobal(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.SubscribeAll(func(_ context.Context, e domain.Event) error {
		calls = append(calls, "all:"+string(e.EventType()))
		return nil
	})
	bus.Subscribe(domain.EventProductStockUpdated, func(_ context.Context, e domain.Event) error {
		calls = append(calls, "typed:"+string(e.EventType()))
		return nil
	})

	require.NoError(t, bus.Dispatch(context.Background(), newProductEvents(t)))

	assert.Equal(t, []string{
		"all:product.created",
		"typed:product.stock_updated",
		"all:product.stock_updated",
	}, calls)
	assert.Equal(t, 2, bus.HandlerCount())
}

func TestBus_DispatchStopsAtFirstError(t *testing.T) {
	bus := NewBus()
	boom := errors.New("boom")
	seen := 0

	bus.SubscribeAll(func(context.Context, domain.Event) error {
		seen++
		return boom
	})

	err := bus.Dispatch(context.Background(), newProductEvents(t))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, seen)
}

func TestLogHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := NewBus()
	bus.SubscribeAll(LogHandler(zap.New(core)))

	events := newProductEvents(t)
	require.NoError(t, bus.Dispatch(context.Background(), events))

	entries := logs.FilterMessage("Domain event dispatched").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "product.created", entries[0].ContextMap()["type"])
	assert.Equal(t, events[0].AggregateID().String(), entries[0].ContextMap()["aggregate_id"])
}

type recordingChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

func (c *recordingChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return nil
}

func (c *recordingChannel) Close() error { return nil }

func TestAMQPPublisher_PublishesEnvelope(t *testing.T) {
	ch := &recordingChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "catalog.events"}

	events := newProductEvents(t)
	require.NoError(t, p.Handle(context.Background(), events[1]))

	assert.Equal(t, "catalog.events", ch.exchange)
	assert.Equal(t, "product.stock_updated", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var env struct {
		Type        string    `json:"type"`
		AggregateID uuid.UUID `json:"aggregateId"`
		Payload     struct {
			OldStock int `json:"oldStock"`
			NewStock int `json:"newStock"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &env))
	assert.Equal(t, "product.stock_updated", env.Type)
	assert.Equal(t, events[1].AggregateID(), env.AggregateID)
	assert.Equal(t, 3, env.Payload.OldStock)
	assert.Equal(t, 7, env.Payload.NewStock)
}
