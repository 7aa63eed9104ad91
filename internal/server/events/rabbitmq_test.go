package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	hadDeadline   bool
	publishErr    error
	closed        bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	_, f.hadDeadline = ctx.Deadline()
	return f.publishErr
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublishCompanyRegistered_Body(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, queue: "companies_log"}

	err := p.PublishCompanyRegistered(context.Background(), CompanyRegistered{
		CompanyID: 7, CNPJ: "123", Name: "Acme", ODS: "ODS 7", UserEmail: "u@x.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "", ch.exchange)
	assert.Equal(t, "companies_log", ch.key)
	assert.True(t, ch.hadDeadline)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, CompanyRegisteredEvent, ch.msg.Type)

	var got CompanyRegistered
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, CompanyRegisteredEvent, got.Event)
	assert.Equal(t, int64(7), got.CompanyID)
	assert.Equal(t, "ODS 7", got.ODS)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestPublishCompanyRegistered_KeepsTimestamp(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, queue: "q"}
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, p.PublishCompanyRegistered(context.Background(), CompanyRegistered{OccurredAt: at}))
	assert.True(t, ch.msg.Timestamp.Equal(at))
}

func TestPublishCompanyRegistered_Error(t *testing.T) {
	boom := errors.New("channel closed")
	p := &AMQPPublisher{ch: &fakeChannel{publishErr: boom}, queue: "q"}

	err := p.PublishCompanyRegistered(context.Background(), CompanyRegistered{})
	assert.ErrorIs(t, err, boom)
}

func TestClose_ClosesChannel(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch}
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishCompanyRegistered(context.Background(), CompanyRegistered{}))
	assert.NoError(t, p.Close())
}
