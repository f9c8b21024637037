package messagequeue

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRabbitMQPublish(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL not set")
	}
	svc, err := NewRabbitMQService(NewRabbitMQServiceConfig{URL: url})
	require.NoError(t, err)
	defer svc.Close()

	queue := "wanderlist.test." + uuid.NewString()
	require.NoError(t, svc.Publish(context.Background(), queue, "application/json", []byte(`{"ok":true}`)))
	require.NoError(t, svc.Publish(context.Background(), queue, "application/json", []byte(`{"ok":true}`)))

	n, err := svc.channel.QueueDelete(queue, false, false, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPublishHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := &RabbitMQService{declared: map[string]bool{}}
	assert.ErrorIs(t, svc.Publish(ctx, "q", "text/plain", nil), context.Canceled)
}

func TestNewRabbitMQServiceBadURL(t *testing.T) {
	_, err := NewRabbitMQService(NewRabbitMQServiceConfig{URL: "not-a-url"})
	assert.Error(t, err)
}

func TestRabbitMQPublishReopensClosedChannel(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL not set")
	}
	svc, err := NewRabbitMQService(NewRabbitMQServiceConfig{URL: url})
	require.NoError(t, err)
	defer svc.Close()

	queue := "wanderlist.test." + uuid.NewString()
	require.NoError(t, svc.Publish(context.Background(), queue, "text/plain", []byte("one")))

	require.NoError(t, svc.channel.Close())
	require.NoError(t, svc.Publish(context.Background(), queue, "text/plain", []byte("two")))

	require.NoError(t, svc.conn.Close())
	require.NoError(t, svc.Publish(context.Background(), queue, "text/plain", []byte("three")))

	n, err := svc.channel.QueueDelete(queue, false, false, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPublishWithoutChannelRedials(t *testing.T) {
	svc := &RabbitMQService{url: "amqp://127.0.0.1:1/", declared: map[string]bool{"q": true}}
	err := svc.Publish(context.Background(), "q", "text/plain", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reconnect")
	assert.Empty(t, svc.declared)

	svc = &RabbitMQService{declared: map[string]bool{}}
	assert.ErrorIs(t, svc.Publish(context.Background(), "q", "text/plain", nil), amqp.ErrClosed)
}
