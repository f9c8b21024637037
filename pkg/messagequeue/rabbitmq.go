package messagequeue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

// RabbitMQService implements the Publisher interface using RabbitMQ.
// An amqp.Channel is not safe for concurrent publishing, so Publish serializes on mu.
// A channel closed by the broker is reopened on the next Publish, redialling if the
// connection is gone too.
type RabbitMQService struct {
	url      string
	conn     *amqp.Connection
	channel  *amqp.Channel
	mu       sync.Mutex
	declared map[string]bool
}

// NewRabbitMQServiceConfig contains options for creating a new RabbitMQService.
type NewRabbitMQServiceConfig struct {
	URL string
}

// NewRabbitMQService connects to RabbitMQ and opens a channel.
func NewRabbitMQService(cfg NewRabbitMQServiceConfig) (*RabbitMQService, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	return &RabbitMQService{url: cfg.URL, conn: conn, channel: ch, declared: make(map[string]bool)}, nil
}

// Publish sends a persistent message to a durable queue, declaring the queue on first use.
// If the channel has been closed, it is reopened and the message is sent once more.
func (s *RabbitMQService) Publish(ctx context.Context, queueName string, contentType string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.publishLocked(queueName, contentType, body)
	if err == nil || !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	if rerr := s.reopenLocked(); rerr != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", queueName, rerr)
	}
	return s.publishLocked(queueName, contentType, body)
}

func (s *RabbitMQService) publishLocked(queueName string, contentType string, body []byte) error {
	if s.channel == nil {
		return fmt.Errorf("no channel for queue %s: %w", queueName, amqp.ErrClosed)
	}
	if !s.declared[queueName] {
		_, err := s.channel.QueueDeclare(
			queueName, // name
			true,      // durable
			false,     // delete when unused
			false,     // exclusive
			false,     // no-wait
			nil,       // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}
		s.declared[queueName] = true
	}

	err := s.channel.Publish(
		"",        // exchange
		queueName, // routing key (queue name)
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  contentType,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", queueName, err)
	}
	return nil
}

// reopenLocked replaces the channel, redialling when the connection is closed.
// Queue declarations are forgotten so they are repeated on the new channel.
func (s *RabbitMQService) reopenLocked() error {
	s.declared = make(map[string]bool)
	if s.channel != nil {
		s.channel.Close()
		s.channel = nil
	}
	if s.conn != nil {
		ch, err := s.conn.Channel()
		if err == nil {
			s.channel = ch
			return nil
		}
		if !errors.Is(err, amqp.ErrClosed) {
			return fmt.Errorf("failed to reopen channel: %w", err)
		}
		s.conn.Close()
		s.conn = nil
	}
	if s.url == "" {
		return fmt.Errorf("failed to reopen channel: %w", amqp.ErrClosed)
	}
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}
	s.conn, s.channel = conn, ch
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (s *RabbitMQService) Close() error {
	var lastErr error
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			lastErr = err
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
