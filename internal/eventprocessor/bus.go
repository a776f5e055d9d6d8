// Songrec - Song Recommendation Client Controller
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songrec

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/songrec/internal/logging"
	"github.com/tomtom215/songrec/internal/metrics"
)

// Bus topics.
const (
	TopicAvailability = "songrec.availability"
	TopicNotices      = "songrec.notices"
	TopicViewState    = "songrec.view"
)

// Message metadata keys.
const (
	MetadataMessageType   = "message_type"
	MetadataCorrelationID = "correlation_id"
	MetadataPublishedAt   = "published_at"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus closed")

// Config holds bus buffering and handler retry settings.
type Config struct {
	// OutputBuffer is the per-subscriber channel size.
	OutputBuffer int64

	// CloseTimeout bounds how long in-flight handlers may run on shutdown.
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		OutputBuffer:         256,
		CloseTimeout:         5 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     time.Second,
	}
}

type consumer struct {
	name    string
	topic   string
	handler message.NoPublishHandlerFunc
}

// Bus is an in-process publish/subscribe channel with a Watermill router in
// front of its consumers.
type Bus struct {
	cfg    Config
	logger watermill.LoggerAdapter
	pubsub *gochannel.GoChannel

	mu        sync.Mutex
	consumers []consumer
	closed    bool
}

// NewBus creates a bus. Consumers are added with AddConsumer before Serve.
func NewBus(cfg Config) (*Bus, error) {
	if cfg.OutputBuffer < 0 {
		return nil, fmt.Errorf("output buffer must be non-negative, got %d", cfg.OutputBuffer)
	}
	logger := NewZerologAdapter()
	return &Bus{
		cfg:    cfg,
		logger: logger,
		// Waiting for the ack keeps delivery in publish order.
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            cfg.OutputBuffer,
			BlockPublishUntilSubscriberAck: true,
		}, logger),
	}, nil
}

// AddConsumer registers handler for topic. It takes effect on the next Serve.
func (b *Bus) AddConsumer(name, topic string, handler message.NoPublishHandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consumers = append(b.consumers, consumer{name: name, topic: topic, handler: handler})
}

// Publish encodes data as JSON and publishes it on topic. It returns once
// every subscribed consumer has acked the message.
func (b *Bus) Publish(ctx context.Context, topic, messageType string, data interface{}) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrBusClosed
	}

	payload, err := json.Marshal(data)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("encode %s event: %w", messageType, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataMessageType, messageType)
	msg.Metadata.Set(MetadataPublishedAt, time.Now().UTC().Format(time.RFC3339Nano))
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}

	if err := b.pubsub.Publish(topic, msg); err != nil {
		metrics.EventsPublished.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("publish %s event: %w", messageType, err)
	}
	metrics.EventsPublished.WithLabelValues(topic, "ok").Inc()
	return nil
}

// PublishFunc returns a fire-and-forget publisher for hooks that have no
// context or error return. Failures are logged.
func (b *Bus) PublishFunc(topic, messageType string) func(data interface{}) {
	return func(data interface{}) {
		if err := b.Publish(context.Background(), topic, messageType, data); err != nil && !errors.Is(err, ErrBusClosed) {
			logging.Warn().Err(err).Str("topic", topic).Msg("Event publish failed")
		}
	}
}

// Serve runs a router over the registered consumers until ctx is canceled.
// It implements suture.Service; each restart builds a fresh router.
func (b *Bus) Serve(ctx context.Context) error {
	router, err := b.newRouter()
	if err != nil {
		return err
	}

	err = router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("event router stopped unexpectedly")
	}
	return err
}

// String implements fmt.Stringer for suture logging.
func (b *Bus) String() string {
	return "event-bus"
}

// Close stops delivery to all subscribers. Later publishes fail with ErrBusClosed.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()
	return b.pubsub.Close()
}

func (b *Bus) newRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: b.cfg.CloseTimeout}, b.logger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	// Outermost: messages that still fail after retries are dropped, never nacked.
	router.AddMiddleware(b.dropFailed)
	router.AddMiddleware(middleware.Recoverer)
	if b.cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      b.cfg.RetryMaxRetries,
			InitialInterval: b.cfg.RetryInitialInterval,
			MaxInterval:     b.cfg.RetryMaxInterval,
			Multiplier:      2.0,
			Logger:          b.logger,
		}
		router.AddMiddleware(retry.Middleware)
	}

	b.mu.Lock()
	consumers := append([]consumer(nil), b.consumers...)
	b.mu.Unlock()

	for _, c := range consumers {
		name := c.name
		handler := c.handler
		router.AddConsumerHandler(name, c.topic, b.pubsub, func(msg *message.Message) error {
			metrics.EventsHandled.WithLabelValues(name).Inc()
			return handler(msg)
		})
	}
	return router, nil
}

func (b *Bus) dropFailed(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		out, err := h(msg)
		if err != nil {
			b.logger.Error("Dropping event after failed handling", err, watermill.LogFields{
				"message_uuid": msg.UUID,
				"message_type": msg.Metadata.Get(MetadataMessageType),
			})
			metrics.EventsDropped.Inc()
			return nil, nil
		}
		return out, nil
	}
}
