package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REDIS EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// RedisClient defines the pub/sub operations the bus needs.
// persistence/redis.PubSub implements it on top of go-redis.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channels ...string) (<-chan RedisMessage, error)
	Close() error
}

// RedisMessage represents a message received from Redis Pub/Sub.
type RedisMessage struct {
	Channel string
	Payload string
	Err     error
}

// RedisEventBus publishes every event to a Redis channel and delivers events
// from other registrar instances to local handlers.
type RedisEventBus struct {
	client         RedisClient
	localBus       *InMemoryEventBus
	channelName    string
	instanceID     string
	publishTimeout time.Duration
	logger         *slog.Logger
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	mu             sync.RWMutex
	closed         bool
}

// RedisEventBusConfig contains configuration for RedisEventBus.
type RedisEventBusConfig struct {
	// Client is the Redis client to use
	Client RedisClient

	// ChannelName is the Redis channel for events (default: "registrar:events")
	ChannelName string

	// InstanceID identifies this process so it can skip its own echoes.
	InstanceID string

	// PublishTimeout bounds a single Redis publish (default: 2s).
	PublishTimeout time.Duration

	// LocalBusConfig is the config for the local in-memory bus
	LocalBusConfig InMemoryEventBusConfig

	// Logger for structured logging
	Logger *slog.Logger
}

// NewRedisEventBus creates a new Redis-based event bus and starts listening.
func NewRedisEventBus(config RedisEventBusConfig) (*RedisEventBus, error) {
	if config.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if config.ChannelName == "" {
		config.ChannelName = "registrar:events"
	}
	if config.InstanceID == "" {
		config.InstanceID = generateInstanceID()
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = 2 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.LocalBusConfig.Logger == nil {
		config.LocalBusConfig.Logger = config.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &RedisEventBus{
		client:         config.Client,
		localBus:       NewInMemoryEventBus(config.LocalBusConfig),
		channelName:    config.ChannelName,
		instanceID:     config.InstanceID,
		publishTimeout: config.PublishTimeout,
		logger:         config.Logger,
		ctx:            ctx,
		cancel:         cancel,
	}

	if err := bus.startSubscriber(); err != nil {
		cancel()
		return nil, fmt.Errorf("start subscriber: %w", err)
	}

	return bus, nil
}

// Subscribe registers a handler for a specific event type.
func (b *RedisEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	return b.localBus.Subscribe(eventType, handler)
}

// SubscribeAll registers a handler for all events.
func (b *RedisEventBus) SubscribeAll(handler shared.EventHandler) error {
	return b.localBus.SubscribeAll(handler)
}

// Publish sends an event to Redis and to local handlers.
// A Redis failure is logged; local delivery still happens.
func (b *RedisEventBus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}
	b.mu.RUnlock()

	envelope := eventEnvelope{
		InstanceID:  b.instanceID,
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     event.Payload(),
	}
	if t, ok := event.(shared.Traceable); ok {
		envelope.EventID = t.EventID()
		envelope.CorrelationID = t.Correlation()
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(b.ctx, b.publishTimeout)
	defer cancel()
	if err := b.client.Publish(ctx, b.channelName, string(data)); err != nil {
		b.logger.Error("failed to publish to redis", "event_type", event.EventType(), "error", err)
	}

	return b.localBus.Publish(event)
}

// startSubscriber starts the Redis subscription listener.
func (b *RedisEventBus) startSubscriber() error {
	messages, err := b.client.Subscribe(b.ctx, b.channelName)
	if err != nil {
		return err
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.subscriptionLoop(messages)
	}()

	return nil
}

// subscriptionLoop processes messages from Redis.
func (b *RedisEventBus) subscriptionLoop(messages <-chan RedisMessage) {
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if msg.Err != nil {
				b.logger.Error("redis subscription error", "error", msg.Err)
				continue
			}

			b.handleRedisMessage(msg)
		}
	}
}

// handleRedisMessage processes a message from Redis.
func (b *RedisEventBus) handleRedisMessage(msg RedisMessage) {
	var envelope eventEnvelope
	if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
		b.logger.Error("failed to unmarshal event", "error", err)
		return
	}

	// Skip events from self (already processed locally)
	if envelope.InstanceID == b.instanceID {
		return
	}

	event := &remoteEvent{
		eventID:       envelope.EventID,
		correlationID: envelope.CorrelationID,
		eventType:     envelope.EventType,
		aggregateID:   envelope.AggregateID,
		occurredAt:    envelope.OccurredAt,
		payload:       envelope.Payload,
	}

	if err := b.localBus.Publish(event); err != nil {
		b.logger.Error("failed to process remote event", "error", err)
	}
}

// Close stops the listener, closes the local bus and the Redis client.
func (b *RedisEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()

	if err := b.localBus.Close(); err != nil {
		b.logger.Error("failed to close local bus", "error", err)
	}

	return b.client.Close()
}

// Metrics returns the current metrics from the local bus.
func (b *RedisEventBus) Metrics() *EventBusMetrics {
	return b.localBus.Metrics()
}

// InstanceID returns the id stamped on every outgoing envelope.
func (b *RedisEventBus) InstanceID() string {
	return b.instanceID
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENT ENVELOPE (for serialization)
// ══════════════════════════════════════════════════════════════════════════════

type eventEnvelope struct {
	InstanceID    string                 `json:"instance_id"`
	EventID       string                 `json:"event_id,omitempty"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	EventType     shared.EventType       `json:"event_type"`
	AggregateID   string                 `json:"aggregate_id"`
	OccurredAt    time.Time              `json:"occurred_at"`
	Payload       map[string]interface{} `json:"payload"`
}

// remoteEvent is an event received from another instance. It keeps the
// sender's ids so every instance journals the same event_id.
type remoteEvent struct {
	eventID       string
	correlationID string
	eventType     shared.EventType
	aggregateID   string
	occurredAt    time.Time
	payload       map[string]interface{}
}

var _ shared.Traceable = (*remoteEvent)(nil)

func (e *remoteEvent) EventID() string {
	return e.eventID
}

func (e *remoteEvent) Correlation() string {
	return e.correlationID
}

func (e *remoteEvent) EventType() shared.EventType {
	return e.eventType
}

func (e *remoteEvent) AggregateID() string {
	return e.aggregateID
}

func (e *remoteEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func (e *remoteEvent) Payload() map[string]interface{} {
	return e.payload
}

func generateInstanceID() string {
	return "registrar-" + uuid.NewString()
}
