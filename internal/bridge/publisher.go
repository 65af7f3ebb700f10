package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/capoala/mvvm/pkg/observable"
)

// PublishedChange is the payload published for each property change.
type PublishedChange struct {
	Object    string `json:"object"`
	Property  string `json:"property"`
	Value     any    `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

// PublisherConfig holds configuration for the Redis publisher
type PublisherConfig struct {
	// Client is the Redis client to use
	Client *redis.Client
	// Prefix is prepended to the object name to form the channel, as <prefix>:<object>
	Prefix string
	// Buffer is the number of changes queued before Watch observers block
	Buffer int
	// Logger receives publish failures
	Logger *zap.Logger
}

// Publisher republishes property changes of watched objects on Redis channels.
// Observers only queue the change; Run performs the network calls off the owner.
type Publisher struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
	queue  chan PublishedChange
	done   chan struct{}
	once   sync.Once
}

// NewPublisher creates a publisher.
func NewPublisher(config PublisherConfig) (*Publisher, error) {
	if config.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if config.Prefix == "" {
		return nil, errors.New("channel prefix is required")
	}
	if config.Buffer <= 0 {
		config.Buffer = 256
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &Publisher{
		client: config.Client,
		prefix: config.Prefix,
		logger: config.Logger,
		queue:  make(chan PublishedChange, config.Buffer),
		done:   make(chan struct{}),
	}, nil
}

// Channel returns the channel changes of object are published on.
func (p *Publisher) Channel(object string) string {
	return p.prefix + ":" + object
}

// Watch queues every property change of t for publication. Must be called on the owner.
func (p *Publisher) Watch(object string, t Target) observable.Subscription {
	return t.OnPropertyChanged(func(e observable.PropertyChange) {
		v, _ := t.PropertyValue(e.Name)
		change := PublishedChange{
			Object:    object,
			Property:  e.Name,
			Value:     v,
			Timestamp: time.Now().UnixMilli(),
		}
		select {
		case p.queue <- change:
		case <-p.done:
		}
	})
}

// Run publishes queued changes until ctx ends or Close is called.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			return nil
		case change := <-p.queue:
			if err := p.publish(ctx, change); err != nil {
				p.logger.Warn("failed to publish property change",
					zap.String("object", change.Object),
					zap.String("property", change.Property),
					zap.Error(err))
			}
		}
	}
}

func (p *Publisher) publish(ctx context.Context, change PublishedChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.Channel(change.Object), payload).Err()
}

// Close stops Run. Changes still queued are discarded.
func (p *Publisher) Close() {
	p.once.Do(func() { close(p.done) })
}
