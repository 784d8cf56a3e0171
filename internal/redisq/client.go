// Package redisq consumes mockup render requests from a Redis stream and
// publishes rendered results.
package redisq

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/frameshot/mockup-renderer/internal/config"
	"github.com/frameshot/mockup-renderer/pkg/models"
)

// Client wraps the Redis client for stream and pub/sub operations
type Client struct {
	client   *redis.Client
	config   config.RedisConfig
	consumer string
	logger   *zap.Logger
	ctx      context.Context
}

// NewClient creates a new Redis client and initializes the consumer group
func NewClient(cfg config.RedisConfig, logger *zap.Logger) (*Client, error) {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("%s-%d", hostname, time.Now().UnixNano())

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
	})

	ctx := context.Background()

	// Test the connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	client := &Client{
		client:   rdb,
		config:   cfg,
		consumer: consumerName,
		logger:   logger,
		ctx:      ctx,
	}

	logger.Info("Connected to Redis",
		zap.String("addr", cfg.Addr),
		zap.String("stream", cfg.Stream),
		zap.String("group", cfg.Group),
		zap.String("consumer", consumerName))

	if err := client.initializeConsumerGroup(); err != nil {
		logger.Warn("Failed to initialize consumer group (may already exist)", zap.Error(err))
	}

	return client, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Redis returns the underlying client, shared with the render cache.
func (c *Client) Redis() *redis.Client {
	return c.client
}

// PublishResult publishes a mockup result to the request's reply channel
func (c *Client) PublishResult(result *models.MockupResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal mockup result: %w", err)
	}

	channel := fmt.Sprintf("mockups:results:%s", result.UUID)

	if err := c.client.Publish(c.ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis channel %s: %w", channel, err)
	}

	c.logger.Debug("Published mockup result",
		zap.String("channel", channel),
		zap.String("uuid", result.UUID),
		zap.String("device", result.Device))

	return nil
}

// initializeConsumerGroup creates the consumer group for the request stream
func (c *Client) initializeConsumerGroup() error {
	// "0" starts from the beginning; "$" would start from new messages only
	err := c.client.XGroupCreateMkStream(c.ctx, c.config.Stream, c.config.Group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	c.logger.Info("Consumer group initialized",
		zap.String("stream", c.config.Stream),
		zap.String("group", c.config.Group))

	return nil
}

// ReadFromStream reads pending requests using the consumer group
func (c *Client) ReadFromStream(ctx context.Context, count int64, block time.Duration) ([]redis.XStream, error) {
	// ">" delivers only messages not yet claimed by another consumer
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.config.Group,
		Consumer: c.consumer,
		Streams:  []string{c.config.Stream, ">"},
		Count:    count,
		Block:    block,
		NoAck:    false,
	}).Result()

	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	return streams, nil
}

// AcknowledgeMessage acknowledges a message from the stream
func (c *Client) AcknowledgeMessage(ctx context.Context, messageID string) error {
	err := c.client.XAck(ctx, c.config.Stream, c.config.Group, messageID).Err()
	if err != nil {
		return fmt.Errorf("failed to acknowledge message %s: %w", messageID, err)
	}
	return nil
}

// IsHealthy checks if Redis connection is healthy
func (c *Client) IsHealthy() bool {
	return c.client.Ping(c.ctx).Err() == nil
}
