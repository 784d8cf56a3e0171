package redisq

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/frameshot/mockup-renderer/internal/handlers"
	"github.com/frameshot/mockup-renderer/internal/mockup"
	"github.com/frameshot/mockup-renderer/pkg/models"
)

// Consumer pulls mockup requests from the Redis stream and renders them
type Consumer struct {
	client   *Client
	composer *mockup.Composer
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewConsumer creates a new stream consumer over the given composer
func NewConsumer(client *Client, composer *mockup.Composer, logger *zap.Logger) *Consumer {
	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		client:   client,
		composer: composer,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts consuming messages from the mockup request stream
func (c *Consumer) Start() error {
	c.logger.Info("Starting Redis consumer for mockup requests")

	for {
		select {
		case <-c.ctx.Done():
			c.logger.Info("Redis consumer stopped")
			return nil
		default:
			if err := c.consumeMessages(); err != nil {
				c.logger.Error("Error consuming messages, will retry",
					zap.Error(err),
					zap.Duration("retry_delay", 5*time.Second))
				time.Sleep(5 * time.Second)
				continue
			}
		}
	}
}

// Stop stops the consumer
func (c *Consumer) Stop() {
	c.logger.Info("Stopping Redis consumer")
	c.cancel()
}

// consumeMessages handles the actual message consumption from Redis Streams
func (c *Consumer) consumeMessages() error {
	c.logger.Info("Started consuming Redis stream messages")

	for {
		select {
		case <-c.ctx.Done():
			return nil
		default:
			streams, err := c.client.ReadFromStream(c.ctx, 10, 5*time.Second)
			if err != nil {
				if !c.client.IsHealthy() {
					return fmt.Errorf("Redis connection unhealthy, will reconnect")
				}
				c.logger.Error("Error reading from stream", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					c.handleStreamMessage(message)
				}
			}
		}
	}
}

// handleStreamMessage processes a single Redis Stream message
func (c *Consumer) handleStreamMessage(msg redis.XMessage) {
	c.logger.Debug("Received mockup request from stream",
		zap.String("message_id", msg.ID),
		zap.Int("fields_count", len(msg.Values)))

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error("Failed to extract payload from stream message",
			zap.String("message_id", msg.ID))
		// Acknowledge the message anyway to prevent reprocessing
		_ = c.client.AcknowledgeMessage(c.ctx, msg.ID)
		return
	}

	var request models.MockupRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		c.logger.Error("Failed to unmarshal mockup request",
			zap.Error(err),
			zap.String("message_id", msg.ID),
			zap.String("payload", payload))
		// Acknowledge the message to prevent reprocessing bad data
		_ = c.client.AcknowledgeMessage(c.ctx, msg.ID)
		return
	}

	result := c.render(&request)

	if err := c.client.PublishResult(result); err != nil {
		c.logger.Error("Failed to publish mockup result",
			zap.Error(err),
			zap.String("message_id", msg.ID),
			zap.String("uuid", request.UUID))
		// Don't acknowledge if we failed to publish - allow retry
		return
	}

	if err := c.client.AcknowledgeMessage(c.ctx, msg.ID); err != nil {
		c.logger.Error("Failed to acknowledge message",
			zap.Error(err),
			zap.String("message_id", msg.ID))
	} else {
		c.logger.Debug("Message processed and acknowledged",
			zap.String("message_id", msg.ID),
			zap.String("uuid", request.UUID))
	}
}

// render satisfies a queued request, reporting failures in the result
// instead of dropping the message.
func (c *Consumer) render(request *models.MockupRequest) *models.MockupResult {
	result := &models.MockupResult{
		Type:        "mockup_result",
		UUID:        request.UUID,
		ProcessedAt: time.Now(),
	}
	fail := func(err error) *models.MockupResult {
		c.logger.Error("Failed to render queued mockup",
			zap.Error(err),
			zap.String("uuid", request.UUID))
		result.Error = err.Error()
		return result
	}

	shot, err := base64.StdEncoding.DecodeString(request.Screenshot)
	if err != nil {
		return fail(fmt.Errorf("invalid base64 screenshot: %w", err))
	}
	img, err := imaging.Decode(bytes.NewReader(shot))
	if err != nil {
		return fail(fmt.Errorf("failed to decode screenshot: %w", err))
	}

	opts := handlers.OptionsFromRequest(request)
	if errs := handlers.ValidateOptions(opts); len(errs) > 0 {
		return fail(fmt.Errorf("invalid request: %s", errs[0].Message))
	}

	m, err := c.composer.CreateMockup(img, opts)
	if err != nil {
		return fail(err)
	}

	var buf bytes.Buffer
	if err := m.Encode(&buf, request.Format, request.Quality); err != nil {
		return fail(err)
	}

	result.Style = string(m.Style)
	result.Device = m.Device
	result.Width = m.Width
	result.Height = m.Height
	for _, col := range m.Palette {
		result.Palette = append(result.Palette, col.Hex())
	}
	result.Output = base64.StdEncoding.EncodeToString(buf.Bytes())
	return result
}
