package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"paygram/internal/model"
	"paygram/internal/service/mq"
	"paygram/pkg/logger"
)

const (
	relayInterval  = 500 * time.Millisecond
	relayBatchSize = 50
)

// RelayService drains the outbox into the message queue. Delivery is
// at-least-once: a message is marked SENT only after the broker accepts it,
// so a crash between publish and mark replays the message on restart.
type RelayService struct {
	db       *gorm.DB
	producer mq.Producer
}

func NewRelayService(db *gorm.DB, producer mq.Producer) *RelayService {
	return &RelayService{db: db, producer: producer}
}

// Start polls until ctx is cancelled. Call it in its own goroutine.
func (s *RelayService) Start(ctx context.Context) {
	logger.Info("outbox relay started",
		zap.Duration("interval", relayInterval),
		zap.Int("batch_size", relayBatchSize))

	ticker := time.NewTicker(relayInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if err := s.relayBatch(ctx); err != nil {
				logger.Error("relay batch failed", zap.Error(err))
			}
		}
	}
}

func (s *RelayService) relayBatch(ctx context.Context) error {
	var messages []model.OutboxMessage
	err := s.db.WithContext(ctx).
		Where("status = ?", model.OutboxStatusPending).
		Order("id ASC").
		Limit(relayBatchSize).
		Find(&messages).Error
	if err != nil {
		return err
	}

	for i := range messages {
		msg := &messages[i]
		if err := s.producer.Publish(ctx, msg.Topic, msg.Key, msg.Payload); err != nil {
			// Stop the batch; ordering within a topic matters and the next
			// tick retries from the oldest pending row.
			logger.Warn("publish outbox message failed",
				zap.Uint64("outbox_id", msg.ID),
				zap.String("topic", msg.Topic),
				zap.Error(err))
			return err
		}

		if err := s.db.WithContext(ctx).Model(msg).Update("status", model.OutboxStatusSent).Error; err != nil {
			return err
		}
	}
	return nil
}
