// Package realtime delivers freshly persisted chat messages to connected
// clients over redis pub/sub. Delivery is best-effort: the durable copy is
// always the messages table, and clients catch up by refetching the
// transcript. A dropped publish is therefore logged, never retried.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/studentious/studentious/internal/models"
	"go.uber.org/zap"
)

func channelFor(chatID uuid.UUID) string {
	return "chat:" + chatID.String()
}

// Broker is the process-wide pub/sub connection, created once at startup.
type Broker struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewBroker(redisURL string, logger *zap.Logger) (*Broker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Broker{rdb: redis.NewClient(opt), logger: logger}, nil
}

func (b *Broker) Close() error {
	return b.rdb.Close()
}

// Publish pushes the message to the chat's channel after it has been
// persisted. Fire-and-forget: failures are logged and swallowed so the send
// request still succeeds on the durable write alone.
func (b *Broker) Publish(ctx context.Context, msg *models.Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("marshal realtime message", zap.Error(err))
		return
	}
	if err := b.rdb.Publish(ctx, channelFor(msg.ChatID), payload).Err(); err != nil {
		b.logger.Warn("realtime publish failed, clients will catch up on refetch",
			zap.String("chat_id", msg.ChatID.String()),
			zap.Error(err),
		)
	}
}

// Subscribe opens a subscription for one chat. The returned channel closes
// when ctx is cancelled or the subscription is closed.
func (b *Broker) Subscribe(ctx context.Context, chatID uuid.UUID) *Subscription {
	sub := b.rdb.Subscribe(ctx, channelFor(chatID))
	return &Subscription{sub: sub}
}

type Subscription struct {
	sub *redis.PubSub
}

// Messages returns the raw JSON payloads published to the chat.
func (s *Subscription) Messages() <-chan *redis.Message {
	return s.sub.Channel()
}

func (s *Subscription) Close() error {
	return s.sub.Close()
}
