// Package events публикует события жизненного цикла аккаунта
// (выход из сессии, удаление аккаунта) через watermill.
package events

//go:generate mockgen -source=events.go -destination=../../mocks/mock_publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// Типы событий (metadata "event_type" и поле type в теле).
const (
	TypeLoggedOut = "account.logged_out"
	TypeWithdrawn = "account.withdrawn"
)

// DefaultTopic — поток, если в конфигурации не задан другой.
const DefaultTopic = "account.events"

// AccountEvent — тело сообщения.
type AccountEvent struct {
	Type       string    `json:"type"`
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher — контракт, который использует сервис.
type Publisher interface {
	AccountLoggedOut(ctx context.Context, subject string) error
	AccountWithdrawn(ctx context.Context, subject string) error
}

// WatermillPublisher — Publisher поверх любого message.Publisher.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
	now       func() time.Time
}

// NewWatermillPublisher создаёт публикатор. Пустой topic заменяется на DefaultTopic.
func NewWatermillPublisher(publisher message.Publisher, topic string) *WatermillPublisher {
	if topic == "" {
		topic = DefaultTopic
	}

	return &WatermillPublisher{
		publisher: publisher,
		topic:     topic,
		now:       time.Now,
	}
}

func (p *WatermillPublisher) AccountLoggedOut(ctx context.Context, subject string) error {
	return p.publish(ctx, TypeLoggedOut, subject)
}

func (p *WatermillPublisher) AccountWithdrawn(ctx context.Context, subject string) error {
	return p.publish(ctx, TypeWithdrawn, subject)
}

// Close закрывает нижележащий message.Publisher.
func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

func (p *WatermillPublisher) publish(ctx context.Context, eventType, subject string) error {
	const op = "events.publish"

	payload, err := json.Marshal(AccountEvent{
		Type:       eventType,
		Subject:    subject,
		OccurredAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", eventType)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// NewRedisStreamPublisher создаёт message.Publisher в Redis Streams.
// Клиент rdb остаётся за вызывающей стороной: Close публикатора его не закрывает.
func NewRedisStreamPublisher(rdb redis.UniversalClient, log *slog.Logger) (message.Publisher, error) {
	const op = "events.NewRedisStreamPublisher"

	pub, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: rdb},
		watermill.NewSlogLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return borrowedClientPublisher{pub}, nil
}

// borrowedClientPublisher не даёт redisstream.Publisher закрыть чужой клиент.
type borrowedClientPublisher struct {
	message.Publisher
}

func (borrowedClientPublisher) Close() error { return nil }

// Nop — Publisher, который ничего не публикует (события выключены).
type Nop struct{}

func (Nop) AccountLoggedOut(context.Context, string) error { return nil }
func (Nop) AccountWithdrawn(context.Context, string) error { return nil }

var (
	_ Publisher = (*WatermillPublisher)(nil)
	_ Publisher = Nop{}
)
