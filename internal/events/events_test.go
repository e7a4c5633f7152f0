package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	t.Cleanup(func() { _ = ps.Close() })
	return ps
}

func receive(t *testing.T, ch <-chan *message.Message) (*message.Message, AccountEvent) {
	t.Helper()

	select {
	case msg := <-ch:
		msg.Ack()
		var ev AccountEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		return msg, ev
	case <-time.After(2 * time.Second):
		t.Fatal("сообщение не получено")
		return nil, AccountEvent{}
	}
}

func TestWatermillPublisher_LoggedOutAndWithdrawn(t *testing.T) {
	t.Parallel()

	ps := newPubSub(t)
	ch, err := ps.Subscribe(context.Background(), "account.test")
	require.NoError(t, err)

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pub := NewWatermillPublisher(ps, "account.test")
	pub.now = func() time.Time { return fixed }

	require.NoError(t, pub.AccountLoggedOut(context.Background(), "a@x.com"))
	msg, ev := receive(t, ch)
	require.Equal(t, TypeLoggedOut, msg.Metadata.Get("event_type"))
	require.Equal(t, AccountEvent{Type: TypeLoggedOut, Subject: "a@x.com", OccurredAt: fixed}, ev)

	require.NoError(t, pub.AccountWithdrawn(context.Background(), "a@x.com"))
	msg, ev = receive(t, ch)
	require.Equal(t, TypeWithdrawn, msg.Metadata.Get("event_type"))
	require.Equal(t, TypeWithdrawn, ev.Type)
}

func TestNewWatermillPublisher_DefaultTopic(t *testing.T) {
	t.Parallel()

	ps := newPubSub(t)
	ch, err := ps.Subscribe(context.Background(), DefaultTopic)
	require.NoError(t, err)

	require.NoError(t, NewWatermillPublisher(ps, "").AccountLoggedOut(context.Background(), "b@x.com"))
	_, ev := receive(t, ch)
	require.Equal(t, "b@x.com", ev.Subject)
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (failingPublisher) Close() error                              { return nil }

func TestWatermillPublisher_PublishError(t *testing.T) {
	t.Parallel()

	err := NewWatermillPublisher(failingPublisher{}, "t").AccountWithdrawn(context.Background(), "a@x.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "broker down")
}

func TestNop(t *testing.T) {
	t.Parallel()

	require.NoError(t, Nop{}.AccountLoggedOut(context.Background(), "a"))
	require.NoError(t, Nop{}.AccountWithdrawn(context.Background(), "a"))
}

func TestRedisStreamPublisher_CloseKeepsSharedClient(t *testing.T) {
	t.Parallel()

	// соединение не устанавливается до первой команды
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})

	pub, err := NewRedisStreamPublisher(rdb, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	require.NoError(t, NewWatermillPublisher(pub, "").Close())
	require.NoError(t, rdb.Close(), "client must still be open for its owner")
}
