package broadcast

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishOrderEqualsDeliveryOrder(t *testing.T) {
	hub := NewHub("test", 10)
	sub := hub.Subscribe()
	defer sub.Close()

	for i := 0; i < 5; i++ {
		hub.Publish([]byte(fmt.Sprintf("msg-%d", i)))
	}

	for i := 0; i < 5; i++ {
		msg, ok := sub.TryNext()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("msg-%d", i), string(msg.Data))
		assert.Equal(t, uint64(i+1), msg.Seq)
	}

	_, ok := sub.TryNext()
	assert.False(t, ok)
}

func TestHub_AllSubscribersSeeSameOrder(t *testing.T) {
	hub := NewHub("test", 10)
	sub1 := hub.Subscribe()
	defer sub1.Close()
	sub2 := hub.Subscribe()
	defer sub2.Close()

	hub.Publish([]byte("a"))
	hub.Publish([]byte("b"))

	for _, sub := range []*Subscription{sub1, sub2} {
		first, ok := sub.TryNext()
		require.True(t, ok)
		second, ok := sub.TryNext()
		require.True(t, ok)
		assert.Equal(t, "a", string(first.Data))
		assert.Equal(t, "b", string(second.Data))
	}
}

func TestHub_DropOldestWhenBehind(t *testing.T) {
	hub := NewHub("test", 3)
	sub := hub.Subscribe()
	defer sub.Close()

	for i := 0; i < 5; i++ {
		hub.Publish([]byte(fmt.Sprintf("msg-%d", i)))
	}

	// Capacity 3: msg-0 and msg-1 were evicted, freshest three remain.
	msg, ok := sub.TryNext()
	require.True(t, ok)
	assert.Equal(t, "msg-2", string(msg.Data))

	// The sequence gap is visible to the consumer.
	assert.Equal(t, uint64(3), msg.Seq)
	assert.Equal(t, uint64(2), sub.Dropped())
}

func TestHub_PublishWithZeroSubscribersIsNoOp(t *testing.T) {
	hub := NewHub("test", 10)
	// Must not panic or block.
	seq := hub.Publish([]byte("nobody listening"))
	assert.Equal(t, uint64(1), seq)
}

func TestHub_LateSubscriberSeesOnlyFutureMessages(t *testing.T) {
	hub := NewHub("test", 10)
	hub.Publish([]byte("before"))

	sub := hub.Subscribe()
	defer sub.Close()
	hub.Publish([]byte("after"))

	msg, ok := sub.TryNext()
	require.True(t, ok)
	assert.Equal(t, "after", string(msg.Data))
	_, ok = sub.TryNext()
	assert.False(t, ok)
}

func TestSubscription_NextBlocksUntilPublish(t *testing.T) {
	hub := NewHub("test", 10)
	sub := hub.Subscribe()
	defer sub.Close()

	got := make(chan Message, 1)
	go func() {
		msg, err := sub.Next(context.Background())
		if err == nil {
			got <- msg
		}
	}()

	time.Sleep(10 * time.Millisecond)
	hub.Publish([]byte("wake up"))

	select {
	case msg := <-got:
		assert.Equal(t, "wake up", string(msg.Data))
	case <-time.After(time.Second):
		t.Fatal("Next did not observe the publish")
	}
}

func TestSubscription_NextHonorsContextCancel(t *testing.T) {
	hub := NewHub("test", 10)
	sub := hub.Subscribe()
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := sub.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubscription_CloseDetachesFromHub(t *testing.T) {
	hub := NewHub("test", 10)
	sub := hub.Subscribe()
	require.Equal(t, 1, hub.SubscriberCount())

	sub.Close()
	assert.Equal(t, 0, hub.SubscriberCount())

	_, err := sub.Next(context.Background())
	assert.ErrorIs(t, err, ErrSubscriptionClosed)

	// Publishing after close must not deliver to the closed subscription.
	hub.Publish([]byte("late"))
	_, ok := sub.TryNext()
	assert.False(t, ok)
}

func TestSubscription_CloseIsIdempotent(t *testing.T) {
	hub := NewHub("test", 10)
	sub := hub.Subscribe()
	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.SubscriberCount())
}
