package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListenCmdReceivesEvent(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)
	broker.Publish(RedrawEvent, "repaint")

	cmd := ListenCmd(ctx, ch)
	msg := cmd()

	event, ok := msg.(Event[string])
	require.True(t, ok, "msg should be Event[string]")
	require.Equal(t, "repaint", event.Payload)
	require.Equal(t, RedrawEvent, event.Type)
}

func TestListenCmdContextCancelled(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)

	cancel()
	time.Sleep(20 * time.Millisecond) // Wait for cleanup

	cmd := ListenCmd(ctx, ch)
	require.Nil(t, cmd(), "should return nil when context cancelled")
}

func TestListenCmdChannelClosed(t *testing.T) {
	ch := make(chan Event[string])
	close(ch)

	cmd := ListenCmd(context.Background(), ch)
	require.Nil(t, cmd(), "should return nil when channel closed")
}

func TestContinuousListenerDrainsInOrder(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewContinuousListener(ctx, broker)

	broker.Publish(RedrawEvent, 1)
	broker.Publish(RedrawEvent, 2)
	broker.Publish(RedrawEvent, 3)

	for want := 1; want <= 3; want++ {
		msg := listener.Listen()()
		event, ok := msg.(Event[int])
		require.True(t, ok, "msg should be Event[int]")
		require.Equal(t, want, event.Payload)
	}
}
