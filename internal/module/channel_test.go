package module

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSenderOverflowNeverBlocks(t *testing.T) {
	const capacity, total = 3, 10
	tx := NewSender[int](NextID(), capacity)

	done := make(chan []error)
	go func() {
		errs := make([]error, 0, total)
		for i := 0; i < total; i++ {
			errs = append(errs, tx.TrySend(i))
		}
		done <- errs
	}()

	var errs []error
	select {
	case errs = <-done:
	case <-time.After(time.Second):
		t.Fatal("TrySend blocked on a full channel")
	}

	full := 0
	for i, err := range errs {
		if i < capacity {
			require.NoError(t, err)
			continue
		}
		require.ErrorIs(t, err, ErrChannelFull)
		full++
	}
	require.Equal(t, total-capacity, full)
	require.Equal(t, capacity, tx.Len())

	for i := 0; i < capacity; i++ {
		require.Equal(t, i, <-tx.receiver())
	}
}

func TestSenderClosedIsReported(t *testing.T) {
	tx := NewSender[int](NextID(), 1)
	tx.Close()
	tx.Close()
	require.ErrorIs(t, tx.TrySend(1), ErrChannelClosed)
}

func TestBroadcastWithoutSubscribersIsNoOp(t *testing.T) {
	b := NewBroadcast[string](2)
	require.Equal(t, 0, b.Send("ignored"))
}

func TestBroadcastDoesNotReplay(t *testing.T) {
	b := NewBroadcast[string](2)
	b.Send("before")
	sub := b.Subscribe()
	require.Equal(t, 1, b.Send("after"))

	require.Equal(t, "after", <-sub.C)
	select {
	case v := <-sub.C:
		t.Fatalf("unexpected extra value %q", v)
	default:
	}
}

func TestBroadcastFansOutAndUnsubscribes(t *testing.T) {
	b := NewBroadcast[int](4)
	first := b.Subscribe()
	second := b.Subscribe()
	require.Equal(t, 2, b.Send(7))
	require.Equal(t, 7, <-first.C)
	require.Equal(t, 7, <-second.C)

	first.Unsubscribe()
	first.Unsubscribe()
	require.Equal(t, 1, b.Subscribers())
	_, ok := <-first.C
	require.False(t, ok)

	b.Close()
	_, ok = <-second.C
	require.False(t, ok)
	_, ok = <-b.Subscribe().C
	require.False(t, ok)
}

func TestSubscriptionWaitWrapsMessage(t *testing.T) {
	b := NewBroadcast[string](1)
	sub := b.Subscribe()
	id := NextID()
	b.Send("tick")

	msg, ok := sub.Wait(id)().(Message[string])
	require.True(t, ok)
	require.Equal(t, id, msg.ID)
	require.Equal(t, "tick", msg.Value)
	require.True(t, msg.From(sub))
	require.False(t, msg.From(b.Subscribe()))

	b.Close()
	require.Nil(t, sub.Wait(id)())
}
