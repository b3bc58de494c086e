package plant

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/plantopia/internal/logging"
)

func snapshot(ids ...string) []Plant {
	plants := make([]Plant, 0, len(ids))
	for _, id := range ids {
		plants = append(plants, Plant{ID: id})
	}
	return plants
}

func TestFeedKeepsOnlyLatestSnapshot(t *testing.T) {
	f := NewFeed(nil)
	f.Publish(snapshot("a"))
	f.Publish(snapshot("a", "b"))
	f.Publish(snapshot("a", "b", "c"))

	got, err := f.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFeedEmptySnapshotIsNotNil(t *testing.T) {
	f := NewFeed(nil)
	f.Publish(nil)

	got, err := f.Next(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFeedNextWakesOnPublish(t *testing.T) {
	f := NewFeed(nil)
	done := make(chan []Plant)

	go func() {
		got, _ := f.Next(context.Background())
		done <- got
	}()

	f.Publish(snapshot("a"))
	select {
	case got := <-done:
		assert.Len(t, got, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("Next did not wake up")
	}
}

func TestFeedClose(t *testing.T) {
	closed := 0
	f := NewFeed(func() { closed++ })
	f.Publish(snapshot("a"))

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.Equal(t, 1, closed)

	_, err := f.Next(context.Background())
	assert.ErrorIs(t, err, ErrSubscriptionClosed)

	// Publishing after close is ignored
	f.Publish(snapshot("b"))
	_, err = f.Next(context.Background())
	assert.ErrorIs(t, err, ErrSubscriptionClosed)
}

func TestFeedFailDeliversPendingFirst(t *testing.T) {
	f := NewFeed(nil)
	boom := errors.New("listener lost")

	f.Publish(snapshot("a"))
	f.Fail(boom)

	got, err := f.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.Next(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFeedCloseWhenDone(t *testing.T) {
	f := NewFeed(nil)
	ctx, cancel := context.WithCancel(context.Background())
	f.CloseWhenDone(ctx)
	cancel()

	wait, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	_, err := f.Next(wait)
	assert.ErrorIs(t, err, ErrSubscriptionClosed)
}

func TestHubNotifiesOnlySubscribedUser(t *testing.T) {
	data := map[string][]Plant{"u1": snapshot("a"), "u2": snapshot("x")}
	loads := map[string]int{}
	hub := NewHub(func(_ context.Context, uid string) ([]Plant, error) {
		loads[uid]++
		return data[uid], nil
	}, logging.NewNopLogger())

	ctx := context.Background()
	sub, err := hub.Subscribe(ctx, "u1")
	require.NoError(t, err)

	first, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	data["u1"] = snapshot("b", "a")
	hub.Notify(ctx, "u1")
	hub.Notify(ctx, "u2")

	second, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Zero(t, loads["u2"], "no subscriber, no query")

	require.NoError(t, sub.Close())
	hub.Notify(ctx, "u1")
	assert.Equal(t, 2, loads["u1"], "closed feeds are unregistered")
}

func TestHubSubscribeLoadError(t *testing.T) {
	hub := NewHub(func(context.Context, string) ([]Plant, error) {
		return nil, errors.New("db down")
	}, logging.NewNopLogger())

	_, err := hub.Subscribe(context.Background(), "u1")
	assert.Error(t, err)
	assert.Empty(t, hub.subscribers("u1"))
}

func TestHubNotifyNeverPublishesStaleSnapshot(t *testing.T) {
	var (
		mu        sync.Mutex
		committed = snapshot("a")
		calls     int
	)
	stalled := make(chan struct{})
	release := make(chan struct{})

	hub := NewHub(func(context.Context, string) ([]Plant, error) {
		mu.Lock()
		calls++
		call := calls
		plants := slices.Clone(committed)
		mu.Unlock()

		// The first notification reads its snapshot, then stalls
		if call == 2 {
			close(stalled)
			<-release
		}
		return plants, nil
	}, logging.NewNopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := hub.Subscribe(ctx, "u1")
	require.NoError(t, err)
	defer sub.Close()
	_, err = sub.Next(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		hub.Notify(ctx, "u1")
	}()
	<-stalled

	mu.Lock()
	committed = snapshot("b", "a")
	mu.Unlock()
	go func() {
		defer wg.Done()
		hub.Notify(ctx, "u1")
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	got, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2, "latest snapshot reflects the newest commit")

	hub.mu.Lock()
	assert.Empty(t, hub.locks, "idle user locks are released")
	hub.mu.Unlock()
}
