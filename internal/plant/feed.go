package plant

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var ErrSubscriptionClosed = errors.New("subscription closed")

// Feed is a Subscription backed by a single-slot mailbox. Producers publish
// whole snapshots; the consumer receives the most recent one.
type Feed struct {
	mu        sync.Mutex
	latest    []Plant
	pending   bool
	published bool
	err       error
	closed    bool

	ready     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	onClose   func()
}

// NewFeed creates an open feed. onClose, if set, runs once when the feed closes.
func NewFeed(onClose func()) *Feed {
	return &Feed{
		ready:   make(chan struct{}, 1),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// Publish replaces the undelivered snapshot, if any
func (f *Feed) Publish(plants []Plant) {
	f.mu.Lock()
	if f.closed || f.err != nil {
		f.mu.Unlock()
		return
	}
	f.latest = slices.Clone(plants)
	if f.latest == nil {
		f.latest = []Plant{}
	}
	f.pending = true
	f.published = true
	f.mu.Unlock()

	f.signal()
}

// publishInitial delivers plants only if nothing was published yet, so an
// initial query never overwrites a newer change notification
func (f *Feed) publishInitial(plants []Plant) {
	f.mu.Lock()
	if f.published {
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	f.Publish(plants)
}

// Fail ends the feed with err after any pending snapshot is delivered
func (f *Feed) Fail(err error) {
	f.mu.Lock()
	if f.closed || f.err != nil {
		f.mu.Unlock()
		return
	}
	f.err = err
	f.mu.Unlock()

	f.signal()
}

func (f *Feed) signal() {
	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// Next blocks until a snapshot is available, the feed fails or closes, or ctx ends
func (f *Feed) Next(ctx context.Context) ([]Plant, error) {
	for {
		f.mu.Lock()
		switch {
		case f.closed:
			f.mu.Unlock()
			return nil, ErrSubscriptionClosed
		case f.pending:
			snapshot := f.latest
			f.latest = nil
			f.pending = false
			f.mu.Unlock()
			return snapshot, nil
		case f.err != nil:
			err := f.err
			f.mu.Unlock()
			return nil, err
		}
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-f.done:
		case <-f.ready:
		}
	}
}

// Close releases the feed. It is safe to call more than once.
func (f *Feed) Close() error {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.latest = nil
		f.mu.Unlock()

		close(f.done)
		if f.onClose != nil {
			f.onClose()
		}
	})
	return nil
}

// CloseWhenDone closes the feed when ctx ends
func (f *Feed) CloseWhenDone(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			f.Close()
		case <-f.done:
		}
	}()
}
