package plant

import (
	"context"
	"sync"

	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/store"
)

// Loader queries the current snapshot of a user's plants
type Loader func(ctx context.Context, uid string) ([]Plant, error)

// Hub fans change notifications out to per-user feeds. Backends without
// native snapshot listeners call Notify after each committed mutation.
type Hub struct {
	load   Loader
	logger *logging.Logger

	mu    sync.Mutex
	feeds map[string]map[*Feed]struct{}
	locks map[string]*userLock
}

// userLock serializes notifications for one uid. refs counts holders and
// waiters so the entry can be dropped when idle.
type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewHub(load Loader, logger *logging.Logger) *Hub {
	return &Hub{
		load:   load,
		logger: logger.WithComponent("plant-hub"),
		feeds:  make(map[string]map[*Feed]struct{}),
		locks:  make(map[string]*userLock),
	}
}

// Subscribe registers a feed for uid and primes it with the current snapshot.
// The feed closes when ctx ends or the caller closes it.
func (h *Hub) Subscribe(ctx context.Context, uid string) (Subscription, error) {
	var feed *Feed
	feed = NewFeed(func() { h.remove(uid, feed) })

	h.mu.Lock()
	if h.feeds[uid] == nil {
		h.feeds[uid] = make(map[*Feed]struct{})
	}
	h.feeds[uid][feed] = struct{}{}
	h.mu.Unlock()

	plants, err := h.load(ctx, uid)
	if err != nil {
		feed.Close()
		return nil, store.Failed("subscribe plants", err)
	}
	feed.publishInitial(plants)
	feed.CloseWhenDone(ctx)

	return feed, nil
}

// Notify re-queries uid's plants and publishes them to every open feed for uid.
// Notifications for the same uid run one at a time, so a snapshot loaded
// earlier is never published after a newer one.
func (h *Hub) Notify(ctx context.Context, uid string) {
	if len(h.subscribers(uid)) == 0 {
		return
	}

	unlock := h.lockUser(uid)
	defer unlock()

	feeds := h.subscribers(uid)
	if len(feeds) == 0 {
		return
	}

	plants, err := h.load(ctx, uid)
	if err != nil {
		h.logger.Warn("failed to load plant snapshot", "uid", uid, "error", err.Error())
		return
	}

	for _, f := range feeds {
		f.Publish(plants)
	}
}

// NotifyAll refreshes every subscribed user, used after a listener reconnect
func (h *Hub) NotifyAll(ctx context.Context) {
	h.mu.Lock()
	uids := make([]string, 0, len(h.feeds))
	for uid := range h.feeds {
		uids = append(uids, uid)
	}
	h.mu.Unlock()

	for _, uid := range uids {
		h.Notify(ctx, uid)
	}
}

// Close closes all feeds
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*Feed
	for _, set := range h.feeds {
		for f := range set {
			all = append(all, f)
		}
	}
	h.mu.Unlock()

	for _, f := range all {
		f.Close()
	}
}

func (h *Hub) subscribers(uid string) []*Feed {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.feeds[uid]
	feeds := make([]*Feed, 0, len(set))
	for f := range set {
		feeds = append(feeds, f)
	}
	return feeds
}

func (h *Hub) lockUser(uid string) func() {
	h.mu.Lock()
	l := h.locks[uid]
	if l == nil {
		l = &userLock{}
		h.locks[uid] = l
	}
	l.refs++
	h.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		h.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(h.locks, uid)
		}
		h.mu.Unlock()
	}
}

func (h *Hub) remove(uid string, feed *Feed) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.feeds[uid], feed)
	if len(h.feeds[uid]) == 0 {
		delete(h.feeds, uid)
	}
}
