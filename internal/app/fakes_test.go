package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	failPut bool
	puts    int
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (r *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.data[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (r *memKV) Put(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts++
	if r.failPut {
		return errors.New("disk full")
	}
	r.data[key] = append([]byte(nil), value...)
	return nil
}

func (r *memKV) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func (r *memKV) raw(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.data[key])
}

// fakeCatalog sert des pages indexées par curseur ("" = première page).
// Un curseur présent dans gates bloque ListVideos jusqu'à fermeture du canal.
type fakeCatalog struct {
	mu       sync.Mutex
	pages    map[string]domain.FeedPage
	errs     map[string]error
	resolved map[string]string
	gates    map[string]chan struct{}
	calls    []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		pages:    map[string]domain.FeedPage{},
		errs:     map[string]error{},
		resolved: map[string]string{},
		gates:    map[string]chan struct{}{},
	}
}

func (c *fakeCatalog) setPage(cursor string, page domain.FeedPage) {
	c.mu.Lock()
	c.pages[cursor] = page
	c.mu.Unlock()
}

func (c *fakeCatalog) setErr(cursor string, err error) {
	c.mu.Lock()
	c.errs[cursor] = err
	c.mu.Unlock()
}

func (c *fakeCatalog) block(cursor string) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{})
	c.gates[cursor] = ch
	return ch
}

// waitCalls attend que ListVideos ait été appelé n fois.
func (c *fakeCatalog) waitCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for c.callCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d ListVideos calls, got %d", n, c.callCount())
		}
		time.Sleep(time.Millisecond)
	}
}

func (c *fakeCatalog) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func (c *fakeCatalog) ResolveChannel(ctx context.Context, ref domain.ChannelRef) (string, error) {
	if ref.Kind == domain.ChannelRefID {
		return ref.Value, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.resolved[ref.Value]
	if !ok {
		return "", ports.ErrChannelNotFound
	}
	return id, nil
}

func (c *fakeCatalog) ListVideos(ctx context.Context, channelID, cursor string) (domain.FeedPage, error) {
	c.mu.Lock()
	c.calls = append(c.calls, cursor)
	gate := c.gates[cursor]
	c.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.FeedPage{}, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.errs[cursor]; err != nil {
		return domain.FeedPage{}, err
	}
	return c.pages[cursor], nil
}

func (c *fakeCatalog) Channel(ctx context.Context, channelID string) (domain.Channel, error) {
	return domain.Channel{ID: channelID, Title: "Channel " + channelID}, nil
}

func (c *fakeCatalog) Comments(ctx context.Context, videoID, cursor string) (domain.CommentPage, error) {
	return domain.CommentPage{Threads: []domain.CommentThread{{Comment: domain.Comment{ID: "c1", Text: "nice " + videoID}}}}, nil
}

func videos(ids ...string) []domain.VideoSummary {
	out := make([]domain.VideoSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.VideoSummary{ID: id, Title: "Video " + id})
	}
	return out
}

func numbered(prefix string, from, to int) []domain.VideoSummary {
	out := make([]domain.VideoSummary, 0, to-from+1)
	for i := from; i <= to; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		out = append(out, domain.VideoSummary{ID: id, Title: "Video " + id})
	}
	return out
}

func ids(vs []domain.VideoSummary) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

type fixture struct {
	kv      *memKV
	bus     *memorybus.Bus
	store   *Store
	ledger  *WatchLedger
	filter  *ContentFilter
	history *ChannelHistory
	prefs   *PreferencesService
	catalog *fakeCatalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := newMemKV()
	bus := memorybus.New()
	t.Cleanup(bus.Close)
	store := NewStore(zerolog.Nop(), kv, bus)
	return &fixture{
		kv:      kv,
		bus:     bus,
		store:   store,
		ledger:  NewWatchLedger(store, bus),
		filter:  NewContentFilter(store),
		history: NewChannelHistory(store),
		prefs:   NewPreferencesService(store),
		catalog: newFakeCatalog(),
	}
}

func (f *fixture) viewer() *ViewerService {
	return NewViewerService(zerolog.Nop(), f.catalog, f.ledger, f.filter, f.history, f.prefs, f.bus, nil)
}

// fixedClock avance d'une seconde à chaque appel.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := cur
		cur = cur.Add(time.Second)
		return t
	}
}
