package app

import (
	"context"
	"time"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
)

const channelHistoryKey = "channelHistory"

// ChannelHistory garde les dernières saisies de chaîne distinctes, la plus récente d'abord.
type ChannelHistory struct {
	entries *Persisted[[]domain.ChannelHistoryEntry]
	now     func() time.Time
}

func NewChannelHistory(store *Store) *ChannelHistory {
	return &ChannelHistory{
		entries: NewPersisted(store, channelHistoryKey, []domain.ChannelHistoryEntry{}),
		now:     time.Now,
	}
}

func (h *ChannelHistory) Record(ctx context.Context, url string) []domain.ChannelHistoryEntry {
	entry := domain.ChannelHistoryEntry{URL: url, Timestamp: h.now().UnixMilli()}
	return h.entries.Update(ctx, func(prev []domain.ChannelHistoryEntry) []domain.ChannelHistoryEntry {
		next := make([]domain.ChannelHistoryEntry, 0, domain.MaxChannelHistory)
		next = append(next, entry)
		for _, e := range prev {
			if len(next) == domain.MaxChannelHistory {
				break
			}
			if e.URL != url {
				next = append(next, e)
			}
		}
		return next
	})
}

func (h *ChannelHistory) List() []domain.ChannelHistoryEntry {
	cur := h.entries.Get()
	out := make([]domain.ChannelHistoryEntry, len(cur))
	copy(out, cur)
	return out
}

func (h *ChannelHistory) Clear(ctx context.Context) {
	h.entries.Set(ctx, []domain.ChannelHistoryEntry{})
}

func (h *ChannelHistory) Refresh(ctx context.Context) []domain.ChannelHistoryEntry {
	h.entries.Reload(ctx)
	return h.List()
}
