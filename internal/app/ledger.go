package app

import (
	"context"
	"sort"
	"time"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

const watchedVideosKey = "watchedVideos"

// WatchLedger: au plus un enregistrement par vidéo.
type WatchLedger struct {
	records *Persisted[[]domain.WatchRecord]
	bus     ports.EventBus
	now     func() time.Time
}

func NewWatchLedger(store *Store, bus ports.EventBus) *WatchLedger {
	return &WatchLedger{
		records: NewPersisted(store, watchedVideosKey, []domain.WatchRecord{}),
		bus:     bus,
		now:     time.Now,
	}
}

// Add enregistre (ou rafraîchit) une vidéo vue. Un titre vide conserve le titre connu.
func (l *WatchLedger) Add(ctx context.Context, videoID, title string) domain.WatchRecord {
	watchedAt := l.now().UTC().Format(time.RFC3339Nano)
	var added domain.WatchRecord
	l.records.Update(ctx, func(prev []domain.WatchRecord) []domain.WatchRecord {
		next := make([]domain.WatchRecord, 0, len(prev)+1)
		found := false
		for _, r := range prev {
			if r.VideoID != videoID {
				next = append(next, r)
				continue
			}
			if found {
				continue
			}
			found = true
			r.WatchedAt = watchedAt
			if title != "" {
				r.Title = title
			}
			added = r
			next = append(next, r)
		}
		if !found {
			added = domain.WatchRecord{VideoID: videoID, WatchedAt: watchedAt, Title: title}
			next = append(next, added)
		}
		return next
	})
	publish(l.bus, TopicVideoWatched, added)
	return added
}

func (l *WatchLedger) Remove(ctx context.Context, videoID string) {
	if !l.IsWatched(videoID) {
		return
	}
	l.records.Update(ctx, func(prev []domain.WatchRecord) []domain.WatchRecord {
		next := make([]domain.WatchRecord, 0, len(prev))
		for _, r := range prev {
			if r.VideoID != videoID {
				next = append(next, r)
			}
		}
		return next
	})
}

func (l *WatchLedger) Clear(ctx context.Context) {
	l.records.Set(ctx, []domain.WatchRecord{})
}

func (l *WatchLedger) find(videoID string) (domain.WatchRecord, bool) {
	for _, r := range l.records.Get() {
		if r.VideoID == videoID {
			return r, true
		}
	}
	return domain.WatchRecord{}, false
}

func (l *WatchLedger) IsWatched(videoID string) bool {
	_, ok := l.find(videoID)
	return ok
}

// WatchedAt ignore les dates illisibles.
func (l *WatchLedger) WatchedAt(videoID string) (time.Time, bool) {
	r, ok := l.find(videoID)
	if !ok {
		return time.Time{}, false
	}
	return r.ParsedWatchedAt()
}

func (l *WatchLedger) Title(videoID string) (string, bool) {
	r, ok := l.find(videoID)
	if !ok || r.Title == "" {
		return "", false
	}
	return r.Title, true
}

// List: plus récent d'abord, les dates illisibles en dernier.
func (l *WatchLedger) List() []domain.WatchRecord {
	cur := l.records.Get()
	out := make([]domain.WatchRecord, len(cur))
	copy(out, cur)
	sort.SliceStable(out, func(i, j int) bool {
		ti, oki := out[i].ParsedWatchedAt()
		tj, okj := out[j].ParsedWatchedAt()
		if oki != okj {
			return oki
		}
		return ti.After(tj)
	})
	return out
}

// Refresh relit le stockage : une autre vue a pu écrire sous la même clé.
func (l *WatchLedger) Refresh(ctx context.Context) []domain.WatchRecord {
	loaded := l.records.Reload(ctx)
	if hasDuplicateRecords(loaded) {
		l.records.Update(ctx, dedupeRecords)
	}
	return l.List()
}

func hasDuplicateRecords(records []domain.WatchRecord) bool {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.VideoID]; ok {
			return true
		}
		seen[r.VideoID] = struct{}{}
	}
	return false
}

// dedupeRecords garde la première occurrence de chaque vidéo.
func dedupeRecords(records []domain.WatchRecord) []domain.WatchRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.WatchRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.VideoID]; ok {
			continue
		}
		seen[r.VideoID] = struct{}{}
		out = append(out, r)
	}
	return out
}
