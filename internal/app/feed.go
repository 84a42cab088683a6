package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

type FeedState string

const (
	FeedIdle    FeedState = "idle"
	FeedLoading FeedState = "loading"
	FeedReady   FeedState = "ready"
	// FeedFailed: le chargement initial a échoué, Err() porte l'erreur de la chaîne.
	FeedFailed FeedState = "failed"
)

// Feed est la collection paginée des vidéos d'une chaîne pour une vue.
//
// Les appels amont se font hors verrou. loadingMore/refreshing sont testés et posés
// sous verrou : un second LoadMore (ou Refresh) pendant le premier est un no-op.
// Un Refresh incrémente generation ; une page LoadMore obtenue avant est jetée.
type Feed struct {
	logger    zerolog.Logger
	catalog   ports.VideoCatalog
	channelID string
	onChange  func(FeedSnapshot)

	mu          sync.Mutex
	state       FeedState
	err         error
	videos      []domain.VideoSummary
	cursor      string
	loadingMore bool
	refreshing  bool
	generation  uint64
	released    bool
}

// FeedSnapshot est une copie de l'état, sérialisable.
type FeedSnapshot struct {
	ChannelID   string                `json:"channelId"`
	State       FeedState             `json:"state"`
	Error       string                `json:"error,omitempty"`
	Videos      []domain.VideoSummary `json:"videos"`
	NextCursor  string                `json:"nextCursor,omitempty"`
	HasMore     bool                  `json:"hasMore"`
	LoadingMore bool                  `json:"loadingMore"`
	Refreshing  bool                  `json:"refreshing"`
}

func NewFeed(logger zerolog.Logger, catalog ports.VideoCatalog, channelID string) *Feed {
	return &Feed{
		logger:    logger,
		catalog:   catalog,
		channelID: channelID,
		state:     FeedIdle,
	}
}

// OnChange est appelé (hors verrou) après chaque mutation de la collection.
func (f *Feed) OnChange(fn func(FeedSnapshot)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

func (f *Feed) ChannelID() string { return f.channelID }

// Load fait le chargement initial. Possible depuis Idle, ou Failed pour réessayer.
func (f *Feed) Load(ctx context.Context) error {
	f.mu.Lock()
	if f.state != FeedIdle && f.state != FeedFailed {
		f.mu.Unlock()
		return nil
	}
	f.state = FeedLoading
	f.err = nil
	f.mu.Unlock()

	page, err := f.catalog.ListVideos(ctx, f.channelID, "")

	f.mu.Lock()
	if f.released {
		f.mu.Unlock()
		return nil
	}
	if err != nil {
		f.state = FeedFailed
		f.err = err
		f.mu.Unlock()
		f.logger.Warn().Err(err).Str("channel_id", f.channelID).Msg("feed initial load failed")
		return err
	}
	f.replaceLocked(page)
	snap, notify := f.snapshotLocked(), f.onChange
	f.mu.Unlock()

	f.logger.Debug().Str("channel_id", f.channelID).Int("videos", len(snap.Videos)).Bool("has_more", snap.HasMore).Msg("feed loaded")
	if notify != nil {
		notify(snap)
	}
	return nil
}

// LoadMore renvoie false sans erreur si rien n'a été fait (pas de curseur, déjà en cours, ...).
// En cas d'échec, la collection reste intacte.
func (f *Feed) LoadMore(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.released || f.state != FeedReady || f.cursor == "" || f.loadingMore || f.refreshing {
		f.mu.Unlock()
		return false, nil
	}
	f.loadingMore = true
	cursor, gen := f.cursor, f.generation
	f.mu.Unlock()

	page, err := f.catalog.ListVideos(ctx, f.channelID, cursor)

	f.mu.Lock()
	f.loadingMore = false
	if f.released {
		f.mu.Unlock()
		return false, nil
	}
	if err != nil {
		f.mu.Unlock()
		f.logger.Warn().Err(err).Str("channel_id", f.channelID).Msg("feed load more failed")
		return false, err
	}
	if gen != f.generation {
		f.mu.Unlock()
		f.logger.Debug().Str("channel_id", f.channelID).Msg("discarding page fetched before refresh")
		return false, nil
	}
	added := f.mergeLocked(page.Videos)
	f.cursor = page.NextCursor
	snap, notify := f.snapshotLocked(), f.onChange
	f.mu.Unlock()

	f.logger.Debug().Str("channel_id", f.channelID).Int("added", added).Bool("has_more", snap.HasMore).Msg("feed page merged")
	if notify != nil {
		notify(snap)
	}
	return true, nil
}

// Refresh remplace toute la collection par la première page (pas de fusion).
// Depuis Failed, il sert aussi de relance manuelle.
func (f *Feed) Refresh(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.released || f.refreshing || (f.state != FeedReady && f.state != FeedFailed) {
		f.mu.Unlock()
		return false, nil
	}
	f.refreshing = true
	f.mu.Unlock()

	page, err := f.catalog.ListVideos(ctx, f.channelID, "")

	f.mu.Lock()
	f.refreshing = false
	if f.released {
		f.mu.Unlock()
		return false, nil
	}
	if err != nil {
		if f.state == FeedFailed {
			f.err = err
		}
		f.mu.Unlock()
		f.logger.Warn().Err(err).Str("channel_id", f.channelID).Msg("feed refresh failed")
		return false, err
	}
	f.replaceLocked(page)
	snap, notify := f.snapshotLocked(), f.onChange
	f.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
	return true, nil
}

func (f *Feed) replaceLocked(page domain.FeedPage) {
	f.videos = f.videos[:0:0]
	f.mergeLocked(page.Videos)
	f.cursor = page.NextCursor
	f.state = FeedReady
	f.err = nil
	f.generation++
}

// mergeLocked ajoute en fin de liste les vidéos dont l'identifiant est inconnu.
func (f *Feed) mergeLocked(videos []domain.VideoSummary) int {
	known := make(map[string]struct{}, len(f.videos)+len(videos))
	for _, v := range f.videos {
		known[v.ID] = struct{}{}
	}
	added := 0
	for _, v := range videos {
		if _, ok := known[v.ID]; ok {
			continue
		}
		known[v.ID] = struct{}{}
		f.videos = append(f.videos, v)
		added++
	}
	return added
}

// Release marque la vue comme fermée : les réponses en vol sont ignorées.
func (f *Feed) Release() {
	f.mu.Lock()
	f.released = true
	f.onChange = nil
	f.mu.Unlock()
}

func (f *Feed) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Feed) Cursor() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

func (f *Feed) HasMore() bool { return f.Cursor() != "" }

func (f *Feed) Videos() []domain.VideoSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.VideoSummary, len(f.videos))
	copy(out, f.videos)
	return out
}

func (f *Feed) Find(videoID string) (domain.VideoSummary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(videoID)
	if i < 0 {
		return domain.VideoSummary{}, false
	}
	return f.videos[i], true
}

// Remove retire la vidéo de la collection de travail (pas de l'amont).
func (f *Feed) Remove(videoID string) bool {
	f.mu.Lock()
	i := f.indexLocked(videoID)
	if i < 0 {
		f.mu.Unlock()
		return false
	}
	next := make([]domain.VideoSummary, 0, len(f.videos)-1)
	next = append(next, f.videos[:i]...)
	f.videos = append(next, f.videos[i+1:]...)
	snap, notify := f.snapshotLocked(), f.onChange
	f.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
	return true
}

// NextAfter renvoie la première vidéo strictement après videoID pour laquelle skip est faux.
// Si videoID n'est pas dans la collection, la recherche part du début.
func (f *Feed) NextAfter(videoID string, skip func(videoID string) bool) (domain.VideoSummary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.videos[f.indexLocked(videoID)+1:] {
		if skip == nil || !skip(v.ID) {
			return v, true
		}
	}
	return domain.VideoSummary{}, false
}

func (f *Feed) indexLocked(videoID string) int {
	for i, v := range f.videos {
		if v.ID == videoID {
			return i
		}
	}
	return -1
}

func (f *Feed) Snapshot() FeedSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Feed) snapshotLocked() FeedSnapshot {
	videos := make([]domain.VideoSummary, len(f.videos))
	copy(videos, f.videos)
	snap := FeedSnapshot{
		ChannelID:   f.channelID,
		State:       f.state,
		Videos:      videos,
		NextCursor:  f.cursor,
		HasMore:     f.cursor != "",
		LoadingMore: f.loadingMore,
		Refreshing:  f.refreshing,
	}
	if f.err != nil {
		snap.Error = f.err.Error()
	}
	return snap
}
