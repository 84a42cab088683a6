package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/metrics"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

// View est une chaîne ouverte : sa liste paginée et sa sélection.
type View struct {
	ID        string
	Input     string
	ChannelID string
	CreatedAt time.Time

	Feed      *Feed
	Selection *Selection

	mu       sync.Mutex
	lastUsed time.Time
}

func (v *View) touch(now time.Time) {
	v.mu.Lock()
	v.lastUsed = now
	v.mu.Unlock()
}

func (v *View) LastUsed() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastUsed
}

// ViewSnapshot: Videos ne contient que les vidéos visibles ; Total compte la liste de travail.
type ViewSnapshot struct {
	FeedSnapshot

	ID          string               `json:"id"`
	Input       string               `json:"input"`
	Total       int                  `json:"total"`
	Watched     []string             `json:"watched"`
	ShowWatched bool                 `json:"showWatched"`
	Selected    *domain.VideoSummary `json:"selected,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

type viewEvent struct {
	ViewID    string `json:"viewId"`
	ChannelID string `json:"channelId"`
	Input     string `json:"input,omitempty"`
}

type feedEvent struct {
	ViewID    string    `json:"viewId"`
	ChannelID string    `json:"channelId"`
	State     FeedState `json:"state"`
	Videos    int       `json:"videos"`
	HasMore   bool      `json:"hasMore"`
}

type ViewerService struct {
	logger  zerolog.Logger
	catalog ports.VideoCatalog
	ledger  *WatchLedger
	filter  *ContentFilter
	history *ChannelHistory
	prefs   *PreferencesService
	bus     ports.EventBus
	metrics *metrics.Metrics
	now     func() time.Time

	mu    sync.Mutex
	views map[string]*View
}

func NewViewerService(
	logger zerolog.Logger,
	catalog ports.VideoCatalog,
	ledger *WatchLedger,
	filter *ContentFilter,
	history *ChannelHistory,
	prefs *PreferencesService,
	bus ports.EventBus,
	m *metrics.Metrics,
) *ViewerService {
	return &ViewerService{
		logger:  logger,
		catalog: catalog,
		ledger:  ledger,
		filter:  filter,
		history: history,
		prefs:   prefs,
		bus:     bus,
		metrics: m,
		now:     time.Now,
		views:   map[string]*View{},
	}
}

// Open résout la saisie, crée la vue et charge la première page.
// Un échec amont du premier chargement ne fait pas échouer Open : la vue porte l'erreur.
// Sans clé d'API, aucune vue n'est gardée et l'historique n'est pas touché.
func (s *ViewerService) Open(ctx context.Context, input string) (ViewSnapshot, error) {
	ref, err := domain.ParseChannelRef(input)
	if err != nil {
		return ViewSnapshot{}, err
	}
	channelID, err := s.catalog.ResolveChannel(ctx, ref)
	if err != nil {
		return ViewSnapshot{}, err
	}

	now := s.now().UTC()
	id := xid.New().String()
	feed := NewFeed(s.logger.With().Str("view_id", id).Logger(), s.catalog, channelID)
	v := &View{
		ID:        id,
		Input:     input,
		ChannelID: channelID,
		CreatedAt: now,
		Feed:      feed,
		Selection: NewSelection(id, feed, s.ledger, s.bus),
		lastUsed:  now,
	}
	feed.OnChange(func(snap FeedSnapshot) {
		publish(s.bus, TopicFeedUpdated, feedEvent{
			ViewID:    id,
			ChannelID: channelID,
			State:     snap.State,
			Videos:    len(snap.Videos),
			HasMore:   snap.HasMore,
		})
	})

	if err := feed.Load(ctx); err != nil && errors.Is(err, ErrNotConfigured) {
		feed.Release()
		return ViewSnapshot{}, err
	}
	// La navigation a abouti (même si la chaîne renvoie une erreur) : on l'historise.
	s.history.Record(ctx, input)

	s.mu.Lock()
	s.views[id] = v
	n := len(s.views)
	s.mu.Unlock()
	s.metrics.SetOpenViews(n)

	s.logger.Info().Str("view_id", id).Str("channel_id", channelID).Str("state", string(feed.State())).Msg("view opened")
	publish(s.bus, TopicViewOpened, viewEvent{ViewID: id, ChannelID: channelID, Input: input})
	return s.snapshot(v, nil), nil
}

func (s *ViewerService) get(id string) (*View, error) {
	s.mu.Lock()
	v, ok := s.views[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	v.touch(s.now().UTC())
	return v, nil
}

// View renvoie l'état de la vue ; showWatched nil = préférence enregistrée.
func (s *ViewerService) View(id string, showWatched *bool) (ViewSnapshot, error) {
	v, err := s.get(id)
	if err != nil {
		return ViewSnapshot{}, err
	}
	return s.snapshot(v, showWatched), nil
}

func (s *ViewerService) List() []ViewSnapshot {
	s.mu.Lock()
	views := make([]*View, 0, len(s.views))
	for _, v := range s.views {
		views = append(views, v)
	}
	s.mu.Unlock()

	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.Before(views[j].CreatedAt) })
	out := make([]ViewSnapshot, 0, len(views))
	for _, v := range views {
		out = append(out, s.snapshot(v, nil))
	}
	return out
}

func (s *ViewerService) Close(id string) error {
	s.mu.Lock()
	v, ok := s.views[id]
	if ok {
		delete(s.views, id)
	}
	n := len(s.views)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.release(v, n, "closed")
	return nil
}

// ExpireIdle ferme les vues inutilisées depuis plus de ttl.
func (s *ViewerService) ExpireIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := s.now().UTC().Add(-ttl)

	s.mu.Lock()
	var expired []*View
	for id, v := range s.views {
		if v.LastUsed().Before(cutoff) {
			expired = append(expired, v)
			delete(s.views, id)
		}
	}
	n := len(s.views)
	s.mu.Unlock()

	for _, v := range expired {
		s.release(v, n, "expired")
	}
	return len(expired)
}

func (s *ViewerService) release(v *View, remaining int, reason string) {
	v.Feed.Release()
	s.metrics.SetOpenViews(remaining)
	s.logger.Info().Str("view_id", v.ID).Str("channel_id", v.ChannelID).Str("reason", reason).Msg("view released")
	publish(s.bus, TopicViewClosed, viewEvent{ViewID: v.ID, ChannelID: v.ChannelID})
}

func (s *ViewerService) LoadMore(ctx context.Context, id string) (ViewSnapshot, bool, error) {
	v, err := s.get(id)
	if err != nil {
		return ViewSnapshot{}, false, err
	}
	loaded, err := v.Feed.LoadMore(ctx)
	return s.snapshot(v, nil), loaded, err
}

func (s *ViewerService) Refresh(ctx context.Context, id string) (ViewSnapshot, bool, error) {
	v, err := s.get(id)
	if err != nil {
		return ViewSnapshot{}, false, err
	}
	refreshed, err := v.Feed.Refresh(ctx)
	return s.snapshot(v, nil), refreshed, err
}

func (s *ViewerService) Select(ctx context.Context, id, videoID string) (domain.VideoSummary, error) {
	v, err := s.get(id)
	if err != nil {
		return domain.VideoSummary{}, err
	}
	return v.Selection.Select(ctx, videoID)
}

func (s *ViewerService) Selected(id string) (domain.VideoSummary, bool, error) {
	v, err := s.get(id)
	if err != nil {
		return domain.VideoSummary{}, false, err
	}
	cur, ok := v.Selection.Current()
	return cur, ok, nil
}

func (s *ViewerService) ClearSelection(id string) error {
	v, err := s.get(id)
	if err != nil {
		return err
	}
	v.Selection.Clear()
	return nil
}

// Finished applique la politique d'enchaînement avec la préférence autoHideWatched.
func (s *ViewerService) Finished(ctx context.Context, id string) (domain.VideoSummary, bool, error) {
	v, err := s.get(id)
	if err != nil {
		return domain.VideoSummary{}, false, err
	}
	return v.Selection.Finished(ctx, s.prefs.Get().AutoHideWatched)
}

func (s *ViewerService) Channel(ctx context.Context, input string) (domain.Channel, error) {
	ref, err := domain.ParseChannelRef(input)
	if err != nil {
		return domain.Channel{}, err
	}
	channelID, err := s.catalog.ResolveChannel(ctx, ref)
	if err != nil {
		return domain.Channel{}, err
	}
	return s.catalog.Channel(ctx, channelID)
}

func (s *ViewerService) Comments(ctx context.Context, videoID, cursor string) (domain.CommentPage, error) {
	if videoID == "" {
		return domain.CommentPage{}, ErrNotFound
	}
	return s.catalog.Comments(ctx, videoID, cursor)
}

func (s *ViewerService) snapshot(v *View, showWatched *bool) ViewSnapshot {
	show := s.prefs.Get().ShowWatched
	if showWatched != nil {
		show = *showWatched
	}

	fs := v.Feed.Snapshot()
	total := len(fs.Videos)
	keep := VisibilityFilter(s.filter, s.ledger, show)
	visible := make([]domain.VideoSummary, 0, total)
	watched := []string{}
	for _, video := range fs.Videos {
		if !keep(video) {
			continue
		}
		visible = append(visible, video)
		if s.ledger.IsWatched(video.ID) {
			watched = append(watched, video.ID)
		}
	}
	fs.Videos = visible

	snap := ViewSnapshot{
		FeedSnapshot: fs,
		ID:           v.ID,
		Input:        v.Input,
		Total:        total,
		Watched:      watched,
		ShowWatched:  show,
		CreatedAt:    v.CreatedAt,
	}
	if cur, ok := v.Selection.Current(); ok {
		snap.Selected = &cur
	}
	return snap
}
