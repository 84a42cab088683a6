package app

import (
	"context"
	"sync"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

// Selection tient la vidéo courante d'une vue et décide de la suivante.
// Ordre des verrous : Selection puis Feed.
type Selection struct {
	viewID string
	feed   *Feed
	ledger *WatchLedger
	bus    ports.EventBus

	mu      sync.Mutex
	current *domain.VideoSummary
}

type selectionEvent struct {
	ViewID  string               `json:"viewId"`
	Video   *domain.VideoSummary `json:"video"`
	Advance bool                 `json:"advance,omitempty"`
}

func NewSelection(viewID string, feed *Feed, ledger *WatchLedger, bus ports.EventBus) *Selection {
	return &Selection{viewID: viewID, feed: feed, ledger: ledger, bus: bus}
}

func (s *Selection) Current() (domain.VideoSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.VideoSummary{}, false
	}
	return *s.current, true
}

// Select change la vidéo courante. Si l'ancienne est vue entre-temps, elle sort
// de la liste de travail ; un Refresh la fera revenir.
func (s *Selection) Select(ctx context.Context, videoID string) (domain.VideoSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.feed.Find(videoID)
	if !ok {
		return domain.VideoSummary{}, ErrNotFound
	}
	if s.current != nil && s.current.ID != videoID && s.ledger.IsWatched(s.current.ID) {
		s.feed.Remove(s.current.ID)
	}
	s.current = &next
	publish(s.bus, TopicVideoSelected, selectionEvent{ViewID: s.viewID, Video: s.current})
	return next, nil
}

// Finished marque la vidéo courante comme vue. Avec autoAdvance, la première vidéo
// non vue placée après elle devient courante et la vidéo terminée quitte la liste.
// Sans candidate, la sélection ne bouge pas (pas de LoadMore implicite).
func (s *Selection) Finished(ctx context.Context, autoAdvance bool) (domain.VideoSummary, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.VideoSummary{}, false, ErrNotFound
	}
	done := *s.current
	s.ledger.Add(ctx, done.ID, done.Title)

	if !autoAdvance {
		return done, false, nil
	}
	next, ok := s.feed.NextAfter(done.ID, s.ledger.IsWatched)
	if !ok {
		return done, false, nil
	}
	s.current = &next
	s.feed.Remove(done.ID)
	publish(s.bus, TopicVideoSelected, selectionEvent{ViewID: s.viewID, Video: s.current, Advance: true})
	return next, true, nil
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.current = nil
	publish(s.bus, TopicVideoSelected, selectionEvent{ViewID: s.viewID})
}
