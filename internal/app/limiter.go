package app

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

// UpstreamLimiter borne les appels à l'API amont : nombre d'appels simultanés
// et débit (token bucket). rps <= 0 désactive la limite de débit.
type UpstreamLimiter struct {
	rate *rate.Limiter

	mu       sync.Mutex
	limit    int
	inFlight int
	notify   chan struct{}
}

func NewUpstreamLimiter(concurrency int, rps float64) *UpstreamLimiter {
	if concurrency <= 0 {
		concurrency = 1
	}
	l := &UpstreamLimiter{limit: concurrency, notify: make(chan struct{})}
	if rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		l.rate = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return l
}

func (l *UpstreamLimiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

// Acquire attend une place puis un jeton. Respecte le contexte.
func (l *UpstreamLimiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		if l.inFlight < l.limit {
			l.inFlight++
			l.mu.Unlock()
			break
		}
		ch := l.notify
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
	if l.rate != nil {
		if err := l.rate.Wait(ctx); err != nil {
			l.Release()
			return err
		}
	}
	return nil
}

func (l *UpstreamLimiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inFlight > 0 {
		l.inFlight--
	}
	// Réveille tous les waiters ; le premier à reprendre le verrou passe.
	close(l.notify)
	l.notify = make(chan struct{})
}

// limiterError: une attente interrompue (timeout, annulation) est un échec amont.
func limiterError(err error) error {
	return &ports.UpstreamError{Op: "upstream.limiter", Err: err}
}

type limitedCatalog struct {
	next    ports.VideoCatalog
	limiter *UpstreamLimiter
}

// LimitCatalog fait passer chaque appel de c par l.
func LimitCatalog(c ports.VideoCatalog, l *UpstreamLimiter) ports.VideoCatalog {
	if l == nil {
		return c
	}
	return &limitedCatalog{next: c, limiter: l}
}

func (c *limitedCatalog) ResolveChannel(ctx context.Context, ref domain.ChannelRef) (string, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return "", limiterError(err)
	}
	defer c.limiter.Release()
	return c.next.ResolveChannel(ctx, ref)
}

func (c *limitedCatalog) ListVideos(ctx context.Context, channelID, cursor string) (domain.FeedPage, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return domain.FeedPage{}, limiterError(err)
	}
	defer c.limiter.Release()
	return c.next.ListVideos(ctx, channelID, cursor)
}

func (c *limitedCatalog) Channel(ctx context.Context, channelID string) (domain.Channel, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return domain.Channel{}, limiterError(err)
	}
	defer c.limiter.Release()
	return c.next.Channel(ctx, channelID)
}

func (c *limitedCatalog) Comments(ctx context.Context, videoID, cursor string) (domain.CommentPage, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return domain.CommentPage{}, limiterError(err)
	}
	defer c.limiter.Release()
	return c.next.Comments(ctx, videoID, cursor)
}
