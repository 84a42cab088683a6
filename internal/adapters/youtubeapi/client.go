// Package youtubeapi implémente ports.VideoCatalog avec l'API YouTube Data v3.
package youtubeapi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/metrics"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

const (
	pageSize       = 50
	defaultTimeout = 15 * time.Second
)

type Client struct {
	logger   zerolog.Logger
	apiKey   string
	endpoint string
	timeout  time.Duration
	metrics  *metrics.Metrics

	mu  sync.Mutex
	svc *youtube.Service
}

func New(logger zerolog.Logger, apiKey string) *Client {
	return &Client{
		logger:  logger,
		apiKey:  strings.TrimSpace(apiKey),
		timeout: defaultTimeout,
	}
}

// WithEndpoint remplace l'URL de base de l'API (tests).
func (c *Client) WithEndpoint(endpoint string) *Client {
	if strings.TrimSpace(endpoint) != "" {
		c.endpoint = strings.TrimSpace(endpoint)
	}
	return c
}

func (c *Client) WithMetrics(m *metrics.Metrics) *Client {
	c.metrics = m
	return c
}

func (c *Client) service(ctx context.Context) (*youtube.Service, error) {
	if c.apiKey == "" {
		return nil, ports.ErrNotConfigured
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.svc != nil {
		return c.svc, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(c.apiKey)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	// Le contexte de création ne doit pas borner la durée de vie du service.
	svc, err := youtube.NewService(context.WithoutCancel(ctx), opts...)
	if err != nil {
		return nil, &ports.UpstreamError{Op: "youtube.NewService", Err: err}
	}
	c.svc = svc
	return svc, nil
}

func (c *Client) ResolveChannel(ctx context.Context, ref domain.ChannelRef) (string, error) {
	if ref.Kind == domain.ChannelRefID {
		return ref.Value, nil
	}
	svc, err := c.service(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := svc.Channels.List([]string{"id"})
	switch ref.Kind {
	case domain.ChannelRefHandle:
		call = call.ForHandle(strings.TrimPrefix(ref.Value, "@"))
	case domain.ChannelRefCustom:
		call = call.ForUsername(ref.Value)
	default:
		return "", domain.ErrInvalidChannelRef
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return "", c.fail("channels.list", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == "" {
		c.metrics.ObserveUpstream("channels.list", ports.ErrChannelNotFound)
		return "", ports.ErrChannelNotFound
	}
	c.metrics.ObserveUpstream("channels.list", nil)
	return resp.Items[0].Id, nil
}

func (c *Client) ListVideos(ctx context.Context, channelID, cursor string) (domain.FeedPage, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return domain.FeedPage{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := svc.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		MaxResults(pageSize).
		Order("date").
		Type("video")
	if cursor != "" {
		call = call.PageToken(cursor)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return domain.FeedPage{}, c.fail("search.list", err)
	}
	c.metrics.ObserveUpstream("search.list", nil)

	page := domain.FeedPage{
		Videos:     make([]domain.VideoSummary, 0, len(resp.Items)),
		NextCursor: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		v := domain.VideoSummary{ID: item.Id.VideoId}
		if item.Snippet != nil {
			v.Title = item.Snippet.Title
			v.PublishedAt = parseTime(item.Snippet.PublishedAt)
			v.ThumbnailURL = thumbnailURL(item.Snippet.Thumbnails)
		}
		page.Videos = append(page.Videos, v)
	}

	c.fillDurations(ctx, svc, page.Videos)
	return page, nil
}

// fillDurations complète Duration en un seul appel videos.list.
// Best-effort : un échec laisse les durées vides.
func (c *Client) fillDurations(ctx context.Context, svc *youtube.Service, videos []domain.VideoSummary) {
	if len(videos) == 0 {
		return
	}
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	resp, err := svc.Videos.List([]string{"contentDetails"}).Id(ids...).Context(ctx).Do()
	if err != nil {
		c.metrics.ObserveUpstream("videos.list", err)
		c.logger.Warn().Err(err).Int("videos", len(ids)).Msg("video durations unavailable")
		return
	}
	c.metrics.ObserveUpstream("videos.list", nil)

	durations := make(map[string]string, len(resp.Items))
	for _, item := range resp.Items {
		if item != nil && item.ContentDetails != nil {
			durations[item.Id] = item.ContentDetails.Duration
		}
	}
	for i := range videos {
		videos[i].Duration = durations[videos[i].ID]
	}
}

func (c *Client) Channel(ctx context.Context, channelID string) (domain.Channel, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return domain.Channel{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := svc.Channels.List([]string{"snippet"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		return domain.Channel{}, c.fail("channels.list", err)
	}
	if len(resp.Items) == 0 || resp.Items[0] == nil {
		c.metrics.ObserveUpstream("channels.list", ports.ErrChannelNotFound)
		return domain.Channel{}, ports.ErrChannelNotFound
	}
	c.metrics.ObserveUpstream("channels.list", nil)

	item := resp.Items[0]
	ch := domain.Channel{ID: item.Id}
	if item.Snippet != nil {
		ch.Title = item.Snippet.Title
		ch.Description = item.Snippet.Description
		ch.Thumbnails = thumbnailSet(item.Snippet.Thumbnails)
	}
	return ch, nil
}

func (c *Client) Comments(ctx context.Context, videoID, cursor string) (domain.CommentPage, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return domain.CommentPage{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := svc.CommentThreads.List([]string{"snippet", "replies"}).
		VideoId(videoID).
		MaxResults(pageSize).
		Order("relevance")
	if cursor != "" {
		call = call.PageToken(cursor)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return domain.CommentPage{}, c.fail("commentThreads.list", err)
	}
	c.metrics.ObserveUpstream("commentThreads.list", nil)

	page := domain.CommentPage{
		Threads:    make([]domain.CommentThread, 0, len(resp.Items)),
		NextCursor: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		if item == nil || item.Snippet == nil || item.Snippet.TopLevelComment == nil {
			continue
		}
		thread := domain.CommentThread{
			Comment: toComment(item.Snippet.TopLevelComment),
			Replies: []domain.Comment{},
		}
		thread.ID = item.Id
		if item.Replies != nil {
			for _, r := range item.Replies.Comments {
				if r != nil {
					thread.Replies = append(thread.Replies, toComment(r))
				}
			}
		}
		page.Threads = append(page.Threads, thread)
	}
	return page, nil
}

func (c *Client) fail(op string, err error) error {
	wrapped := upstreamError(op, err)
	c.metrics.ObserveUpstream(op, wrapped)
	return wrapped
}

func upstreamError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &ports.UpstreamError{Op: op, Status: gerr.Code, Message: gerr.Message, Err: err}
	}
	return &ports.UpstreamError{Op: op, Err: err}
}

func toComment(c *youtube.Comment) domain.Comment {
	out := domain.Comment{ID: c.Id}
	if c.Snippet != nil {
		out.Author = c.Snippet.AuthorDisplayName
		out.Text = c.Snippet.TextDisplay
		out.PublishedAt = parseTime(c.Snippet.PublishedAt)
		out.LikeCount = c.Snippet.LikeCount
	}
	return out
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Medium, t.High, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

func thumbnailSet(t *youtube.ThumbnailDetails) map[string]string {
	if t == nil {
		return nil
	}
	out := map[string]string{}
	for name, th := range map[string]*youtube.Thumbnail{
		"default":  t.Default,
		"medium":   t.Medium,
		"high":     t.High,
		"standard": t.Standard,
		"maxres":   t.Maxres,
	} {
		if th != nil && th.Url != "" {
			out[name] = th.Url
		}
	}
	return out
}
