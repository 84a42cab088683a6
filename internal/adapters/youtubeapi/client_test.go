package youtubeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

type fakeAPI struct {
	mu       sync.Mutex
	requests []*http.Request
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{routes: map[string]func(w http.ResponseWriter, r *http.Request){}}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.requests = append(api.requests, r.Clone(context.Background()))
		api.mu.Unlock()
		for suffix, h := range api.routes {
			if strings.HasSuffix(r.URL.Path, suffix) {
				w.Header().Set("Content-Type", "application/json")
				h(w, r)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(ts.Close)
	return api, ts
}

func (a *fakeAPI) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

func (a *fakeAPI) last(suffix string) *http.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.requests) - 1; i >= 0; i-- {
		if strings.HasSuffix(a.requests[i].URL.Path, suffix) {
			return a.requests[i]
		}
	}
	return nil
}

func TestClient_MissingKeyFailsBeforeNetwork(t *testing.T) {
	api, ts := newFakeAPI(t)
	c := New(zerolog.Nop(), "  ").WithEndpoint(ts.URL + "/")

	if _, err := c.ListVideos(context.Background(), "UCxxxxxxxxxxxxxxxxxxxxxx", ""); !errors.Is(err, ports.ErrNotConfigured) {
		t.Fatalf("ListVideos: expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.Comments(context.Background(), "v1", ""); !errors.Is(err, ports.ErrNotConfigured) {
		t.Fatalf("Comments: expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.Channel(context.Background(), "UCxxxxxxxxxxxxxxxxxxxxxx"); !errors.Is(err, ports.ErrNotConfigured) {
		t.Fatalf("Channel: expected ErrNotConfigured, got %v", err)
	}
	if api.count() != 0 {
		t.Fatalf("expected no request, got %d", api.count())
	}
}

func TestClient_ListVideosMapsPageAndDurations(t *testing.T) {
	api, ts := newFakeAPI(t)
	api.routes["/search"] = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"nextPageToken": "CURSOR2",
			"items": [
				{"id": {"kind": "youtube#video", "videoId": "v1"}, "snippet": {"title": "First", "publishedAt": "2024-03-02T10:00:00Z", "thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/v1/mqdefault.jpg"}}}},
				{"id": {"kind": "youtube#video", "videoId": "v2"}, "snippet": {"title": "Second", "publishedAt": "2024-03-01T10:00:00Z", "thumbnails": {"default": {"url": "https://i.ytimg.com/vi/v2/default.jpg"}}}},
				{"id": {"kind": "youtube#channel", "channelId": "UCzzzzzzzzzzzzzzzzzzzzzz"}}
			]
		}`))
	}
	api.routes["/videos"] = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [{"id": "v1", "contentDetails": {"duration": "PT4M13S"}}]}`))
	}

	c := New(zerolog.Nop(), "key").WithEndpoint(ts.URL + "/")
	page, err := c.ListVideos(context.Background(), "UCxxxxxxxxxxxxxxxxxxxxxx", "CURSOR1")
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if page.NextCursor != "CURSOR2" {
		t.Fatalf("cursor: want %q, got %q", "CURSOR2", page.NextCursor)
	}
	if len(page.Videos) != 2 {
		t.Fatalf("videos: want 2, got %d", len(page.Videos))
	}
	if page.Videos[0].ID != "v1" || page.Videos[0].Title != "First" || page.Videos[0].Duration != "PT4M13S" {
		t.Fatalf("unexpected first video: %+v", page.Videos[0])
	}
	if page.Videos[0].PublishedAt.IsZero() {
		t.Fatalf("expected publishedAt to be parsed")
	}
	if page.Videos[1].ThumbnailURL != "https://i.ytimg.com/vi/v2/default.jpg" {
		t.Fatalf("thumbnail fallback: got %q", page.Videos[1].ThumbnailURL)
	}
	if page.Videos[1].Duration != "" {
		t.Fatalf("expected empty duration, got %q", page.Videos[1].Duration)
	}

	req := api.last("/search")
	if req == nil {
		t.Fatalf("expected a search request")
	}
	q := req.URL.Query()
	for k, want := range map[string]string{
		"channelId":  "UCxxxxxxxxxxxxxxxxxxxxxx",
		"maxResults": "50",
		"order":      "date",
		"type":       "video",
		"pageToken":  "CURSOR1",
		"key":        "key",
	} {
		if got := q.Get(k); got != want {
			t.Fatalf("query %s: want %q, got %q", k, want, got)
		}
	}
}

func TestClient_ListVideosDurationFailureIsIgnored(t *testing.T) {
	api, ts := newFakeAPI(t)
	api.routes["/search"] = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [{"id": {"videoId": "v1"}, "snippet": {"title": "Only"}}]}`))
	}
	api.routes["/videos"] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"code": 500, "message": "backend error"}}`))
	}

	c := New(zerolog.Nop(), "key").WithEndpoint(ts.URL + "/")
	page, err := c.ListVideos(context.Background(), "UCxxxxxxxxxxxxxxxxxxxxxx", "")
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(page.Videos) != 1 || page.NextCursor != "" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestClient_UpstreamErrorCarriesStatusAndMessage(t *testing.T) {
	api, ts := newFakeAPI(t)
	api.routes["/search"] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "The request cannot be completed because you have exceeded your quota."}}`))
	}

	c := New(zerolog.Nop(), "key").WithEndpoint(ts.URL + "/")
	_, err := c.ListVideos(context.Background(), "UCxxxxxxxxxxxxxxxxxxxxxx", "")
	var upErr *ports.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T %v", err, err)
	}
	if upErr.Status != http.StatusForbidden {
		t.Fatalf("status: want 403, got %d", upErr.Status)
	}
	if !strings.Contains(upErr.Message, "quota") {
		t.Fatalf("message: got %q", upErr.Message)
	}
}

func TestClient_ResolveChannel(t *testing.T) {
	api, ts := newFakeAPI(t)
	api.routes["/channels"] = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("forHandle") == "missing" {
			_, _ = w.Write([]byte(`{"items": []}`))
			return
		}
		_, _ = w.Write([]byte(`{"items": [{"id": "UCresolvedresolvedresolv"}]}`))
	}
	c := New(zerolog.Nop(), "key").WithEndpoint(ts.URL + "/")
	ctx := context.Background()

	id, err := c.ResolveChannel(ctx, domain.ChannelRef{Kind: domain.ChannelRefHandle, Value: "@somebody"})
	if err != nil {
		t.Fatalf("ResolveChannel(handle): %v", err)
	}
	if id != "UCresolvedresolvedresolv" {
		t.Fatalf("id: got %q", id)
	}
	if got := api.last("/channels").URL.Query().Get("forHandle"); got != "somebody" {
		t.Fatalf("forHandle: got %q", got)
	}

	if _, err := c.ResolveChannel(ctx, domain.ChannelRef{Kind: domain.ChannelRefCustom, Value: "oldname"}); err != nil {
		t.Fatalf("ResolveChannel(custom): %v", err)
	}
	if got := api.last("/channels").URL.Query().Get("forUsername"); got != "oldname" {
		t.Fatalf("forUsername: got %q", got)
	}

	if _, err := c.ResolveChannel(ctx, domain.ChannelRef{Kind: domain.ChannelRefHandle, Value: "@missing"}); !errors.Is(err, ports.ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}

	before := api.count()
	id, err = c.ResolveChannel(ctx, domain.ChannelRef{Kind: domain.ChannelRefID, Value: "UCxxxxxxxxxxxxxxxxxxxxxx"})
	if err != nil || id != "UCxxxxxxxxxxxxxxxxxxxxxx" {
		t.Fatalf("ResolveChannel(id): %q %v", id, err)
	}
	if api.count() != before {
		t.Fatalf("ids must not hit the api")
	}
}

func TestClient_ChannelAndComments(t *testing.T) {
	api, ts := newFakeAPI(t)
	api.routes["/channels"] = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [{"id": "UCxxxxxxxxxxxxxxxxxxxxxx", "snippet": {"title": "Chan", "description": "About", "thumbnails": {"default": {"url": "d.jpg"}, "high": {"url": "h.jpg"}}}}]}`))
	}
	api.routes["/commentThreads"] = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"nextPageToken": "C2",
			"items": [{
				"id": "t1",
				"snippet": {"topLevelComment": {"id": "c1", "snippet": {"authorDisplayName": "Ann", "textDisplay": "<b>hi</b>", "publishedAt": "2024-01-01T00:00:00Z", "likeCount": 7}}},
				"replies": {"comments": [{"id": "r1", "snippet": {"authorDisplayName": "Bob", "textDisplay": "yo", "likeCount": 1}}]}
			}]
		}`))
	}
	c := New(zerolog.Nop(), "key").WithEndpoint(ts.URL + "/")
	ctx := context.Background()

	ch, err := c.Channel(ctx, "UCxxxxxxxxxxxxxxxxxxxxxx")
	if err != nil {
		t.Fatalf("Channel: %v", err)
	}
	if ch.Title != "Chan" || ch.Description != "About" || ch.Thumbnails["high"] != "h.jpg" || ch.Thumbnails["default"] != "d.jpg" {
		t.Fatalf("unexpected channel: %+v", ch)
	}

	page, err := c.Comments(ctx, "v1", "")
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if page.NextCursor != "C2" || len(page.Threads) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	th := page.Threads[0]
	if th.ID != "t1" || th.Author != "Ann" || th.Text != "<b>hi</b>" || th.LikeCount != 7 {
		t.Fatalf("unexpected thread: %+v", th)
	}
	if len(th.Replies) != 1 || th.Replies[0].Author != "Bob" {
		t.Fatalf("unexpected replies: %+v", th.Replies)
	}
	q := api.last("/commentThreads").URL.Query()
	if q.Get("order") != "relevance" || q.Get("videoId") != "v1" || q.Get("maxResults") != "50" {
		t.Fatalf("unexpected comment query: %v", q)
	}
}
