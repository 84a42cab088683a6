package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
)

func TestContentFilter_Matches(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if fx.filter.Matches("anything") {
		t.Fatalf("empty filter matches nothing")
	}
	fx.filter.Add(ctx, "cat")
	if !fx.filter.Matches("Funny Cat Video") {
		t.Fatalf("case-insensitive substring should match")
	}
	fx.filter.Add(ctx, "shorts")
	if !fx.filter.Matches("My Shorts #1") {
		t.Fatalf("shorts should match")
	}
	if fx.filter.Matches("Dog compilation") {
		t.Fatalf("unrelated title should not match")
	}
}

func TestContentFilter_UnicodeFolding(t *testing.T) {
	fx := newFixture(t)
	fx.filter.Add(context.Background(), "ÉTÉ")
	if !fx.filter.Matches("vacances d'été 2024") {
		t.Fatalf("accented letters should fold")
	}
}

func TestContentFilter_AddTrimsAndKeepsDuplicates(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if fx.filter.Add(ctx, "   ") {
		t.Fatalf("blank term should be ignored")
	}
	fx.filter.Add(ctx, "  cat ")
	fx.filter.Add(ctx, "cat")

	terms := fx.filter.Terms()
	if len(terms) != 2 || terms[0] != "cat" || terms[1] != "cat" {
		t.Fatalf("got %q", terms)
	}
	if raw := fx.kv.raw(blacklistKey); raw != `["cat","cat"]` {
		t.Fatalf("persisted: %s", raw)
	}

	fx.filter.Remove(ctx, "cat")
	if n := len(fx.filter.Terms()); n != 0 {
		t.Fatalf("remove should drop every exact match, %d left", n)
	}
}

func TestVisibilityFilter(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.filter.Add(ctx, "cat")
	fx.ledger.Add(ctx, "w", "")

	vs := []domain.VideoSummary{
		{ID: "a", Title: "Funny Cat Video"},
		{ID: "w", Title: "Watched one"},
		{ID: "b", Title: "Fresh"},
	}

	keep := VisibilityFilter(fx.filter, fx.ledger, false)
	var got []string
	for _, v := range vs {
		if keep(v) {
			got = append(got, v.ID)
		}
	}
	if fmt.Sprint(got) != "[b]" {
		t.Fatalf("hide watched: got %v", got)
	}

	keep = VisibilityFilter(fx.filter, fx.ledger, true)
	got = nil
	for _, v := range vs {
		if keep(v) {
			got = append(got, v.ID)
		}
	}
	if fmt.Sprint(got) != "[w b]" {
		t.Fatalf("show watched: got %v", got)
	}
}

func TestChannelHistory_KeepsTenDistinct(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.history.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	for i := 0; i < 12; i++ {
		fx.history.Record(ctx, fmt.Sprintf("https://youtube.com/@c%d", i))
	}
	fx.history.Record(ctx, "https://youtube.com/@c5")

	list := fx.history.List()
	if len(list) != domain.MaxChannelHistory {
		t.Fatalf("expected %d entries, got %d", domain.MaxChannelHistory, len(list))
	}
	if list[0].URL != "https://youtube.com/@c5" {
		t.Fatalf("most recent first, got %s", list[0].URL)
	}
	seen := map[string]bool{}
	for _, e := range list {
		if seen[e.URL] {
			t.Fatalf("duplicate %s", e.URL)
		}
		seen[e.URL] = true
	}
	if seen["https://youtube.com/@c0"] {
		t.Fatalf("oldest entry should have been dropped")
	}

	fx.history.Clear(ctx)
	if len(fx.history.List()) != 0 {
		t.Fatalf("expected empty history")
	}
}

func TestPreferences_DefaultsAndPut(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	p := fx.prefs.Get()
	if p.AutoHideWatched || !p.ShowWatched || !p.GridMode {
		t.Fatalf("unexpected defaults %+v", p)
	}

	fx.prefs.Put(ctx, domain.Preferences{AutoHideWatched: true, ShowWatched: true, GridMode: true})
	if raw := fx.kv.raw(autoHideWatchedKey); raw != "true" {
		t.Fatalf("autoHideWatched persisted as %q", raw)
	}
	if fx.kv.puts != 1 {
		t.Fatalf("only changed keys are written, got %d writes", fx.kv.puts)
	}

	again := NewPreferencesService(fx.store)
	if got := again.Refresh(ctx); !got.AutoHideWatched {
		t.Fatalf("refresh should load stored value, got %+v", got)
	}
}
