package app

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
)

const blacklistKey = "youtube-viewer-blacklist"

// ContentFilter masque les vidéos dont le titre contient un des termes.
// Les doublons sont conservés tels quels.
type ContentFilter struct {
	terms *Persisted[[]string]
}

func NewContentFilter(store *Store) *ContentFilter {
	return &ContentFilter{terms: NewPersisted(store, blacklistKey, []string{})}
}

// Add ignore un terme vide après trim.
func (f *ContentFilter) Add(ctx context.Context, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	f.terms.Update(ctx, func(prev []string) []string {
		next := make([]string, 0, len(prev)+1)
		next = append(next, prev...)
		return append(next, term)
	})
	return true
}

// Remove retire toutes les entrées strictement égales à term.
func (f *ContentFilter) Remove(ctx context.Context, term string) {
	f.terms.Update(ctx, func(prev []string) []string {
		next := make([]string, 0, len(prev))
		for _, t := range prev {
			if t != term {
				next = append(next, t)
			}
		}
		return next
	})
}

func (f *ContentFilter) Terms() []string {
	cur := f.terms.Get()
	out := make([]string, len(cur))
	copy(out, cur)
	return out
}

func (f *ContentFilter) Matches(title string) bool {
	return f.Matcher()(title)
}

// Matcher replie les termes une seule fois, pour filtrer une liste entière.
func (f *ContentFilter) Matcher() func(title string) bool {
	// Un Caser n'est pas partageable entre goroutines.
	fold := cases.Fold()
	terms := f.terms.Get()
	folded := make([]string, 0, len(terms))
	for _, t := range terms {
		folded = append(folded, fold.String(t))
	}
	return func(title string) bool {
		if len(folded) == 0 {
			return false
		}
		ft := fold.String(title)
		for _, t := range folded {
			if strings.Contains(ft, t) {
				return true
			}
		}
		return false
	}
}

func (f *ContentFilter) Refresh(ctx context.Context) []string {
	f.terms.Reload(ctx)
	return f.Terms()
}

// VisibilityFilter: titre non filtré et, sauf showWatched, vidéo non vue.
func VisibilityFilter(filter *ContentFilter, ledger *WatchLedger, showWatched bool) func(domain.VideoSummary) bool {
	blocked := func(string) bool { return false }
	if filter != nil {
		blocked = filter.Matcher()
	}
	return func(v domain.VideoSummary) bool {
		if blocked(v.Title) {
			return false
		}
		if !showWatched && ledger != nil && ledger.IsWatched(v.ID) {
			return false
		}
		return true
	}
}
