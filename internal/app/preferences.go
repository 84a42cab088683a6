package app

import (
	"context"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
)

// Une clé par option, comme à l'origine.
const (
	autoHideWatchedKey = "autoHideWatched"
	showWatchedKey     = "showWatched"
	gridModeKey        = "gridMode"
)

type PreferencesService struct {
	autoHideWatched *Persisted[bool]
	showWatched     *Persisted[bool]
	gridMode        *Persisted[bool]
}

func NewPreferencesService(store *Store) *PreferencesService {
	def := domain.DefaultPreferences()
	return &PreferencesService{
		autoHideWatched: NewPersisted(store, autoHideWatchedKey, def.AutoHideWatched),
		showWatched:     NewPersisted(store, showWatchedKey, def.ShowWatched),
		gridMode:        NewPersisted(store, gridModeKey, def.GridMode),
	}
}

func (s *PreferencesService) Get() domain.Preferences {
	return domain.Preferences{
		AutoHideWatched: s.autoHideWatched.Get(),
		ShowWatched:     s.showWatched.Get(),
		GridMode:        s.gridMode.Get(),
	}
}

// Put n'écrit que les options modifiées.
func (s *PreferencesService) Put(ctx context.Context, p domain.Preferences) domain.Preferences {
	for _, item := range []struct {
		v    *Persisted[bool]
		want bool
	}{
		{s.autoHideWatched, p.AutoHideWatched},
		{s.showWatched, p.ShowWatched},
		{s.gridMode, p.GridMode},
	} {
		if item.v.Get() != item.want {
			item.v.Set(ctx, item.want)
		}
	}
	return s.Get()
}

func (s *PreferencesService) Refresh(ctx context.Context) domain.Preferences {
	s.autoHideWatched.Reload(ctx)
	s.showWatched.Reload(ctx)
	s.gridMode.Reload(ctx)
	return s.Get()
}
