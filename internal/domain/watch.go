package domain

import "time"

// WatchRecord est persisté tel quel dans le store (clé "watchedVideos").
// WatchedAt reste du texte : une valeur illisible est ignorée à la lecture.
type WatchRecord struct {
	VideoID   string `json:"videoId"`
	WatchedAt string `json:"watchedAt"`
	Title     string `json:"title,omitempty"`
}

// ParsedWatchedAt renvoie false si WatchedAt est vide ou illisible.
func (r WatchRecord) ParsedWatchedAt() (time.Time, bool) {
	if r.WatchedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, r.WatchedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type ChannelHistoryEntry struct {
	URL string `json:"url"`
	// Timestamp en millisecondes Unix.
	Timestamp int64 `json:"timestamp"`
}

const MaxChannelHistory = 10

type Preferences struct {
	// AutoHideWatched: à la fin d'une vidéo, passer à la suivante non vue.
	AutoHideWatched bool `json:"autoHideWatched"`
	ShowWatched     bool `json:"showWatched"`
	GridMode        bool `json:"gridMode"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		AutoHideWatched: false,
		ShowWatched:     true,
		GridMode:        true,
	}
}
