package ports

import (
	"context"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
)

// VideoCatalog est l'API d'hébergement vidéo (source de vérité du catalogue).
type VideoCatalog interface {
	// ResolveChannel convertit un handle / nom personnalisé en identifiant canonique.
	ResolveChannel(ctx context.Context, ref domain.ChannelRef) (string, error)
	// ListVideos: vidéos de la chaîne, plus récentes d'abord. cursor vide = première page.
	ListVideos(ctx context.Context, channelID, cursor string) (domain.FeedPage, error)
	Channel(ctx context.Context, channelID string) (domain.Channel, error)
	Comments(ctx context.Context, videoID, cursor string) (domain.CommentPage, error)
}
