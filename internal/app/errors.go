package app

import (
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

var (
	ErrNotFound          = ports.ErrNotFound
	ErrNotConfigured     = ports.ErrNotConfigured
	ErrChannelNotFound   = ports.ErrChannelNotFound
	ErrInvalidChannelRef = domain.ErrInvalidChannelRef
)

// UpstreamError est l'échec d'un appel à l'API amont.
type UpstreamError = ports.UpstreamError
