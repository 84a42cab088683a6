package httpapi

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/app"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/httpjson"
)

const notConfiguredMessage = "YouTube API key not configured: set YTV_YOUTUBE_API_KEY"

// writeAppError traduit les erreurs du service en statut HTTP.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var up *app.UpstreamError
	switch {
	case errors.Is(err, app.ErrNotConfigured):
		httpjson.WriteError(w, http.StatusServiceUnavailable, notConfiguredMessage)
	case errors.Is(err, app.ErrInvalidChannelRef):
		httpjson.WriteError(w, http.StatusBadRequest, "invalid channel reference")
	case errors.Is(err, app.ErrChannelNotFound):
		httpjson.WriteError(w, http.StatusNotFound, "channel not found")
	case errors.Is(err, app.ErrNotFound):
		httpjson.WriteError(w, http.StatusNotFound, "not found")
	case errors.As(err, &up):
		hlog.FromRequest(r).Warn().Err(err).Str("op", up.Op).Int("upstream_status", up.Status).Msg("upstream call failed")
		httpjson.WriteError(w, http.StatusBadGateway, up.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
