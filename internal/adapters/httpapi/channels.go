package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/app"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/httpjson"
)

// ChannelsHandler expose les lectures directes de l'API amont (infos de chaîne, commentaires).
type ChannelsHandler struct {
	viewer *app.ViewerService
}

func NewChannelsHandler(viewer *app.ViewerService) *ChannelsHandler {
	return &ChannelsHandler{viewer: viewer}
}

func (h *ChannelsHandler) Routes(r chi.Router) {
	// {ref} peut être un identifiant ou un @handle ; une URL complète passe par ?url=.
	r.Get("/channels", h.channel)
	r.Get("/channels/{ref}", h.channel)
	r.Get("/videos/{id}/comments", h.comments)
}

func (h *ChannelsHandler) channel(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if ref == "" {
		ref = r.URL.Query().Get("url")
	}
	ch, err := h.viewer.Channel(r.Context(), ref)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, ch)
}

func (h *ChannelsHandler) comments(w http.ResponseWriter, r *http.Request) {
	page, err := h.viewer.Comments(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("cursor"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, page)
}
