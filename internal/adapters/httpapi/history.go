package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/app"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/httpjson"
)

type HistoryHandler struct {
	history *app.ChannelHistory
}

func NewHistoryHandler(history *app.ChannelHistory) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func (h *HistoryHandler) Routes(r chi.Router) {
	r.Get("/history", h.list)
	r.Delete("/history", h.clear)
}

func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.history.List())
}

func (h *HistoryHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.history.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
