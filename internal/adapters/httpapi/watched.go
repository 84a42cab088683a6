package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/app"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/httpjson"
)

type WatchedHandler struct {
	ledger *app.WatchLedger
}

func NewWatchedHandler(ledger *app.WatchLedger) *WatchedHandler {
	return &WatchedHandler{ledger: ledger}
}

func (h *WatchedHandler) Routes(r chi.Router) {
	r.Route("/watched", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.add)
		r.Delete("/", h.clear)
		r.Post("/refresh", h.refresh)
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.remove)
	})
}

type addWatchedRequest struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title,omitempty"`
}

func (h *WatchedHandler) list(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.ledger.List())
}

func (h *WatchedHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addWatchedRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.VideoID) == "" {
		httpjson.WriteError(w, http.StatusBadRequest, "videoId is required")
		return
	}
	rec := h.ledger.Add(r.Context(), strings.TrimSpace(req.VideoID), req.Title)
	httpjson.Write(w, http.StatusOK, rec)
}

func (h *WatchedHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, rec := range h.ledger.List() {
		if rec.VideoID == id {
			httpjson.Write(w, http.StatusOK, rec)
			return
		}
	}
	httpjson.WriteError(w, http.StatusNotFound, "not found")
}

func (h *WatchedHandler) remove(w http.ResponseWriter, r *http.Request) {
	h.ledger.Remove(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchedHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.ledger.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *WatchedHandler) refresh(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.ledger.Refresh(r.Context()))
}
