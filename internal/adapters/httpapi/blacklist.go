package httpapi

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/app"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/httpjson"
)

type BlacklistHandler struct {
	filter *app.ContentFilter
}

func NewBlacklistHandler(filter *app.ContentFilter) *BlacklistHandler {
	return &BlacklistHandler{filter: filter}
}

func (h *BlacklistHandler) Routes(r chi.Router) {
	r.Route("/blacklist", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.add)
		r.Post("/refresh", h.refresh)
		// DELETE /blacklist?term=... évite tout problème d'encodage dans le chemin.
		r.Delete("/", h.remove)
		r.Delete("/{term}", h.remove)
	})
}

type termRequest struct {
	Term string `json:"term"`
}

func (h *BlacklistHandler) list(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.filter.Terms())
}

func (h *BlacklistHandler) add(w http.ResponseWriter, r *http.Request) {
	var req termRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	// Un terme vide est ignoré sans erreur.
	h.filter.Add(r.Context(), req.Term)
	httpjson.Write(w, http.StatusOK, h.filter.Terms())
}

func (h *BlacklistHandler) remove(w http.ResponseWriter, r *http.Request) {
	term, ok := termParam(r)
	if !ok {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid term")
		return
	}
	h.filter.Remove(r.Context(), term)
	httpjson.Write(w, http.StatusOK, h.filter.Terms())
}

// termParam lit le terme dans le chemin ou dans ?term=.
// chi route sur RawPath s'il est défini (slash encodé) : seul ce cas est encore encodé.
func termParam(r *http.Request) (string, bool) {
	term := chi.URLParam(r, "term")
	if term == "" {
		term = r.URL.Query().Get("term")
		return term, term != ""
	}
	if r.URL.RawPath == "" {
		return term, true
	}
	dec, err := url.PathUnescape(term)
	if err != nil {
		return "", false
	}
	return dec, true
}

func (h *BlacklistHandler) refresh(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.filter.Refresh(r.Context()))
}
