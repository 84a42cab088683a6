package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/app"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/domain"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/httpjson"
)

type ViewsHandler struct {
	viewer *app.ViewerService
}

func NewViewsHandler(viewer *app.ViewerService) *ViewsHandler {
	return &ViewsHandler{viewer: viewer}
}

func (h *ViewsHandler) Routes(r chi.Router) {
	r.Route("/views", func(r chi.Router) {
		r.Post("/", h.open)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.close)
		r.Post("/{id}/more", h.more)
		r.Post("/{id}/refresh", h.refresh)
		r.Post("/{id}/select", h.selectVideo)
		r.Post("/{id}/finished", h.finished)
		r.Get("/{id}/selection", h.selection)
		r.Delete("/{id}/selection", h.clearSelection)
	})
}

type openViewRequest struct {
	Input string `json:"input"`
}

type pageResult struct {
	// Applied=false : rien à faire (pas de curseur, déjà en cours, page périmée).
	Applied bool             `json:"applied"`
	View    app.ViewSnapshot `json:"view"`
}

type selectRequest struct {
	VideoID string `json:"videoId"`
}

type selectionResult struct {
	Video    *domain.VideoSummary `json:"video"`
	Advanced bool                 `json:"advanced"`
}

func (h *ViewsHandler) open(w http.ResponseWriter, r *http.Request) {
	var req openViewRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		httpjson.WriteError(w, http.StatusBadRequest, "input is required")
		return
	}
	snap, err := h.viewer.Open(r.Context(), req.Input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, snap)
}

func (h *ViewsHandler) list(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.viewer.List())
}

func (h *ViewsHandler) get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.viewer.View(chi.URLParam(r, "id"), queryBool(r, "showWatched"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, snap)
}

func (h *ViewsHandler) close(w http.ResponseWriter, r *http.Request) {
	if err := h.viewer.Close(chi.URLParam(r, "id")); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ViewsHandler) more(w http.ResponseWriter, r *http.Request) {
	snap, applied, err := h.viewer.LoadMore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, pageResult{Applied: applied, View: snap})
}

func (h *ViewsHandler) refresh(w http.ResponseWriter, r *http.Request) {
	snap, applied, err := h.viewer.Refresh(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, pageResult{Applied: applied, View: snap})
}

func (h *ViewsHandler) selectVideo(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := httpjson.Decode(r, &req); err != nil || req.VideoID == "" {
		httpjson.WriteError(w, http.StatusBadRequest, "videoId is required")
		return
	}
	v, err := h.viewer.Select(r.Context(), chi.URLParam(r, "id"), req.VideoID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, selectionResult{Video: &v})
}

func (h *ViewsHandler) finished(w http.ResponseWriter, r *http.Request) {
	v, advanced, err := h.viewer.Finished(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, selectionResult{Video: &v, Advanced: advanced})
}

func (h *ViewsHandler) selection(w http.ResponseWriter, r *http.Request) {
	v, ok, err := h.viewer.Selected(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	res := selectionResult{}
	if ok {
		res.Video = &v
	}
	httpjson.Write(w, http.StatusOK, res)
}

func (h *ViewsHandler) clearSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.viewer.ClearSelection(chi.URLParam(r, "id")); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
