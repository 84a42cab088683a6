package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/app"
	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/httpjson"
)

type PreferencesHandler struct {
	prefs *app.PreferencesService
}

func NewPreferencesHandler(prefs *app.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

func (h *PreferencesHandler) Routes(r chi.Router) {
	r.Get("/preferences", h.get)
	r.Put("/preferences", h.put)
	// Variante avec slash final (utile selon reverse-proxy / clients).
	r.Get("/preferences/", h.get)
	r.Put("/preferences/", h.put)
}

func (h *PreferencesHandler) get(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.prefs.Get())
}

// put accepte un document partiel : les champs absents gardent leur valeur.
func (h *PreferencesHandler) put(w http.ResponseWriter, r *http.Request) {
	next := h.prefs.Get()
	if err := httpjson.Decode(r, &next); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	httpjson.Write(w, http.StatusOK, h.prefs.Put(r.Context(), next))
}
