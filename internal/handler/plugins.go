package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stylehub/storefront/internal/domain/plugin"
)

// listPlugins returns all registered plugins, or with ?position=top only
// the plugins active for that render slot.
func (h *Handler) listPlugins(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	if pos := r.URL.Query().Get("position"); pos != "" {
		writeJSON(w, http.StatusOK, toPluginResponses(s.ActivePlugins(plugin.Position(pos))))
		return
	}
	writeJSON(w, http.StatusOK, toPluginResponses(s.Plugins()))
}

func (h *Handler) registerPlugin(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	var req registerPluginRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.RegisterPlugin(req.toPlugin())
	writeJSON(w, http.StatusOK, toPluginResponses(s.Plugins()))
}

func (h *Handler) unregisterPlugin(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	s.UnregisterPlugin(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) togglePlugin(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	if err := s.TogglePlugin(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPluginResponses(s.Plugins()))
}

func (h *Handler) updatePluginConfig(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	var req pluginConfigBody
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := plugin.ConfigPatch{
		Enabled: req.Enabled,
		Extra:   req.Extra,
	}
	if req.Position != nil {
		pos := plugin.Position(*req.Position)
		patch.Position = &pos
	}

	if err := s.UpdatePluginConfig(chi.URLParam(r, "id"), patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPluginResponses(s.Plugins()))
}

func (h *Handler) getNotification(w http.ResponseWriter, r *http.Request) {
	n := sessionFrom(r).Notification()
	writeJSON(w, http.StatusOK, notificationResponse{
		Show:    n.Show,
		Message: n.Message,
		Type:    string(n.Type),
	})
}

func (h *Handler) hideNotification(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).HideNotification()
	w.WriteHeader(http.StatusNoContent)
}
