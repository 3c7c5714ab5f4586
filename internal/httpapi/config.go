package httpapi

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/comite-agua/ledger/internal/models"
)

type setConfigRequest struct {
	Value string `json:"value" validate:"required"`
}

type setPinRequest struct {
	Pin string `json:"pin" validate:"required,numeric,min=4,max=8"`
}

// ListConfig returns every setting.
func (h *Handler) ListConfig(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.ListConfig")

	entries, err := h.svc.Config.List(r.Context())
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	for i := range entries {
		if entries[i].Key == models.KeyAccessPin {
			entries[i].Value = ""
		}
	}
	respond(w, r, http.StatusOK, OK(entries))
}

// GetConfig returns one setting. The access PIN is never served.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.GetConfig")
	key := chi.URLParam(r, "key")
	if key == models.KeyAccessPin {
		respond(w, r, http.StatusForbidden, Error("the access PIN cannot be read"))
		return
	}

	value, ok, err := h.svc.Config.Get(r.Context(), key)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	if !ok {
		respond(w, r, http.StatusNotFound, Error("setting not found"))
		return
	}
	respond(w, r, http.StatusOK, OK(map[string]string{"key": key, "value": value}))
}

// SetConfig updates an existing setting.
func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.SetConfig")
	key := chi.URLParam(r, "key")

	var req setConfigRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	if err := h.svc.Config.Set(r.Context(), key, req.Value); err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusOK, OK(map[string]string{"key": key}))
}

// SetPin replaces the access PIN.
func (h *Handler) SetPin(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.SetPin")

	var req setPinRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	if err := h.svc.Config.SetPin(r.Context(), req.Pin); err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusOK, OK(nil))
}
