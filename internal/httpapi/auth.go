package httpapi

import (
	"net/http"
)

type loginRequest struct {
	Pin string `json:"pin" validate:"required"`
}

// Login exchanges the access PIN for a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.Login")

	var req loginRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	token, err := h.svc.Auth.Login(r.Context(), req.Pin)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusOK, OK(map[string]string{
		"token":      token,
		"token_type": "Bearer",
	}))
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, OK(map[string]string{"service": "ledger"}))
}
