package httpapi

import (
	"net/http"

	"github.com/comite-agua/ledger/internal/models"
)

type createUserRequest struct {
	Number  int64  `json:"number" validate:"gte=0"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

type setUserStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required,oneof=Activo Cancelado"`
}

// CreateUser registers a member.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.CreateUser")

	var req createUserRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	user := &models.User{
		Number:  req.Number,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if err := h.svc.Users.Create(r.Context(), user); err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusCreated, OK(user))
}

// GetUser returns one member.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.GetUser")
	id, ok := idParam(r)
	if !ok {
		respond(w, r, http.StatusBadRequest, Error("invalid user id"))
		return
	}

	user, err := h.svc.Users.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusOK, OK(user))
}

// SetUserStatus activates or cancels a member.
func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.SetUserStatus")
	id, ok := idParam(r)
	if !ok {
		respond(w, r, http.StatusBadRequest, Error("invalid user id"))
		return
	}

	var req setUserStatusRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	if err := h.svc.Users.SetStatus(r.Context(), id, req.Status); err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusOK, OK(nil))
}
