package httpapi

import (
	"net/http"

	"github.com/comite-agua/ledger/internal/models"
)

// RegisterPayment records a payment and returns its ID.
func (h *Handler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.RegisterPayment")

	var req models.PaymentRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	id, err := h.svc.Ledger.RegisterPayment(r.Context(), req)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusCreated, OK(map[string]int64{"payment_id": id}))
}

// Receipt returns the data needed to print one payment's receipt.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.Receipt")
	id, ok := idParam(r)
	if !ok {
		respond(w, r, http.StatusBadRequest, Error("invalid payment id"))
		return
	}

	receipt, err := h.svc.Ledger.GetReceiptData(r.Context(), id)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusOK, OK(receipt))
}

// History returns a member's payments, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.History")
	id, ok := idParam(r)
	if !ok {
		respond(w, r, http.StatusBadRequest, Error("invalid user id"))
		return
	}

	payments, err := h.svc.Ledger.GetHistory(r.Context(), id)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	respond(w, r, http.StatusOK, OK(payments))
}

type paidMonthsResponse struct {
	UserID int64 `json:"user_id"`
	Year   int   `json:"year"`
	Months []int `json:"months"`
}

// PaidMonths returns the months of ?year= a member has paid.
func (h *Handler) PaidMonths(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.PaidMonths")
	id, ok := idParam(r)
	if !ok {
		respond(w, r, http.StatusBadRequest, Error("invalid user id"))
		return
	}
	year, ok := h.yearQuery(r)
	if !ok {
		respond(w, r, http.StatusBadRequest, Error("invalid year"))
		return
	}

	months, err := h.svc.Ledger.GetPaidMonths(r.Context(), id, year)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	if months == nil {
		months = []int{}
	}
	respond(w, r, http.StatusOK, OK(paidMonthsResponse{UserID: id, Year: year, Months: months}))
}

// AccountStatus returns paid and pending months of ?year= and the amount due.
func (h *Handler) AccountStatus(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.AccountStatus")
	id, ok := idParam(r)
	if !ok {
		respond(w, r, http.StatusBadRequest, Error("invalid user id"))
		return
	}
	year, ok := h.yearQuery(r)
	if !ok {
		respond(w, r, http.StatusBadRequest, Error("invalid year"))
		return
	}

	status, err := h.svc.Ledger.GetAccountStatus(r.Context(), id, year, h.now())
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusOK, OK(status))
}
