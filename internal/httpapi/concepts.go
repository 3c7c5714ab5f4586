package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/comite-agua/ledger/internal/models"
)

type createConceptRequest struct {
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type updateConceptRequest struct {
	Name      *string          `json:"name"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Active    *bool            `json:"active"`
}

func (req updateConceptRequest) patch() models.ConceptPatch {
	var p models.ConceptPatch
	if req.Name != nil {
		p.Name = models.Some(*req.Name)
	}
	if req.UnitPrice != nil {
		p.UnitPrice = models.Some(*req.UnitPrice)
	}
	if req.Active != nil {
		p.Active = models.Some(*req.Active)
	}
	return p
}

// ListConcepts returns active concepts, or all of them with ?all=true.
func (h *Handler) ListConcepts(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.ListConcepts")
	activeOnly := r.URL.Query().Get("all") != "true"

	concepts, err := h.svc.Concepts.List(r.Context(), activeOnly)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusOK, OK(concepts))
}

// GetConcept returns one concept.
func (h *Handler) GetConcept(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.GetConcept")
	id, ok := idParam(r)
	if !ok {
		respond(w, r, http.StatusBadRequest, Error("invalid concept id"))
		return
	}

	concept, err := h.svc.Concepts.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusOK, OK(concept))
}

// CreateConcept adds a concept to the catalog.
func (h *Handler) CreateConcept(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.CreateConcept")

	var req createConceptRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	concept, err := h.svc.Concepts.Create(r.Context(), req.Name, req.UnitPrice)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusCreated, OK(concept))
}

// UpdateConcept applies a partial update. Absent fields are left alone.
func (h *Handler) UpdateConcept(w http.ResponseWriter, r *http.Request) {
	log := h.log(r, "httpapi.UpdateConcept")
	id, ok := idParam(r)
	if !ok {
		respond(w, r, http.StatusBadRequest, Error("invalid concept id"))
		return
	}

	var req updateConceptRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	if err := h.svc.Concepts.Update(r.Context(), id, req.patch()); err != nil {
		h.fail(w, r, log, err)
		return
	}

	concept, err := h.svc.Concepts.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	respond(w, r, http.StatusOK, OK(concept))
}
