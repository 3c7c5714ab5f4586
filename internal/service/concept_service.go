package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/comite-agua/ledger/internal/models"
	"github.com/comite-agua/ledger/internal/storage"
)

// ConceptService is the catalog of additional charges.
type ConceptService struct {
	store  storage.ConceptStore
	logger *slog.Logger
}

// NewConceptService creates a new ConceptService with the given storage backend.
func NewConceptService(store storage.ConceptStore, logger *slog.Logger) *ConceptService {
	return &ConceptService{store: store, logger: logger}
}

// List returns concepts ordered by name, optionally only the active ones.
func (s *ConceptService) List(ctx context.Context, activeOnly bool) ([]models.Concept, error) {
	return s.store.ListConcepts(ctx, activeOnly)
}

// Get returns one concept or ErrNotFound.
func (s *ConceptService) Get(ctx context.Context, id int64) (*models.Concept, error) {
	return s.store.GetConcept(ctx, id)
}

// Create adds an active concept. A name already in the catalog returns ErrConflict.
func (s *ConceptService) Create(ctx context.Context, name string, price decimal.Decimal) (*models.Concept, error) {
	name = strings.TrimSpace(name)
	if err := validateConcept(name, price); err != nil {
		return nil, err
	}

	concept := &models.Concept{Name: name, UnitPrice: price}
	if err := s.store.CreateConcept(ctx, concept); err != nil {
		s.logger.Warn("CreateConcept failed", "name", name, "error", err)
		return nil, err
	}

	s.logger.Info("Concept created", "concept_id", concept.ID, "name", name, "price", price.String())
	return concept, nil
}

// Update applies a partial change. An empty patch returns ErrValidation,
// an unknown id ErrNotFound, and a rename onto an existing name ErrConflict.
func (s *ConceptService) Update(ctx context.Context, id int64, patch models.ConceptPatch) error {
	if patch.Empty() {
		return fmt.Errorf("%w: no fields to update", storage.ErrValidation)
	}
	if patch.Name.Set {
		patch.Name.Value = strings.TrimSpace(patch.Name.Value)
		if patch.Name.Value == "" {
			return fmt.Errorf("%w: concept name is required", storage.ErrValidation)
		}
	}
	if patch.UnitPrice.Set && patch.UnitPrice.Value.IsNegative() {
		return fmt.Errorf("%w: concept price cannot be negative", storage.ErrValidation)
	}

	if err := s.store.UpdateConcept(ctx, id, patch); err != nil {
		s.logger.Warn("UpdateConcept failed", "concept_id", id, "error", err)
		return err
	}

	s.logger.Info("Concept updated", "concept_id", id)
	return nil
}

func validateConcept(name string, price decimal.Decimal) error {
	if name == "" {
		return fmt.Errorf("%w: concept name is required", storage.ErrValidation)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: concept price cannot be negative", storage.ErrValidation)
	}
	return nil
}
