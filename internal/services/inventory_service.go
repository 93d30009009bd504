package services

import (
	"context"
	"errors"
	"sync"

	"beadstock/internal/hierarchy"
	"beadstock/internal/models"

	"github.com/google/uuid"
)

// ToggleTarget addresses one node of the inventory tree for expand/collapse.
type ToggleTarget struct {
	Level       hierarchy.RowLevel  `json:"level"`
	ProductType models.ProductType  `json:"product_type"`
	SpecValue   *float64            `json:"spec_value,omitempty"`
	SpecUnit    string              `json:"spec_unit,omitempty"`
	Unspecified bool                `json:"unspecified,omitempty"`
	Quality     models.QualityGrade `json:"quality,omitempty"`
}

func (t ToggleTarget) specKey() hierarchy.SpecKey {
	if t.Unspecified || t.SpecValue == nil {
		return hierarchy.SpecKey{Unspecified: true}
	}
	return hierarchy.SpecKey{Value: *t.SpecValue, Unit: t.SpecUnit}
}

type InventoryService interface {
	Tree(ctx context.Context, filters hierarchy.Filters) ([]*hierarchy.ProductTypeGroup, error)
	Rows(ctx context.Context, operatorID uuid.UUID, filters hierarchy.Filters) ([]hierarchy.Row, error)
	Toggle(ctx context.Context, operatorID uuid.UUID, target ToggleTarget, filters hierarchy.Filters) ([]hierarchy.Row, error)
	ExpandAll(ctx context.Context, operatorID uuid.UUID, filters hierarchy.Filters) ([]hierarchy.Row, error)
	CollapseAll(ctx context.Context, operatorID uuid.UUID, filters hierarchy.Filters) ([]hierarchy.Row, error)
}

type inventoryService struct {
	batches BatchService

	// Expansion state is per operator and in-memory only; losing it on a
	// restart just renders the tree collapsed.
	mu     sync.Mutex
	states map[uuid.UUID]*hierarchy.ExpansionState
}

func NewInventoryService(batches BatchService) InventoryService {
	return &inventoryService{
		batches: batches,
		states:  make(map[uuid.UUID]*hierarchy.ExpansionState),
	}
}

// stateFor must be called with mu held.
func (s *inventoryService) stateFor(operatorID uuid.UUID) *hierarchy.ExpansionState {
	state, ok := s.states[operatorID]
	if !ok {
		state = hierarchy.NewExpansionState()
		s.states[operatorID] = state
	}
	return state
}

func (s *inventoryService) Tree(ctx context.Context, filters hierarchy.Filters) ([]*hierarchy.ProductTypeGroup, error) {
	batches, err := s.batches.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return hierarchy.Build(batches, filters), nil
}

func (s *inventoryService) Rows(ctx context.Context, operatorID uuid.UUID, filters hierarchy.Filters) ([]hierarchy.Row, error) {
	tree, err := s.Tree(ctx, filters)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(operatorID)
	state.Sync(tree)
	return hierarchy.Flatten(tree, state), nil
}

func (s *inventoryService) Toggle(ctx context.Context, operatorID uuid.UUID, target ToggleTarget, filters hierarchy.Filters) ([]hierarchy.Row, error) {
	if !target.ProductType.Valid() {
		return nil, errors.New("unknown product type")
	}

	tree, err := s.Tree(ctx, filters)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(operatorID)
	switch target.Level {
	case hierarchy.LevelProductType:
		state.ToggleType(target.ProductType)
	case hierarchy.LevelSpecification:
		state.ToggleSpec(hierarchy.SpecNodeKey{ProductType: target.ProductType, Spec: target.specKey()})
	case hierarchy.LevelQuality:
		state.ToggleQuality(hierarchy.QualityNodeKey{
			ProductType: target.ProductType,
			Spec:        target.specKey(),
			Quality:     target.Quality,
		})
	default:
		return nil, errors.New("unknown tree level")
	}

	state.Sync(tree)
	return hierarchy.Flatten(tree, state), nil
}

func (s *inventoryService) ExpandAll(ctx context.Context, operatorID uuid.UUID, filters hierarchy.Filters) ([]hierarchy.Row, error) {
	tree, err := s.Tree(ctx, filters)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(operatorID)
	state.ExpandAll(tree)
	state.Sync(tree)
	return hierarchy.Flatten(tree, state), nil
}

func (s *inventoryService) CollapseAll(ctx context.Context, operatorID uuid.UUID, filters hierarchy.Filters) ([]hierarchy.Row, error) {
	tree, err := s.Tree(ctx, filters)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(operatorID)
	state.CollapseAll()
	return hierarchy.Flatten(tree, state), nil
}
