package services

import (
	"context"
	"errors"

	"beadstock/internal/models"
	"beadstock/internal/repositories"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Supplier, error)
	GetByName(ctx context.Context, name string) (*models.Supplier, error)
}

type supplierService struct {
	supplierRepo repositories.SupplierRepository
}

func NewSupplierService(supplierRepo repositories.SupplierRepository) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
	}
}

func (s *supplierService) Create(ctx context.Context, supplier *models.Supplier) error {
	if supplier.Name == "" {
		return errors.New("supplier name is required")
	}

	// Check for duplicate name
	existing, err := s.supplierRepo.GetByName(ctx, supplier.Name)
	if err == nil && existing != nil {
		return errors.New("supplier with this name already exists")
	}

	supplier.ID = uuid.New()
	return s.supplierRepo.Create(ctx, supplier)
}

func (s *supplierService) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return s.supplierRepo.GetByID(ctx, id)
}

func (s *supplierService) Update(ctx context.Context, supplier *models.Supplier) error {
	if supplier.Name == "" {
		return errors.New("supplier name is required")
	}
	return s.supplierRepo.Update(ctx, supplier)
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, id)
}

func (s *supplierService) List(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	return s.supplierRepo.List(ctx, limit, offset)
}

func (s *supplierService) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	return s.supplierRepo.GetByName(ctx, name)
}
