package services

import (
	"context"
	"errors"
	"log"
	"time"

	"beadstock/internal/caching"
	"beadstock/internal/models"
	"beadstock/internal/repositories"

	"github.com/google/uuid"
)

const batchCacheTTL = 5 * time.Minute

type BatchService interface {
	Create(ctx context.Context, batch *models.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Batch, error)
	ListAll(ctx context.Context) ([]*models.Batch, error)
	Consume(ctx context.Context, id uuid.UUID, quantity float64) (*models.Batch, error)
	Search(ctx context.Context, filter *models.BatchSearchFilter) ([]*models.Batch, error)
}

type batchService struct {
	batchRepo repositories.BatchRepository
	cache     caching.CacheService
}

func NewBatchService(batchRepo repositories.BatchRepository, cache caching.CacheService) BatchService {
	return &batchService{
		batchRepo: batchRepo,
		cache:     cache,
	}
}

func validateBatch(batch *models.Batch) error {
	if batch.Name == "" {
		return errors.New("batch name is required")
	}
	if !batch.ProductType.Valid() {
		return errors.New("unknown product type")
	}
	if batch.OriginalQuantity < 0 {
		return errors.New("original quantity cannot be negative")
	}
	if batch.UsedQuantity < 0 {
		return errors.New("used quantity cannot be negative")
	}
	if batch.UnitPrice < 0 {
		return errors.New("unit price cannot be negative")
	}
	if batch.MinStockAlert < 0 {
		return errors.New("stock alert threshold cannot be negative")
	}
	if batch.SpecValue != nil && *batch.SpecValue <= 0 {
		return errors.New("specification value must be positive")
	}
	return nil
}

func (s *batchService) Create(ctx context.Context, batch *models.Batch) error {
	if err := validateBatch(batch); err != nil {
		return err
	}

	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return err
	}

	s.invalidate(ctx, batch.ID)
	return nil
}

func (s *batchService) GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBatch(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBatch(ctx, batch, batchCacheTTL); err != nil {
			log.Printf("WARN: failed to cache batch %s: %v", id, err)
		}
	}
	return batch, nil
}

func (s *batchService) Update(ctx context.Context, batch *models.Batch) error {
	if err := validateBatch(batch); err != nil {
		return err
	}

	existing, err := s.batchRepo.GetByID(ctx, batch.ID)
	if err != nil {
		return err
	}
	if batch.UsedQuantity > batch.OriginalQuantity {
		return errors.New("used quantity cannot exceed original quantity")
	}
	batch.CreatedAt = existing.CreatedAt

	if err := s.batchRepo.Update(ctx, batch); err != nil {
		return err
	}

	s.invalidate(ctx, batch.ID)
	return nil
}

func (s *batchService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.batchRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *batchService) List(ctx context.Context, limit, offset int) ([]*models.Batch, error) {
	return s.batchRepo.List(ctx, limit, offset)
}

// ListAll serves the inventory tree, so it is the one list worth caching as a
// whole.
func (s *batchService) ListAll(ctx context.Context) ([]*models.Batch, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBatchList(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBatchList(ctx, batches, batchCacheTTL); err != nil {
			log.Printf("WARN: failed to cache batch list: %v", err)
		}
	}
	return batches, nil
}

// Consume records downstream usage of a batch. The repository caps the used
// quantity at the original quantity, so overdraw requests drain the batch to
// zero remaining instead of failing.
func (s *batchService) Consume(ctx context.Context, id uuid.UUID, quantity float64) (*models.Batch, error) {
	if quantity <= 0 {
		return nil, errors.New("consumed quantity must be positive")
	}

	if err := s.batchRepo.AdjustUsed(ctx, id, quantity); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	return s.batchRepo.GetByID(ctx, id)
}

func (s *batchService) Search(ctx context.Context, filter *models.BatchSearchFilter) ([]*models.Batch, error) {
	if filter == nil {
		filter = &models.BatchSearchFilter{}
	}
	if filter.ProductType != nil && !filter.ProductType.Valid() {
		return nil, errors.New("unknown product type")
	}
	return s.batchRepo.AdvancedSearch(ctx, filter)
}

func (s *batchService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteBatch(ctx, id); err != nil {
		log.Printf("WARN: failed to invalidate batch cache %s: %v", id, err)
	}
	if err := s.cache.InvalidateBatchList(ctx); err != nil {
		log.Printf("WARN: failed to invalidate batch list cache: %v", err)
	}
}
