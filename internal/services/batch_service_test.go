package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"beadstock/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// Mock repositories and services
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockBatchRepository) Update(ctx context.Context, batch *models.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBatchRepository) List(ctx context.Context, limit, offset int) ([]*models.Batch, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Batch), args.Error(1)
}

func (m *MockBatchRepository) ListAll(ctx context.Context) ([]*models.Batch, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Batch), args.Error(1)
}

func (m *MockBatchRepository) AdjustUsed(ctx context.Context, id uuid.UUID, delta float64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockBatchRepository) AdvancedSearch(ctx context.Context, filter *models.BatchSearchFilter) ([]*models.Batch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Batch), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetBatch(ctx context.Context, batchID uuid.UUID) (*models.Batch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockCacheService) SetBatch(ctx context.Context, batch *models.Batch, ttl time.Duration) error {
	args := m.Called(ctx, batch, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteBatch(ctx context.Context, batchID uuid.UUID) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}

func (m *MockCacheService) GetBatchList(ctx context.Context) ([]*models.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Batch), args.Error(1)
}

func (m *MockCacheService) SetBatchList(ctx context.Context, batches []*models.Batch, ttl time.Duration) error {
	args := m.Called(ctx, batches, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateBatchList(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAllCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type BatchServiceTestSuite struct {
	suite.Suite
	mockBatchRepo *MockBatchRepository
	mockCache     *MockCacheService
	service       BatchService
}

func (suite *BatchServiceTestSuite) SetupTest() {
	suite.mockBatchRepo = &MockBatchRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewBatchService(suite.mockBatchRepo, suite.mockCache)
}

func (suite *BatchServiceTestSuite) TearDownTest() {
	suite.mockBatchRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestBatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchServiceTestSuite))
}

func validTestBatch() *models.Batch {
	return &models.Batch{
		Name:             "Citrine rounds",
		ProductType:      models.ProductTypeLooseBeads,
		OriginalQuantity: 300,
		UnitPrice:        0.5,
		MinStockAlert:    30,
	}
}

func (suite *BatchServiceTestSuite) TestCreate_Success() {
	batch := validTestBatch()

	suite.mockBatchRepo.On("Create", mock.Anything, batch).Return(nil).Once()
	suite.mockCache.On("DeleteBatch", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()
	suite.mockCache.On("InvalidateBatchList", mock.Anything).Return(nil).Once()

	err := suite.service.Create(context.Background(), batch)

	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, batch.ID)
}

func (suite *BatchServiceTestSuite) TestCreate_NameRequired() {
	batch := validTestBatch()
	batch.Name = ""

	err := suite.service.Create(context.Background(), batch)

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "batch name is required", err.Error())
}

func (suite *BatchServiceTestSuite) TestCreate_UnknownProductType() {
	batch := validTestBatch()
	batch.ProductType = "GEMSTONE_DUST"

	err := suite.service.Create(context.Background(), batch)

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "unknown product type", err.Error())
}

func (suite *BatchServiceTestSuite) TestCreate_NegativeQuantity() {
	batch := validTestBatch()
	batch.OriginalQuantity = -5

	err := suite.service.Create(context.Background(), batch)

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "original quantity cannot be negative", err.Error())
}

func (suite *BatchServiceTestSuite) TestCreate_NonPositiveSpec() {
	batch := validTestBatch()
	zero := 0.0
	batch.SpecValue = &zero

	err := suite.service.Create(context.Background(), batch)

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "specification value must be positive", err.Error())
}

func (suite *BatchServiceTestSuite) TestGetByID_CacheHit() {
	batchID := uuid.New()
	cached := validTestBatch()
	cached.ID = batchID

	suite.mockCache.On("GetBatch", mock.Anything, batchID).Return(cached, nil).Once()

	result, err := suite.service.GetByID(context.Background(), batchID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, result)
	suite.mockBatchRepo.AssertNotCalled(suite.T(), "GetByID")
}

func (suite *BatchServiceTestSuite) TestGetByID_CacheMissFallsThrough() {
	batchID := uuid.New()
	batch := validTestBatch()
	batch.ID = batchID

	suite.mockCache.On("GetBatch", mock.Anything, batchID).Return(nil, nil).Once()
	suite.mockBatchRepo.On("GetByID", mock.Anything, batchID).Return(batch, nil).Once()
	suite.mockCache.On("SetBatch", mock.Anything, batch, mock.AnythingOfType("time.Duration")).Return(nil).Once()

	result, err := suite.service.GetByID(context.Background(), batchID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), batch, result)
}

func (suite *BatchServiceTestSuite) TestUpdate_UsedExceedsOriginal() {
	batch := validTestBatch()
	batch.ID = uuid.New()
	batch.UsedQuantity = 400

	existing := validTestBatch()
	existing.ID = batch.ID
	suite.mockBatchRepo.On("GetByID", mock.Anything, batch.ID).Return(existing, nil).Once()

	err := suite.service.Update(context.Background(), batch)

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "used quantity cannot exceed original quantity", err.Error())
}

func (suite *BatchServiceTestSuite) TestConsume_Success() {
	batchID := uuid.New()
	updated := validTestBatch()
	updated.ID = batchID
	updated.UsedQuantity = 50

	suite.mockBatchRepo.On("AdjustUsed", mock.Anything, batchID, 50.0).Return(nil).Once()
	suite.mockCache.On("DeleteBatch", mock.Anything, batchID).Return(nil).Once()
	suite.mockCache.On("InvalidateBatchList", mock.Anything).Return(nil).Once()
	suite.mockBatchRepo.On("GetByID", mock.Anything, batchID).Return(updated, nil).Once()

	result, err := suite.service.Consume(context.Background(), batchID, 50)

	assert.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 250, result.RemainingQuantity(), 1e-9)
}

func (suite *BatchServiceTestSuite) TestConsume_NonPositiveQuantity() {
	result, err := suite.service.Consume(context.Background(), uuid.New(), 0)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
	suite.mockBatchRepo.AssertNotCalled(suite.T(), "AdjustUsed")
}

func (suite *BatchServiceTestSuite) TestListAll_CacheHit() {
	batches := []*models.Batch{validTestBatch()}

	suite.mockCache.On("GetBatchList", mock.Anything).Return(batches, nil).Once()

	result, err := suite.service.ListAll(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), batches, result)
	suite.mockBatchRepo.AssertNotCalled(suite.T(), "ListAll")
}

func (suite *BatchServiceTestSuite) TestListAll_CacheMiss() {
	batches := []*models.Batch{validTestBatch(), validTestBatch()}

	suite.mockCache.On("GetBatchList", mock.Anything).Return(nil, nil).Once()
	suite.mockBatchRepo.On("ListAll", mock.Anything).Return(batches, nil).Once()
	suite.mockCache.On("SetBatchList", mock.Anything, batches, mock.AnythingOfType("time.Duration")).Return(nil).Once()

	result, err := suite.service.ListAll(context.Background())

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
}

func (suite *BatchServiceTestSuite) TestDelete_InvalidatesCache() {
	batchID := uuid.New()

	suite.mockBatchRepo.On("Delete", mock.Anything, batchID).Return(nil).Once()
	suite.mockCache.On("DeleteBatch", mock.Anything, batchID).Return(nil).Once()
	suite.mockCache.On("InvalidateBatchList", mock.Anything).Return(nil).Once()

	err := suite.service.Delete(context.Background(), batchID)

	assert.NoError(suite.T(), err)
}

func (suite *BatchServiceTestSuite) TestSearch_InvalidProductType() {
	bad := models.ProductType("CHARMS")
	filter := &models.BatchSearchFilter{ProductType: &bad}

	result, err := suite.service.Search(context.Background(), filter)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
}

func (suite *BatchServiceTestSuite) TestSearch_DelegatesToRepo() {
	filter := &models.BatchSearchFilter{Query: "citrine"}
	expected := []*models.Batch{validTestBatch()}

	suite.mockBatchRepo.On("AdvancedSearch", mock.Anything, filter).Return(expected, nil).Once()

	result, err := suite.service.Search(context.Background(), filter)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expected, result)
}

func (suite *BatchServiceTestSuite) TestSearch_RepoError() {
	filter := &models.BatchSearchFilter{}

	suite.mockBatchRepo.On("AdvancedSearch", mock.Anything, filter).Return(([]*models.Batch)(nil), errors.New("query failed")).Once()

	result, err := suite.service.Search(context.Background(), filter)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
}
