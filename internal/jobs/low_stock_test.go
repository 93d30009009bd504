package jobs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"beadstock/internal/hierarchy"
	"beadstock/internal/models"
	"beadstock/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Tree(ctx context.Context, filters hierarchy.Filters) ([]*hierarchy.ProductTypeGroup, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*hierarchy.ProductTypeGroup), args.Error(1)
}

func (m *MockInventoryService) Rows(ctx context.Context, operatorID uuid.UUID, filters hierarchy.Filters) ([]hierarchy.Row, error) {
	args := m.Called(ctx, operatorID, filters)
	return args.Get(0).([]hierarchy.Row), args.Error(1)
}

func (m *MockInventoryService) Toggle(ctx context.Context, operatorID uuid.UUID, target services.ToggleTarget, filters hierarchy.Filters) ([]hierarchy.Row, error) {
	args := m.Called(ctx, operatorID, target, filters)
	return args.Get(0).([]hierarchy.Row), args.Error(1)
}

func (m *MockInventoryService) ExpandAll(ctx context.Context, operatorID uuid.UUID, filters hierarchy.Filters) ([]hierarchy.Row, error) {
	args := m.Called(ctx, operatorID, filters)
	return args.Get(0).([]hierarchy.Row), args.Error(1)
}

func (m *MockInventoryService) CollapseAll(ctx context.Context, operatorID uuid.UUID, filters hierarchy.Filters) ([]hierarchy.Row, error) {
	args := m.Called(ctx, operatorID, filters)
	return args.Get(0).([]hierarchy.Row), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetBatch(ctx context.Context, batchID uuid.UUID) (*models.Batch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockCache) SetBatch(ctx context.Context, batch *models.Batch, ttl time.Duration) error {
	args := m.Called(ctx, batch, ttl)
	return args.Error(0)
}

func (m *MockCache) DeleteBatch(ctx context.Context, batchID uuid.UUID) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}

func (m *MockCache) GetBatchList(ctx context.Context) ([]*models.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Batch), args.Error(1)
}

func (m *MockCache) SetBatchList(ctx context.Context, batches []*models.Batch, ttl time.Duration) error {
	args := m.Called(ctx, batches, ttl)
	return args.Error(0)
}

func (m *MockCache) InvalidateBatchList(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) InvalidateAllCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type LowStockTestSuite struct {
	suite.Suite
	mockInventory *MockInventoryService
	mockCache     *MockCache
	service       *LowStockAlertService
}

func (suite *LowStockTestSuite) SetupTest() {
	suite.mockInventory = &MockInventoryService{}
	suite.mockCache = &MockCache{}
	suite.service = NewLowStockAlertService(suite.mockInventory, suite.mockCache)
}

func (suite *LowStockTestSuite) TearDownTest() {
	suite.mockInventory.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestLowStockTestSuite(t *testing.T) {
	suite.Run(t, new(LowStockTestSuite))
}

func lowStockTree() []*hierarchy.ProductTypeGroup {
	diameter := 8.0
	mm := "mm"
	aa := "AA"
	batches := []*models.Batch{
		{
			ID:               uuid.New(),
			Name:             "Amethyst rounds",
			ProductType:      models.ProductTypeLooseBeads,
			SpecValue:        &diameter,
			SpecUnit:         &mm,
			Quality:          &aa,
			OriginalQuantity: 100,
			UsedQuantity:     95,
			UnitPrice:        0.3,
			MinStockAlert:    10,
		},
	}
	return hierarchy.Build(batches, hierarchy.Filters{LowStockOnly: true})
}

func (suite *LowStockTestSuite) TestCheckLowStock_CollectsAlerts() {
	suite.mockInventory.On("Tree", mock.Anything, hierarchy.Filters{LowStockOnly: true}).
		Return(lowStockTree(), nil).Once()

	alerts, err := suite.service.CheckLowStock(context.Background())

	require.NoError(suite.T(), err)
	require.Len(suite.T(), alerts, 1)
	assert.Equal(suite.T(), "LOOSE_BEADS", alerts[0].ProductType)
	assert.Equal(suite.T(), "8mm", alerts[0].Specification)
	assert.Equal(suite.T(), "AA", alerts[0].Quality)
	assert.InDelta(suite.T(), 5, alerts[0].RemainingQuantity, 1e-9)
	assert.Equal(suite.T(), []string{"Amethyst rounds"}, alerts[0].BatchNames)
}

func (suite *LowStockTestSuite) TestScheduledCheck_StoresReport() {
	suite.mockInventory.On("Tree", mock.Anything, hierarchy.Filters{LowStockOnly: true}).
		Return(lowStockTree(), nil).Once()
	suite.mockCache.On("SetString", mock.Anything, LastReportKey, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).
		Return(nil).Run(func(args mock.Arguments) {
		var report LowStockReport
		require.NoError(suite.T(), json.Unmarshal([]byte(args.String(2)), &report))
		assert.Len(suite.T(), report.Alerts, 1)
		assert.False(suite.T(), report.GeneratedAt.IsZero())
	}).Once()

	err := suite.service.ScheduledLowStockCheck(context.Background())
	assert.NoError(suite.T(), err)
}

func (suite *LowStockTestSuite) TestCheckLowStock_EmptyTree() {
	suite.mockInventory.On("Tree", mock.Anything, hierarchy.Filters{LowStockOnly: true}).
		Return([]*hierarchy.ProductTypeGroup{}, nil).Once()

	alerts, err := suite.service.CheckLowStock(context.Background())

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), alerts)
}
