package services

import (
	"context"
	"testing"

	"beadstock/internal/hierarchy"
	"beadstock/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Create(ctx context.Context, batch *models.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchService) GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockBatchService) Update(ctx context.Context, batch *models.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBatchService) List(ctx context.Context, limit, offset int) ([]*models.Batch, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Batch), args.Error(1)
}

func (m *MockBatchService) ListAll(ctx context.Context) ([]*models.Batch, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Batch), args.Error(1)
}

func (m *MockBatchService) Consume(ctx context.Context, id uuid.UUID, quantity float64) (*models.Batch, error) {
	args := m.Called(ctx, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockBatchService) Search(ctx context.Context, filter *models.BatchSearchFilter) ([]*models.Batch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Batch), args.Error(1)
}

type InventoryServiceTestSuite struct {
	suite.Suite
	mockBatches *MockBatchService
	service     InventoryService
	operatorID  uuid.UUID
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.mockBatches = &MockBatchService{}
	suite.service = NewInventoryService(suite.mockBatches)
	suite.operatorID = uuid.New()
}

func (suite *InventoryServiceTestSuite) TearDownTest() {
	suite.mockBatches.AssertExpectations(suite.T())
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}

func treeFixture() []*models.Batch {
	diameter := 8.0
	mm := "mm"
	aa := "AA"
	return []*models.Batch{
		{
			ID:               uuid.New(),
			Name:             "Amethyst rounds",
			ProductType:      models.ProductTypeLooseBeads,
			SpecValue:        &diameter,
			SpecUnit:         &mm,
			Quality:          &aa,
			OriginalQuantity: 500,
			UsedQuantity:     100,
			UnitPrice:        0.3,
			MinStockAlert:    50,
		},
		{
			ID:               uuid.New(),
			Name:             "Chakra bracelet strings",
			ProductType:      models.ProductTypeBracelet,
			OriginalQuantity: 20,
			UsedQuantity:     5,
			UnitPrice:        4,
			MinStockAlert:    2,
		},
	}
}

func (suite *InventoryServiceTestSuite) TestRows_CollapsedByDefault() {
	suite.mockBatches.On("ListAll", mock.Anything).Return(treeFixture(), nil).Once()

	rows, err := suite.service.Rows(context.Background(), suite.operatorID, hierarchy.Filters{})

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rows, 2)
	for _, row := range rows {
		assert.Equal(suite.T(), hierarchy.LevelProductType, row.Level)
		assert.False(suite.T(), row.Expanded)
	}
}

func (suite *InventoryServiceTestSuite) TestToggle_ExpandsOneType() {
	suite.mockBatches.On("ListAll", mock.Anything).Return(treeFixture(), nil).Once()

	rows, err := suite.service.Toggle(context.Background(), suite.operatorID, ToggleTarget{
		Level:       hierarchy.LevelProductType,
		ProductType: models.ProductTypeLooseBeads,
	}, hierarchy.Filters{})

	assert.NoError(suite.T(), err)
	// Two type rows plus the one spec row under the expanded loose-beads type
	assert.Len(suite.T(), rows, 3)
	assert.Equal(suite.T(), hierarchy.LevelSpecification, rows[1].Level)
	assert.Equal(suite.T(), "8mm", rows[1].Label)
}

func (suite *InventoryServiceTestSuite) TestToggle_UnknownProductType() {
	rows, err := suite.service.Toggle(context.Background(), suite.operatorID, ToggleTarget{
		Level:       hierarchy.LevelProductType,
		ProductType: "NOT_A_TYPE",
	}, hierarchy.Filters{})

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), rows)
	suite.mockBatches.AssertNotCalled(suite.T(), "ListAll")
}

func (suite *InventoryServiceTestSuite) TestExpandAllThenCollapseAll() {
	suite.mockBatches.On("ListAll", mock.Anything).Return(treeFixture(), nil).Times(2)

	rows, err := suite.service.ExpandAll(context.Background(), suite.operatorID, hierarchy.Filters{})
	assert.NoError(suite.T(), err)
	// 2 types + 2 specs + 2 qualities
	assert.Len(suite.T(), rows, 6)

	rows, err = suite.service.CollapseAll(context.Background(), suite.operatorID, hierarchy.Filters{})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rows, 2)
}

func (suite *InventoryServiceTestSuite) TestExpansionStateIsPerOperator() {
	otherOperator := uuid.New()
	suite.mockBatches.On("ListAll", mock.Anything).Return(treeFixture(), nil).Times(2)

	rows, err := suite.service.Toggle(context.Background(), suite.operatorID, ToggleTarget{
		Level:       hierarchy.LevelProductType,
		ProductType: models.ProductTypeLooseBeads,
	}, hierarchy.Filters{})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rows, 3)

	rows, err = suite.service.Rows(context.Background(), otherOperator, hierarchy.Filters{})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rows, 2)
}

func (suite *InventoryServiceTestSuite) TestFilteredOutNodesLoseExpansion() {
	suite.mockBatches.On("ListAll", mock.Anything).Return(treeFixture(), nil).Times(3)

	_, err := suite.service.Toggle(context.Background(), suite.operatorID, ToggleTarget{
		Level:       hierarchy.LevelProductType,
		ProductType: models.ProductTypeBracelet,
	}, hierarchy.Filters{})
	assert.NoError(suite.T(), err)

	// A filter that removes the bracelet subtree drops its remembered state
	_, err = suite.service.Rows(context.Background(), suite.operatorID, hierarchy.Filters{
		ProductTypes: []models.ProductType{models.ProductTypeLooseBeads},
	})
	assert.NoError(suite.T(), err)

	rows, err := suite.service.Rows(context.Background(), suite.operatorID, hierarchy.Filters{})
	assert.NoError(suite.T(), err)
	for _, row := range rows {
		assert.False(suite.T(), row.Expanded)
	}
}
