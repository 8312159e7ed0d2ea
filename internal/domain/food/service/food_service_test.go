package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"food_order_api/internal/domain/food/model"
	"food_order_api/pkg/cache"
	baseModel "food_order_api/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockFoodRepository is a mock of FoodRepository
type MockFoodRepository struct {
	mock.Mock
}

func (m *MockFoodRepository) Create(food *model.Food) error {
	args := m.Called(food)
	return args.Error(0)
}

func (m *MockFoodRepository) GetByID(id string) (*model.Food, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Food), args.Error(1)
}

func (m *MockFoodRepository) GetList(offset, limit int) ([]model.Food, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Food), args.Get(1).(int64), args.Error(2)
}

func (m *MockFoodRepository) Search(name string, offset, limit int) ([]model.Food, int64, error) {
	args := m.Called(name, offset, limit)
	return args.Get(0).([]model.Food), args.Get(1).(int64), args.Error(2)
}

func (m *MockFoodRepository) Update(food *model.Food) error {
	args := m.Called(food)
	return args.Error(0)
}

func (m *MockFoodRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func createTestFood() *model.Food {
	return &model.Food{
		BaseModel:   baseModel.BaseModel{ID: "food-1"},
		Name:        "Margherita",
		Description: "Classic pizza",
		Quantities: []model.Quantity{
			{FoodID: "food-1", Size: "M", Price: 9.99},
			{FoodID: "food-1", Size: "L", Price: 12.99},
		},
	}
}

func TestCreateFood(t *testing.T) {
	repo := new(MockFoodRepository)
	svc := NewFoodService(repo)

	repo.On("Create", mock.AnythingOfType("*model.Food")).Return(nil)

	food, err := svc.CreateFood(CreateFoodInput{
		Name: "Margherita",
		Quantities: []QuantityInput{
			{Size: "M", Price: 9.99},
			{Size: "L", Price: 12.99},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, food.Quantities, 2)
	assert.Equal(t, "L", food.Quantities[1].Size)
	repo.AssertExpectations(t)
}

func TestGetFoods(t *testing.T) {
	t.Run("Defaults apply for page and limit", func(t *testing.T) {
		repo := new(MockFoodRepository)
		svc := NewFoodService(repo)

		repo.On("GetList", 0, 10).Return([]model.Food{*createTestFood()}, int64(1), nil)

		foods, total, err := svc.GetFoods(0, 0, "")

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, foods, 1)
		repo.AssertExpectations(t)
	})

	t.Run("Search takes over when a term is given", func(t *testing.T) {
		repo := new(MockFoodRepository)
		svc := NewFoodService(repo)

		repo.On("Search", "pizza", 10, 10).Return([]model.Food{}, int64(0), nil)

		_, _, err := svc.GetFoods(2, 10, "pizza")

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetList", mock.Anything, mock.Anything)
	})
}

func TestUpdateFood(t *testing.T) {
	t.Run("Replaces variants and rebinds them to the food", func(t *testing.T) {
		repo := new(MockFoodRepository)
		svc := NewFoodService(repo)

		repo.On("GetByID", "food-1").Return(createTestFood(), nil)
		repo.On("Update", mock.AnythingOfType("*model.Food")).Return(nil)

		food, err := svc.UpdateFood("food-1", CreateFoodInput{
			Name:       "Margherita XL",
			Quantities: []QuantityInput{{Size: "XL", Price: 15.99}},
		})

		assert.NoError(t, err)
		assert.Equal(t, "Margherita XL", food.Name)
		assert.Len(t, food.Quantities, 1)
		assert.Equal(t, "food-1", food.Quantities[0].FoodID)
	})

	t.Run("Missing food fails", func(t *testing.T) {
		repo := new(MockFoodRepository)
		svc := NewFoodService(repo)

		repo.On("GetByID", "nope").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.UpdateFood("nope", CreateFoodInput{})

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})
}

func TestDeleteFood(t *testing.T) {
	t.Run("Missing food fails without delete", func(t *testing.T) {
		repo := new(MockFoodRepository)
		svc := NewFoodService(repo)

		repo.On("GetByID", "nope").Return(nil, gorm.ErrRecordNotFound)

		err := svc.DeleteFood("nope")

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("Existing food is deleted", func(t *testing.T) {
		repo := new(MockFoodRepository)
		svc := NewFoodService(repo)

		repo.On("GetByID", "food-1").Return(createTestFood(), nil)
		repo.On("Delete", "food-1").Return(nil)

		assert.NoError(t, svc.DeleteFood("food-1"))
		repo.AssertExpectations(t)
	})
}

// memoryCache 测试用内存缓存
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) InvalidatePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func TestCachedFoodService(t *testing.T) {
	t.Run("Second read is served from cache", func(t *testing.T) {
		repo := new(MockFoodRepository)
		mem := newMemoryCache()
		svc := NewCachedFoodService(repo, mem)

		repo.On("GetByID", "food-1").Return(createTestFood(), nil).Once()

		first, err := svc.GetFood("food-1")
		assert.NoError(t, err)

		second, err := svc.GetFood("food-1")
		assert.NoError(t, err)
		assert.Equal(t, first.Name, second.Name)
		repo.AssertNumberOfCalls(t, "GetByID", 1)
	})

	t.Run("Update invalidates cached entries", func(t *testing.T) {
		repo := new(MockFoodRepository)
		mem := newMemoryCache()
		svc := NewCachedFoodService(repo, mem)

		repo.On("GetByID", "food-1").Return(createTestFood(), nil)
		repo.On("Update", mock.AnythingOfType("*model.Food")).Return(nil)
		repo.On("GetList", 0, 10).Return([]model.Food{*createTestFood()}, int64(1), nil)

		_, _ = svc.GetFood("food-1")
		_, _, _ = svc.GetFoods(1, 10, "")
		assert.NotEmpty(t, mem.data)

		_, err := svc.UpdateFood("food-1", CreateFoodInput{Name: "Renamed"})
		assert.NoError(t, err)
		assert.Empty(t, mem.data)
	})

	t.Run("List cache carries totals", func(t *testing.T) {
		repo := new(MockFoodRepository)
		mem := newMemoryCache()
		svc := NewCachedFoodService(repo, mem)

		repo.On("GetList", 0, 10).Return([]model.Food{*createTestFood()}, int64(42), nil).Once()

		_, total, err := svc.GetFoods(1, 10, "")
		assert.NoError(t, err)
		assert.Equal(t, int64(42), total)

		_, total, err = svc.GetFoods(1, 10, "")
		assert.NoError(t, err)
		assert.Equal(t, int64(42), total)
		repo.AssertNumberOfCalls(t, "GetList", 1)
	})
}
