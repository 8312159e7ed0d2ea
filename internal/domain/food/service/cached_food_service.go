package service

import (
	"context"
	"fmt"
	"time"

	"food_order_api/internal/domain/food/model"
	"food_order_api/internal/domain/food/repository"
	"food_order_api/pkg/cache"
	"food_order_api/pkg/logger"

	"go.uber.org/zap"
)

// 缓存键常量
const (
	FoodCacheKeyPrefix     = "food:"
	FoodListCacheKeyPrefix = "food_list:"
	FoodCacheTTL           = time.Hour * 2
	FoodListCacheTTL       = time.Minute * 30
)

// CachedFoodService 带缓存的商品服务
// 菜单读多写少，详情与列表走 Redis，写操作失效相关缓存
type CachedFoodService struct {
	inner FoodService
	cache cache.CacheService
}

// NewCachedFoodService 创建带缓存的商品服务
func NewCachedFoodService(repo repository.FoodRepository, cache cache.CacheService) FoodService {
	return &CachedFoodService{
		inner: NewFoodService(repo),
		cache: cache,
	}
}

func (s *CachedFoodService) getFoodCacheKey(id string) string {
	return FoodCacheKeyPrefix + id
}

func (s *CachedFoodService) getFoodListCacheKey(page, limit int, search string) string {
	return fmt.Sprintf("%s%d:%d:%s", FoodListCacheKeyPrefix, page, limit, search)
}

// invalidateFoodCache 清除商品相关缓存
func (s *CachedFoodService) invalidateFoodCache(ctx context.Context, foodID string) {
	if err := s.cache.Delete(ctx, s.getFoodCacheKey(foodID)); err != nil {
		logger.Log.Warn("Failed to invalidate food cache", zap.String("food_id", foodID), zap.Error(err))
	}
	// 清除列表缓存（所有页）
	if err := s.cache.InvalidatePattern(ctx, FoodListCacheKeyPrefix+"*"); err != nil {
		logger.Log.Warn("Failed to invalidate food list cache", zap.Error(err))
	}
}

func (s *CachedFoodService) CreateFood(input CreateFoodInput) (*model.Food, error) {
	food, err := s.inner.CreateFood(input)
	if err != nil {
		return nil, err
	}
	s.invalidateFoodCache(context.Background(), food.ID)
	return food, nil
}

// GetFood 获取单个商品（带缓存）
func (s *CachedFoodService) GetFood(id string) (*model.Food, error) {
	ctx := context.Background()
	key := s.getFoodCacheKey(id)

	var food model.Food
	if err := s.cache.Get(ctx, key, &food); err == nil {
		return &food, nil
	}

	result, err := s.inner.GetFood(id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, result, FoodCacheTTL); err != nil {
		logger.Log.Warn("Failed to cache food", zap.String("food_id", id), zap.Error(err))
	}
	return result, nil
}

// cachedFoodList 列表缓存载体
type cachedFoodList struct {
	Foods []model.Food `json:"foods"`
	Total int64        `json:"total"`
}

// GetFoods 获取商品列表（带缓存）
func (s *CachedFoodService) GetFoods(page, limit int, search string) ([]model.Food, int64, error) {
	ctx := context.Background()
	key := s.getFoodListCacheKey(page, limit, search)

	var cached cachedFoodList
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached.Foods, cached.Total, nil
	}

	foods, total, err := s.inner.GetFoods(page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	if err := s.cache.Set(ctx, key, cachedFoodList{Foods: foods, Total: total}, FoodListCacheTTL); err != nil {
		logger.Log.Warn("Failed to cache food list", zap.Error(err))
	}
	return foods, total, nil
}

func (s *CachedFoodService) UpdateFood(id string, input CreateFoodInput) (*model.Food, error) {
	food, err := s.inner.UpdateFood(id, input)
	if err != nil {
		return nil, err
	}
	s.invalidateFoodCache(context.Background(), id)
	return food, nil
}

func (s *CachedFoodService) DeleteFood(id string) error {
	if err := s.inner.DeleteFood(id); err != nil {
		return err
	}
	s.invalidateFoodCache(context.Background(), id)
	return nil
}
