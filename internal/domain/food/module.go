package food

import (
	"food_order_api/internal/domain/food/handler"
	"food_order_api/internal/domain/food/repository"
	"food_order_api/internal/domain/food/service"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/internal/pkg/registry"
	"food_order_api/pkg/cache"

	"github.com/gin-gonic/gin"
)

// FoodModule 商品模块
type FoodModule struct{}

func init() {
	registry.Register(&FoodModule{})
}

func (m *FoodModule) Name() string {
	return "food"
}

func (m *FoodModule) Priority() int {
	return 10
}

func (m *FoodModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	foodRepo := repository.NewFoodRepository(ctx.DB)
	cacheService := cache.NewRedisCache(ctx.Redis, "food-order:")
	foodService := service.NewCachedFoodService(foodRepo, cacheService)
	foodHandler := handler.NewFoodHandler(foodService)

	// 2. 路由注册
	setupRoutes(ctx.Router, foodHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.FoodHandler) {
	g := r.Group("/foods")

	// 菜单浏览无需登录
	g.GET("", h.GetFoods)
	g.GET("/:id", h.GetFood)

	// 管理端
	admin := g.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("", h.CreateFood)
		admin.PUT("/:id", h.UpdateFood)
		admin.DELETE("/:id", h.DeleteFood)
	}
}
