package order

import (
	foodRepository "food_order_api/internal/domain/food/repository"
	"food_order_api/internal/domain/order/handler"
	"food_order_api/internal/domain/order/repository"
	"food_order_api/internal/domain/order/service"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	// 订单模块依赖用户和商品模块
	return 20
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	orderRepo := repository.NewOrderRepository(ctx.DB)
	paymentRepo := repository.NewPaymentRepository(ctx.DB)

	// 订单校验只读依赖商品仓库
	foodRepo := foodRepository.NewFoodRepository(ctx.DB)

	orderService := service.NewOrderService(orderRepo, paymentRepo, foodRepo, ctx.Mailer)
	orderHandler := handler.NewOrderHandler(orderService)

	// 2. 路由注册
	setupRoutes(ctx.Router, orderHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	g := r.Group("/orders")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("/create", h.CreateOrder)
		g.PUT("/pay", h.Pay)
		g.GET("/track/:orderId", h.Track)
		g.GET("/newOrderForCurrentUser", h.CurrentOpenOrder)
		g.GET("/allstatus", h.Statuses)
		g.GET("/user-purchase-count", h.PurchaseCount)
		g.GET("/order/:id", h.GetOrder)
		g.DELETE("/:id", h.DeleteOrder)

		// 原接口的可选路径段 /:status?，gin 拆成两条路由
		// 静态兄弟路由（allstatus、orders 等）优先于参数路由匹配
		g.GET("", h.ListOrders)
		g.GET("/:status", h.ListOrders)
	}

	// 管理端
	admin := g.Group("")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/orders", h.AdminListOrders)
		admin.PATCH("/order/:id/status", h.SetOrderStatus)
		admin.PATCH("/payment/:id/status", h.SetPaymentStatus)
	}
}
