package main

import (
	"log"

	"food_order_api/internal/pkg/config"
	"food_order_api/internal/pkg/mailer"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/internal/pkg/registry"
	"food_order_api/pkg/database"
	"food_order_api/pkg/logger"

	// 注册业务模块
	_ "food_order_api/internal/domain/food"
	_ "food_order_api/internal/domain/order"
	_ "food_order_api/internal/domain/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. 配置与日志
	config.LoadConfig()
	if err := logger.Init(config.GlobalConfig.App.Debug); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 2. 基础设施
	db := database.InitDatabase()
	rdb := database.InitRedis()

	// 3. 收据邮件分发器（异步、尽力而为）
	dispatcher := mailer.NewDispatcher(mailer.NewSMTPSender(config.GlobalConfig.Mail), 3, 256)
	dispatcher.Start()

	// 4. HTTP 引擎与全局中间件
	gin.SetMode(config.GlobalConfig.Server.Mode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.LoggerMiddleware(),
		middleware.TraceMiddleware(),
		middleware.RateLimitMiddleware(),
		middleware.MetricsMiddleware(),
	)

	corsConfig := cors.DefaultConfig()
	if len(config.GlobalConfig.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = config.GlobalConfig.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	corsConfig.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 5. 初始化业务模块
	moduleCtx := &registry.ModuleContext{
		DB:     db,
		Redis:  rdb,
		Router: r,
		Mailer: dispatcher,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		log.Fatalf("Failed to init modules: %v", err)
	}

	// 6. 启动
	addr := ":" + config.GlobalConfig.Server.Port
	log.Printf("Server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
