// Package router 注册HTTP路由
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-inventory/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-inventory/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-inventory/pkg/response"
)

// NewRouter 创建并配置Gin引擎
// 教学要点:
// 1. 中间件顺序:Recovery → CORS → Tracing → Logger → Metrics,日志里能带上trace
//    CORS放在最前,预检请求不计入业务日志和指标
// 2. /metrics、/swagger、/ping不经过业务路由组
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	bookHandler *handler.BookHandler,
	categoryHandler *handler.CategoryHandler,
	purchaseHandler *handler.PurchaseHandler,
	dashboardHandler *handler.DashboardHandler,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(cfg.CORS), middleware.Tracing(), middleware.Logger(logger), middleware.Metrics())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message":  "pong",
			"status":   "healthy",
			"driver":   cfg.Database.Driver,
			"strategy": cfg.Purchase.Strategy,
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		books := v1.Group("/books")
		{
			books.GET("", bookHandler.ListBooks)
			books.POST("", bookHandler.PublishBook)
			books.GET("/:id", bookHandler.GetBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
			books.POST("/:id/restock", bookHandler.Restock)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.PUT("/:id", categoryHandler.RenameCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		purchases := v1.Group("/purchases")
		{
			purchases.POST("", middleware.RateLimit(cfg.Purchase.RateLimit, cfg.Purchase.RateBurst), purchaseHandler.CreatePurchase)
			purchases.GET("", purchaseHandler.ListPurchases)
			purchases.GET("/:id", purchaseHandler.GetPurchase)
		}

		v1.GET("/dashboard/summary", dashboardHandler.Summary)
	}

	return r
}
