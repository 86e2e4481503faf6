package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookstore-inventory/internal/application/book"
	"github.com/xiebiao/bookstore-inventory/internal/application/dashboard"
	apppurchase "github.com/xiebiao/bookstore-inventory/internal/application/purchase"
	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/messaging"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-inventory/pkg/circuitbreaker"
	"github.com/xiebiao/bookstore-inventory/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server
}

func newApp(cfg *config.Config, logger *slog.Logger, engine *gin.Engine) *App {
	return &App{
		Config: cfg,
		Logger: logger,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 教学说明:
// 存储驱动由配置决定(mysql | memory),Wire无法在编译期选择实现
// 所以先构造Stores,再从中取出各个仓储接口

// Stores 按驱动创建的存储集合
type Stores struct {
	Books      book.Repository
	Categories category.Repository
	Purchases  purchase.Repository
	Transactor apppurchase.Transactor // 内存驱动为nil
}

// provideStores 按database.driver创建存储
func provideStores(cfg *config.Config, logger *slog.Logger) (*Stores, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		categories := memory.NewCategories()
		catalog := memory.NewCatalog(categories)
		if cfg.Database.SeedDemoData {
			if err := memory.Seed(context.Background(), catalog, categories); err != nil {
				return nil, nil, err
			}
		}
		logger.Warn("使用内存存储,数据不会持久化")
		return &Stores{
			Books:      catalog,
			Categories: categories,
			Purchases:  memory.NewLedger(),
		}, func() {}, nil
	}

	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := mysql.Close(db); err != nil {
			logger.Error("关闭数据库连接失败", slog.Any("error", err))
		}
	}
	stores := &Stores{
		Books:      mysql.NewBookRepository(db),
		Categories: mysql.NewCategoryRepository(db),
		Purchases:  mysql.NewPurchaseRepository(db),
	}
	if cfg.Purchase.Strategy == config.StrategyTransaction {
		stores.Transactor = mysql.NewTxManager(db)
	}
	return stores, cleanup, nil
}

func provideBookRepository(s *Stores) book.Repository { return s.Books }

func provideCategoryRepository(s *Stores) category.Repository { return s.Categories }

func providePurchaseRepository(s *Stores) purchase.Repository { return s.Purchases }

// provideIdempotencyStore Redis启用时使用Redis,否则使用进程内存储
// 启动时连不上Redis退回进程内存储,幂等只在单实例内生效
func provideIdempotencyStore(cfg *config.Config, logger *slog.Logger) (apppurchase.IdempotencyStore, func(), error) {
	if !cfg.Redis.Enabled {
		return memory.NewIdempotencyStore(), func() {}, nil
	}
	client, err := redis.NewClient(cfg)
	if err != nil {
		logger.Warn("连接Redis失败,幂等键改用进程内存储", slog.Any("error", err))
		return memory.NewIdempotencyStore(), func() {}, nil
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Error("关闭Redis连接失败", slog.Any("error", err))
		}
	}
	return redis.NewIdempotencyStore(client), cleanup, nil
}

// provideEventPublisher 消息队列启用时发布到RabbitMQ
// 连接失败不阻止启动:事件是尽力而为的
func provideEventPublisher(cfg *config.Config, logger *slog.Logger) (purchase.EventPublisher, func()) {
	if !cfg.MQ.Enabled {
		return purchase.NopPublisher{}, func() {}
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		logger.Warn("连接RabbitMQ失败,购买事件不会发布", slog.Any("error", err))
		return purchase.NopPublisher{}, func() {}
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Error("关闭RabbitMQ连接失败", slog.Any("error", err))
		}
	}
	breaker := circuitbreaker.NewCircuitBreaker("rabbitmq-publish", circuitbreaker.DefaultConfig())
	return messaging.NewEventPublisher(publisher, breaker, cfg.MQ.PublishTimeout, logger), cleanup
}

// provideCoordinator 按purchase.strategy组装购买协调者
func provideCoordinator(cfg *config.Config, stores *Stores, publisher purchase.EventPublisher, logger *slog.Logger) *apppurchase.Coordinator {
	opts := []apppurchase.Option{
		apppurchase.WithLogger(logger),
		apppurchase.WithEventPublisher(publisher),
		apppurchase.WithCompensationRetry(cfg.Purchase.CompensationAttempts, cfg.Purchase.CompensationBackoff),
	}
	if stores.Transactor != nil {
		opts = append(opts, apppurchase.WithTransactor(stores.Transactor))
	}
	c := apppurchase.NewCoordinator(stores.Books, stores.Purchases, opts...)
	logger.Info("购买协调者已创建", slog.String("strategy", c.Strategy()))
	return c
}

func provideIdempotentPurchaser(cfg *config.Config, c *apppurchase.Coordinator, store apppurchase.IdempotencyStore, purchases purchase.Repository, logger *slog.Logger) *apppurchase.IdempotentPurchaser {
	return apppurchase.NewIdempotentPurchaser(c, store, purchases, cfg.Purchase.IdempotencyTTL, logger)
}

func provideQueryUseCase(cfg *config.Config, purchases purchase.Repository) *apppurchase.QueryUseCase {
	return apppurchase.NewQueryUseCase(purchases, cfg.Catalog.DefaultPageSize)
}

func provideListBooksUseCase(cfg *config.Config, svc book.Service, categories category.Repository) *appbook.ListBooksUseCase {
	return appbook.NewListBooksUseCase(svc, categories, cfg.Catalog.DefaultPageSize)
}

func provideSummaryUseCase(cfg *config.Config, books book.Repository, categories category.Repository, purchases purchase.Repository) *dashboard.SummaryUseCase {
	return dashboard.NewSummaryUseCase(books, categories, purchases, cfg.Catalog.LowStockThreshold)
}
