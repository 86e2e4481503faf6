//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明:
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 运行 `wire gen ./cmd/api` 生成wire_gen.go
// 3. main.go调用wire_gen.go中的InitializeApp()
//
// 核心概念:
// - Provider: 提供依赖的构造函数(如mysql.NewBookRepository)
// - Injector: 声明最终要构造的目标类型(*App)
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"log/slog"

	"github.com/google/wire"

	appbook "github.com/xiebiao/bookstore-inventory/internal/application/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-inventory/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-inventory/internal/interface/http/router"
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	provideStores,
	provideBookRepository,
	provideCategoryRepository,
	providePurchaseRepository,
	provideIdempotencyStore,
	provideEventPublisher,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
	category.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewPublishBookUseCase,
	appbook.NewEditBookUseCase,
	provideListBooksUseCase,
	provideCoordinator,
	provideIdempotentPurchaser,
	provideQueryUseCase,
	provideSummaryUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewCategoryHandler,
	handler.NewPurchaseHandler,
	handler.NewDashboardHandler,
	router.NewRouter,
)

// InitializeApp 初始化整个应用
// 返回的cleanup按创建的逆序关闭数据库、Redis、RabbitMQ连接
func InitializeApp(cfg *config.Config, logger *slog.Logger) (*App, func(), error) {
	wire.Build(
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		newApp,
	)
	return nil, nil, nil
}
