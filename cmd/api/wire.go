//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 与app.go中的buildServer组装出同一张依赖图:
//   - 运行 `wire gen ./cmd/api` 生成wire_gen.go
//   - 生成后可用initializeServer替换buildServer
//
// 核心概念:
// - Provider: 提供依赖的构造函数(如mysql.NewBookRepository)
// - Injector: 声明最终要构造的目标类型(这里是*gin.Engine)
// - 返回cleanup的Provider(provideDB、provideEventPublisher)会被Wire串成一个cleanup

package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/locallibrary/internal/application/book"
	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
	"github.com/xiebiao/locallibrary/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/locallibrary/internal/interface/http/handler"
)

// infrastructureSet 基础设施层:数据库连接、事件发布
var infrastructureSet = wire.NewSet(
	provideDB,
	provideEventPublisher,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	mysql.NewAuthorRepository,
	mysql.NewGenreRepository,
	mysql.NewBookInstanceRepository,
)

// applicationSet 应用层:聚合读取 + 五个用例
var applicationSet = wire.NewSet(
	providePolicy,
	appbook.NewAggregator,
	appbook.NewDashboardUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewBookDetailUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
)

// handlerSet HTTP处理器和路由
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	provideEngine,
)

// initializeServer Wire注入器
func initializeServer(cfg *config.Config, logger *slog.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		handlerSet,
	)
	return nil, nil, nil
}
