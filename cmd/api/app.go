package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/locallibrary/internal/application/book"
	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
	"github.com/xiebiao/locallibrary/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/locallibrary/internal/interface/http/handler"
	"github.com/xiebiao/locallibrary/internal/interface/http/router"
	"github.com/xiebiao/locallibrary/pkg/circuitbreaker"
	"github.com/xiebiao/locallibrary/pkg/mq"
)

// buildServer 手动依赖注入
// 依赖链:Repository ← Aggregator ← UseCase ← Handler ← Router
// 与wire.go中的initializeServer组装结果一致
func buildServer(cfg *config.Config, logger *slog.Logger) (*gin.Engine, func(), error) {
	db, closeDB, err := provideDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	publisher, closePublisher, err := provideEventPublisher(cfg)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	// 基础设施层
	bookRepo := mysql.NewBookRepository(db)
	authorRepo := mysql.NewAuthorRepository(db)
	genreRepo := mysql.NewGenreRepository(db)
	instanceRepo := mysql.NewBookInstanceRepository(db)

	// 应用层
	agg := appbook.NewAggregator(bookRepo, authorRepo, genreRepo, instanceRepo)
	bookHandler := handler.NewBookHandler(
		appbook.NewDashboardUseCase(agg),
		appbook.NewListBooksUseCase(bookRepo),
		appbook.NewBookDetailUseCase(agg),
		appbook.NewCreateBookUseCase(agg, bookRepo, publisher),
		appbook.NewUpdateBookUseCase(agg, bookRepo, providePolicy(cfg), publisher),
	)

	engine := provideEngine(cfg, logger, bookHandler)

	cleanup := func() {
		closePublisher()
		closeDB()
	}
	return engine, cleanup, nil
}

// provideDB 连接数据库,配置了auto_migrate时顺便建表
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(db); err != nil {
			cleanup()
			return nil, nil, err
		}
		slog.Info("数据库表结构已迁移")
	}

	return db, cleanup, nil
}

// provideEventPublisher 未启用消息队列时返回nil(用例不发布事件)
// 启用时在发布者外面加一层熔断
func provideEventPublisher(cfg *config.Config) (appbook.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return nil, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("图书事件发布已启用", "exchange", cfg.MQ.Exchange)

	cb := circuitbreaker.New(cfg.MQ.Exchange, publishBreakerConfig(cfg))
	return mq.NewGuardedPublisher(publisher, cb), func() { _ = publisher.Close() }, nil
}

// publishBreakerConfig 事件发布熔断器配置(mq.breaker_*)
func publishBreakerConfig(cfg *config.Config) circuitbreaker.Config {
	return circuitbreaker.Config{
		MaxRequests:   uint32(cfg.MQ.BreakerProbeRequests),
		Interval:      cfg.MQ.BreakerInterval,
		Timeout:       cfg.MQ.BreakerTimeout,
		ReadyToTrip:   circuitbreaker.ConsecutiveFailures(uint32(cfg.MQ.BreakerFailures)),
		OnStateChange: mq.LogStateChange,
	}
}

// providePolicy 校验策略来自配置
func providePolicy(cfg *config.Config) appbook.Policy {
	return appbook.Policy{
		TitleMin:   cfg.Validation.TitleMin,
		TitleMax:   cfg.Validation.TitleMax,
		SummaryMax: cfg.Validation.SummaryMax,
	}
}

// provideEngine 设置gin运行模式并注册路由
func provideEngine(cfg *config.Config, logger *slog.Logger, books *handler.BookHandler) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}
	return router.New(logger, books)
}
