// Package router 路由注册
//
// 中间件执行顺序:Tracing → Logger → Recovery → Metrics → Handler
//
// 路由一览:
//
//	GET  /ping                       健康检查
//	GET  /metrics                    Prometheus指标
//	GET  /swagger/*any               接口文档
//	GET  /catalog                    首页统计
//	GET  /catalog/books              图书列表
//	GET  /catalog/book/create        新建表单
//	POST /catalog/book/create        提交新建
//	GET  /catalog/book/:id           图书详情
//	GET  /catalog/book/:id/update    更新表单
//	POST /catalog/book/:id/update    提交更新
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/locallibrary/internal/interface/http/handler"
	"github.com/xiebiao/locallibrary/internal/interface/http/middleware"
	"github.com/xiebiao/locallibrary/pkg/metrics"
	"github.com/xiebiao/locallibrary/pkg/response"
)

// New 创建gin引擎并注册全部路由
func New(logger *slog.Logger, books *handler.BookHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Tracing())
	r.Use(middleware.Logger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	catalog := r.Group("/catalog")
	{
		catalog.GET("", books.Index)
		catalog.GET("/books", books.ListBooks)

		// 静态段create与参数段:id同级共存
		catalog.GET("/book/create", books.CreateForm)
		catalog.POST("/book/create", books.Create)
		catalog.GET("/book/:id", books.Detail)
		catalog.GET("/book/:id/update", books.UpdateForm)
		catalog.POST("/book/:id/update", books.Update)
	}

	return r
}
