package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/locallibrary/pkg/metrics"
)

// unmatchedPath 没有匹配到路由的请求统一归到这个标签,避免按任意URL产生时间序列
const unmatchedPath = "unmatched"

// Metrics HTTP指标中间件
// path标签使用路由模板(/catalog/book/:id),不用真实URL
// 需要先调用metrics.InitMetrics,否则什么也不做
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.HTTPRequestsTotal == nil {
			c.Next()
			return
		}

		metrics.HTTPRequestsInProgress.Inc()
		defer metrics.HTTPRequestsInProgress.Dec()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
