package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/locallibrary/pkg/tracing"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// RequestIDKey 请求ID在gin.Context中的键
const RequestIDKey = "request_id"

// slowRequest 超过该耗时记一条警告
const slowRequest = 3 * time.Second

// Logger 请求日志中间件
//
// 1. 沿用上游传入的X-Request-ID,没有则生成一个
// 2. 请求结束后记录方法、路由、状态码、耗时、客户端IP(有Trace时带上trace_id,需挂在Tracing之后)
// 3. 5xx记error,4xx记warn,其余info
//
// 不记录请求体(表单里的简介可能很长)
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			attrs = append(attrs, "trace_id", traceID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.ErrorContext(ctx, "http request", attrs...)
		case status >= 400:
			logger.WarnContext(ctx, "http request", attrs...)
		default:
			logger.InfoContext(ctx, "http request", attrs...)
		}

		if latency > slowRequest {
			logger.WarnContext(ctx, "slow request", "request_id", requestID, "path", c.Request.URL.Path, "latency", latency)
		}
	}
}
