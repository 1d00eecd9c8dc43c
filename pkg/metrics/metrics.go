// Package metrics 基于Prometheus的指标收集
//
// # 指标分类
//
// **1. HTTP指标**:请求总数、耗时分布、正在处理的请求数
//
// **2. 图书写入**:创建/更新的结果计数(success/failure)
//
// **3. 表单校验**:校验未通过的提交次数(按表单区分)
//
// **4. 聚合读取**:每种并发读取(首页计数、详情、表单引用数据)的耗时和失败次数
//
// **5. 消息队列**:图书事件发布次数
//
// # 使用示例
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(metrics.Handler()))
//
//	start := time.Now()
//	results, err := g.Wait()
//	metrics.ObserveAggregation("book_detail", start, err)
//
// # 命名规范
//
//   - Counter以`_total`结尾
//   - Histogram以单位结尾(`_seconds`)
//   - 标签只用有限取值的维度(method、operation、result),不要用图书ID
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 写入结果标签值
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数(Counter)
	// 标签:method、path(路由模板,如/catalog/book/:id)、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时(Histogram)
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数(Gauge)
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BookWritesTotal 图书写入次数
	// 标签:operation(create/update)、result(success/failure)
	BookWritesTotal *prometheus.CounterVec

	// FormValidationFailuresTotal 表单校验未通过次数
	// 标签:form(book_form/book_update)
	FormValidationFailuresTotal *prometheus.CounterVec

	// AggregationDuration 并发读取耗时
	// 标签:name(dashboard/book_detail/form_references/book_edit)
	AggregationDuration *prometheus.HistogramVec

	// AggregationFailuresTotal 并发读取失败次数
	AggregationFailuresTotal *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	// 标签:exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry
// 可以重复调用,只有第一次生效
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时(秒)",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BookWritesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_book_writes_total",
				Help: "图书写入次数",
			},
			[]string{"operation", "result"},
		)

		FormValidationFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_form_validation_failures_total",
				Help: "表单校验未通过次数",
			},
			[]string{"form"},
		)

		AggregationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "library_aggregation_duration_seconds",
				Help: "并发读取耗时(秒)",
				// 几次数据库查询并发执行,通常在几十毫秒内
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"name"},
		)

		AggregationFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_aggregation_failures_total",
				Help: "并发读取失败次数",
			},
			[]string{"name"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key"},
		)
	})
}

// Handler /metrics端点
func Handler() http.Handler {
	return promhttp.Handler()
}

// 下面的便捷函数在InitMetrics之前调用时什么也不做(单元测试不需要注册指标)

// RecordBookWrite 记录一次图书写入
func RecordBookWrite(operation string, err error) {
	if BookWritesTotal == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	BookWritesTotal.WithLabelValues(operation, result).Inc()
}

// RecordValidationFailure 记录一次表单校验未通过
func RecordValidationFailure(form string) {
	if FormValidationFailuresTotal == nil {
		return
	}
	FormValidationFailuresTotal.WithLabelValues(form).Inc()
}

// ObserveAggregation 记录一次并发读取的耗时,失败时同时计数
func ObserveAggregation(name string, start time.Time, err error) {
	if AggregationDuration == nil {
		return
	}
	AggregationDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		AggregationFailuresTotal.WithLabelValues(name).Inc()
	}
}

// RecordPublished 记录一条已发布的消息
func RecordPublished(exchange, routingKey string) {
	if MessagesPublishedTotal == nil {
		return
	}
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey).Inc()
}
