package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Store 变更计数
	StoreMutationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_mutation_count",
			Help: "Total number of store mutations",
		},
		[]string{"entity", "operation", "result"}, // entity: task, report; result: ok, not_found
	)

	// 通知生成计数
	NotificationEmittedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emitted_count",
			Help: "Total number of notifications emitted by mutations",
		},
		[]string{"type"},
	)

	// 事件发布失败计数
	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_failures",
			Help: "Total number of events that could not be published",
		},
		[]string{"routing_key"},
	)

	// 登录尝试计数
	LoginAttemptCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempt_count",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // result: success, failure
	)

	// 通知投递计数（notifier）
	NotificationDeliveredCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_delivered_count",
			Help: "Total number of notification events handled by the notifier",
		},
		[]string{"status"}, // status: delivered, duplicate, failed
	)

	// MQ 消费延迟（毫秒）
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of slow database queries",
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementStoreMutation 增加 Store 变更计数
func IncrementStoreMutation(entity, operation, result string) {
	StoreMutationCount.WithLabelValues(entity, operation, result).Inc()
}

// IncrementNotificationEmitted 增加通知生成计数
func IncrementNotificationEmitted(notificationType string) {
	NotificationEmittedCount.WithLabelValues(notificationType).Inc()
}

// IncrementEventPublishFailure 增加事件发布失败计数
func IncrementEventPublishFailure(routingKey string) {
	EventPublishFailures.WithLabelValues(routingKey).Inc()
}

// IncrementLoginAttempt 增加登录尝试计数
func IncrementLoginAttempt(result string) {
	LoginAttemptCount.WithLabelValues(result).Inc()
}

// IncrementNotificationDelivered 增加通知投递计数
func IncrementNotificationDelivered(status string) {
	NotificationDeliveredCount.WithLabelValues(status).Inc()
}

// RecordMQConsumeLatency 记录 MQ 消费延迟
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// IncrementSlowQuery 增加慢查询计数，operation 取 SQL 的首个关键字
func IncrementSlowQuery(operation string) {
	SlowQueryCount.WithLabelValues(operation).Inc()
}
