package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	mqcontracts "github.com/bayraktare/pmt/contracts/mq"
	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/pkg/metrics"
	"github.com/bayraktare/pmt/pkg/util"
)

const (
	handlerName = "notification_log"
	maxRetries  = 5 // 最大重试次数
)

var errMissingID = errors.New("notification payload has no id")

// Deduper is satisfied by util.Deduper.
type Deduper interface {
	AcquireOnce(ctx context.Context, handler, id string) bool
	Release(ctx context.Context, handler, id string)
}

// RetryCounter is satisfied by util.RetryCounter.
type RetryCounter interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// LogStore is satisfied by repository.NotificationLogRepository.
type LogStore interface {
	Insert(ctx context.Context, log *model.NotificationLog) (bool, error)
}

// DeadLetterPublisher is satisfied by mq.Publisher.
type DeadLetterPublisher interface {
	PublishToDLQ(routingKey string, payload []byte, originalError, failedAt string) error
}

type NotificationCreatedHandler struct {
	repo         LogStore
	deduper      Deduper
	retryCounter RetryCounter
	dlq          DeadLetterPublisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewNotificationCreatedHandler(
	repo LogStore,
	deduper Deduper,
	retryCounter RetryCounter,
	dlq DeadLetterPublisher,
	logger *zap.Logger,
) *NotificationCreatedHandler {
	return &NotificationCreatedHandler{
		repo:         repo,
		deduper:      deduper,
		retryCounter: retryCounter,
		dlq:          dlq,
		logger:       logger,
		now:          time.Now,
	}
}

// Handle records one notification.created event in the delivery log.
// Only retryable failures under the retry limit are returned, so the
// consumer requeues them; everything else is acked or dead-lettered.
func (h *NotificationCreatedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.NotificationCreatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.deadLetter(raw, fmt.Errorf("json_unmarshal_error: %w", err))
		return nil
	}
	if p.ID == "" {
		h.deadLetter(raw, errMissingID)
		return nil
	}

	h.logger.Info("Handling notification.created event",
		zap.String("notification_id", p.ID),
		zap.String("target", p.Target),
		zap.String("type", p.Type),
	)

	if !h.deduper.AcquireOnce(ctx, handlerName, p.ID) {
		metrics.IncrementNotificationDelivered("duplicate")
		return nil
	}

	notifiedOn, err := model.ParseDate(p.Date)
	if err != nil {
		h.deadLetter(raw, err)
		return nil
	}

	entry := &model.NotificationLog{
		NotificationID: p.ID,
		Target:         p.Target,
		Type:           p.Type,
		Message:        p.Message,
		NotifiedOn:     notifiedOn,
	}
	inserted, err := h.repo.Insert(ctx, entry)
	if err != nil {
		return h.onInsertError(ctx, raw, p.ID, err)
	}

	retryKey := util.FormatRetryKey(handlerName, p.ID)
	if err := h.retryCounter.Reset(ctx, retryKey); err != nil {
		h.logger.Warn("Failed to reset retry count",
			zap.String("notification_id", p.ID),
			zap.Error(err),
		)
	}

	if !inserted {
		h.logger.Info("Notification already logged, skipping",
			zap.String("notification_id", p.ID),
		)
		metrics.IncrementNotificationDelivered("duplicate")
		return nil
	}

	h.logger.Info("Notification logged successfully",
		zap.String("notification_id", p.ID),
		zap.Int64("log_id", entry.ID),
	)
	metrics.IncrementNotificationDelivered("delivered")
	return nil
}

func (h *NotificationCreatedHandler) onInsertError(ctx context.Context, raw json.RawMessage, id string, err error) error {
	isRetryable, errType := util.IsRetryableError(err)

	retryCount := int64(1)
	if isRetryable {
		n, cerr := h.retryCounter.IncrementAndGet(ctx, util.FormatRetryKey(handlerName, id))
		if cerr != nil {
			// Redis 错误不影响处理
			h.logger.Warn("Failed to get retry count, continuing anyway",
				zap.String("notification_id", id),
				zap.Error(cerr),
			)
		} else {
			retryCount = n
		}
	}

	h.logger.Error("Failed to insert notification log",
		zap.String("notification_id", id),
		zap.String("error_type", errType),
		zap.Bool("retryable", isRetryable),
		zap.Int64("retry_count", retryCount),
		zap.Error(err),
	)

	if util.ShouldRetry(retryCount, maxRetries, isRetryable) {
		h.deduper.Release(ctx, handlerName, id)
		return err
	}

	h.deadLetter(raw, err)
	return nil
}

func (h *NotificationCreatedHandler) deadLetter(raw json.RawMessage, cause error) {
	metrics.IncrementNotificationDelivered("failed")
	failedAt := h.now().UTC().Format(time.RFC3339)
	if err := h.dlq.PublishToDLQ(mqcontracts.RoutingKeyNotificationCreated, raw, cause.Error(), failedAt); err != nil {
		h.logger.Error("Failed to publish to DLQ",
			zap.String("original_error", cause.Error()),
			zap.Error(err),
		)
		return
	}
	h.logger.Warn("Message sent to DLQ",
		zap.String("routing_key", mqcontracts.RoutingKeyNotificationCreated),
		zap.String("original_error", cause.Error()),
	)
}
