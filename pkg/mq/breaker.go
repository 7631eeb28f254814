package mq

import (
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/pkg/circuitbreaker"
)

// BreakerPublisher 熔断保护的 publisher：broker 不可用时快速失败，不阻塞业务请求
type BreakerPublisher struct {
	next    EventPublisher
	breaker *circuitbreaker.Breaker
}

func NewBreakerPublisher(next EventPublisher, cfg circuitbreaker.Config, logger *zap.Logger) *BreakerPublisher {
	b := circuitbreaker.New(cfg, circuitbreaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Warn("Publisher circuit breaker state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}))
	return &BreakerPublisher{next: next, breaker: b}
}

func (p *BreakerPublisher) Publish(routingKey string, payload any) error {
	return p.breaker.Execute(func() error {
		return p.next.Publish(routingKey, payload)
	})
}

// State 当前熔断状态，用于 readiness 检查
func (p *BreakerPublisher) State() circuitbreaker.State {
	return p.breaker.State()
}
