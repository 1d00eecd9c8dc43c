package mq

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xiebiao/locallibrary/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// Sender 发布消息的最小接口(Publisher和GuardedPublisher都实现)
type Sender interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// GuardedPublisher 带熔断的发布者
// Broker连续失败达到阈值后直接返回circuitbreaker.ErrOpenState,
// 图书写入不再为每条事件等待网络超时;Timeout之后放行一条探测消息
type GuardedPublisher struct {
	next Sender
	cb   *circuitbreaker.CircuitBreaker
}

// NewGuardedPublisher 用熔断器包装发布者
func NewGuardedPublisher(next Sender, cb *circuitbreaker.CircuitBreaker) *GuardedPublisher {
	return &GuardedPublisher{next: next, cb: cb}
}

// Publish 在熔断器保护下发布
// 熔断期间返回的ErrMQError包着circuitbreaker.ErrOpenState
func (p *GuardedPublisher) Publish(ctx context.Context, routingKey string, message any) error {
	err := p.cb.Execute(func() error {
		return p.next.Publish(ctx, routingKey, message)
	})
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		return apperrors.ErrMQError.WithCause(err)
	}
	return err
}

// State 当前熔断状态
func (p *GuardedPublisher) State() circuitbreaker.State {
	return p.cb.State()
}

// LogStateChange 熔断状态变化写日志,作为circuitbreaker.Config.OnStateChange使用
func LogStateChange(name string, from, to circuitbreaker.State) {
	level := slog.LevelInfo
	if to == circuitbreaker.StateOpen {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "消息发布熔断状态变化",
		"breaker", name,
		"from", from.String(),
		"to", to.String(),
	)
}
