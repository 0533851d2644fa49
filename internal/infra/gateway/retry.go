package gateway

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/metrics"

	"go.uber.org/zap"
)

// Client はusecaseが使う決済ゲートウェイの口
type Client interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency, receipt string) (Intent, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Retrying はErrUnavailableだけを指数バックオフでリトライする。
// 注文行を書く前に呼ばれるので、諦めても副作用は残らない。
type Retrying struct {
	next        Client
	maxAttempts int
	backoff     time.Duration
	breaker     *CircuitBreaker
	logger      *zap.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewRetrying(next Client, maxAttempts int, backoff time.Duration, breaker *CircuitBreaker, logger *zap.Logger) *Retrying {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{
		next:        next,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		breaker:     breaker,
		logger:      logger,
		sleep:       sleepCtx,
	}
}

func (r *Retrying) CreateIntent(ctx context.Context, amountMinor int64, currency, receipt string) (Intent, error) {
	var lastErr error
	delay := r.backoff

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if r.breaker != nil {
			if err := r.breaker.Allow(); err != nil {
				metrics.RecordGatewayRequest("circuit_open")
				//Open中は待っても無駄なのでそのまま返す
				if lastErr != nil {
					return Intent{}, errors.Join(ErrUnavailable, err, lastErr)
				}
				return Intent{}, errors.Join(ErrUnavailable, err)
			}
		}

		in, err := r.next.CreateIntent(ctx, amountMinor, currency, receipt)
		if err == nil {
			if r.breaker != nil {
				r.breaker.Success()
			}
			metrics.RecordGatewayRequest("success")
			return in, nil
		}

		if !errors.Is(err, ErrUnavailable) {
			//4xxでも応答は返っているので、breakerには成功として扱う
			if r.breaker != nil {
				r.breaker.Success()
			}
			metrics.RecordGatewayRequest("rejected")
			return Intent{}, err
		}

		if r.breaker != nil {
			r.breaker.Failure()
		}
		metrics.RecordGatewayRequest("unavailable")
		lastErr = err

		r.logger.Warn("gateway create order failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.maxAttempts),
			zap.String("receipt", receipt),
			zap.Error(err),
		)

		if attempt == r.maxAttempts {
			break
		}
		if err := r.sleep(ctx, delay); err != nil {
			return Intent{}, errors.Join(ErrUnavailable, err)
		}
		delay *= 2
	}

	return Intent{}, lastErr
}

func (r *Retrying) VerifySignature(orderID, paymentID, signature string) bool {
	return r.next.VerifySignature(orderID, paymentID, signature)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
