package retry

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/util"
	"github.com/portal-hq/portalex/internal/wallet/fee"
	"github.com/portal-hq/portalex/internal/wallet/gateway"
	"github.com/portal-hq/portalex/internal/wallet/transfer"
)

const (
	DefaultMaxAttempts = 10
	DefaultDelay       = 2 * time.Second
)

type Config struct {
	MaxAttempts int
	Delay       time.Duration
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Option func(c *Controller)

// WithSleep replaces the delay implementation.
func WithSleep(sleep SleepFunc) Option {
	return func(c *Controller) {
		c.sleep = sleep
	}
}

func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		c.observer = observer
	}
}

// Controller 对单笔转账按固定间隔重试暂时性错误（nonce 冲突、手续费过低）
type Controller struct {
	config   Config
	executor transfer.Service
	sleep    SleepFunc
	observer Observer
}

func NewController(config Config, executor transfer.Service, opts ...Option) (*Controller, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(executor, "executor"),
		vala.GreaterThan(config.MaxAttempts, 0, "maxAttempts"),
		vala.GreaterThan(int(config.Delay), -1, "delay"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "invalid retry config")
	}

	c := &Controller{
		config:   config,
		executor: executor,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Transfer 执行转账，暂时性错误在固定延迟后重试，直到成功、遇到非暂时性错误或达到次数上限
// 失败时返回最后一次尝试的错误，Result 始终包含所有尝试记录
func (c *Controller) Transfer(ctx context.Context, req *transfer.Request) (*Result, error) {
	log := util.LogFromContext(ctx).With().
		Str("request_id", req.ID.String()).
		Int64("chain_id", req.ChainID).
		Logger()

	started := time.Now()
	result := &Result{State: Attempting}
	defer func() {
		if c.observer != nil {
			c.observer.ObserveResult(req.ChainID, result, time.Since(started))
		}
	}()

	var previous *fee.Params
	for number := 1; ; number++ {
		result.State = Attempting

		attempt := &transfer.Attempt{Number: number, Previous: previous}
		hash, err := c.executor.Execute(ctx, req, attempt)

		record := TransactionAttempt{
			RequestID:   req.ID,
			Number:      number,
			Fee:         attempt.Fee,
			Nonce:       attempt.Nonce,
			SubmittedAt: attempt.SubmittedAt,
			Err:         err,
		}

		if err == nil {
			record.Outcome = Succeeded
			c.record(req.ChainID, result, record)
			result.State = Succeeded
			result.Hash = hash
			return result, nil
		}

		if !gateway.IsTransient(err) || number >= c.config.MaxAttempts {
			record.Outcome = Failed
			c.record(req.ChainID, result, record)
			result.State = Failed

			log.Warn().Err(err).Int("attempts", number).Msg("Transfer failed")
			return result, err
		}

		record.Outcome = RetryScheduled
		c.record(req.ChainID, result, record)
		result.State = RetryScheduled

		if attempt.Fee != nil {
			previous = attempt.Fee
		}

		log.Info().
			Err(err).
			Int("attempt", number).
			Dur("delay", c.config.Delay).
			Msg("Transient submission error, retry scheduled")

		if err := c.sleep(ctx, c.config.Delay); err != nil {
			result.State = Failed
			return result, errors.Wrap(err, "transfer retry cancelled")
		}
	}
}

func (c *Controller) record(chainID int64, result *Result, attempt TransactionAttempt) {
	result.Attempts = append(result.Attempts, attempt)
	if c.observer != nil {
		c.observer.ObserveAttempt(chainID, attempt)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
