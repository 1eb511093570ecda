package retry

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/portal-hq/portalex/internal/wallet/fee"
)

// State 重试控制器的状态
type State int

const (
	Attempting State = iota
	RetryScheduled
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Attempting:
		return "attempting"
	case RetryScheduled:
		return "retry_scheduled"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// TransactionAttempt 一次提交尝试的记录，只记录日志，不持久化
type TransactionAttempt struct {
	RequestID   uuid.UUID
	Number      int
	Fee         *fee.Params
	Nonce       uint64
	SubmittedAt time.Time
	Outcome     State
	Err         error
}

// Result is returned by Transfer, also on failure.
type Result struct {
	Hash     common.Hash
	State    State
	Attempts []TransactionAttempt
}

// Observer receives every finished attempt and the final result.
type Observer interface {
	ObserveAttempt(chainID int64, attempt TransactionAttempt)
	ObserveResult(chainID int64, result *Result, duration time.Duration)
}
