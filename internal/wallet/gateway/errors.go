package gateway

import (
	"context"
	"net"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// Kind classifies a gateway failure.
type Kind int

const (
	KindRejected Kind = iota
	KindNonceConflict
	KindFeeTooLow
	KindNetworkUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNonceConflict:
		return "nonce_conflict"
	case KindFeeTooLow:
		return "fee_too_low"
	case KindNetworkUnavailable:
		return "network_unavailable"
	default:
		return "rejected"
	}
}

// Transient 仅 nonce 冲突与手续费过低可以通过重新提交解决
func (k Kind) Transient() bool {
	return k == KindNonceConflict || k == KindFeeTooLow
}

var ErrNoClientAvailable = errors.New("all RPC clients are unavailable")

// Error is returned by every Gateway method.
type Error struct {
	Kind    Kind
	ChainID int64
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return e.Op + " (" + e.Kind.String() + "): " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	nonceConflictSignatures = []string{
		"nonce too low",
		"already known",
		"nonce already used",
		"nonce has already been used",
		"known transaction",
	}
	feeTooLowSignatures = []string{
		"replacement transaction underpriced",
		"transaction underpriced",
		"max fee per gas less than block base fee",
		"fee too low",
		"gas price too low",
	}
	networkSignatures = []string{
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"timeout",
		"too many requests",
		"503 service unavailable",
		"502 bad gateway",
	}
)

// Classify wraps err into an *Error, inspecting it once.
// An error that is already classified keeps its kind.
func Classify(chainID int64, op string, err error) error {
	if err == nil {
		return nil
	}

	var gwErr *Error
	if errors.As(err, &gwErr) {
		return err
	}

	return &Error{
		Kind:    classify(err),
		ChainID: chainID,
		Op:      op,
		Err:     err,
	}
}

func classify(err error) Kind {
	if errors.Is(err, ErrNoClientAvailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return KindNetworkUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetworkUnavailable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, nonceConflictSignatures):
		return KindNonceConflict
	case containsAny(msg, feeTooLowSignatures):
		return KindFeeTooLow
	case containsAny(msg, networkSignatures):
		return KindNetworkUnavailable
	default:
		return KindRejected
	}
}

func containsAny(msg string, signatures []string) bool {
	for _, sig := range signatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind, true
	}
	return KindRejected, false
}

// IsTransient reports whether err carries a transient gateway kind.
func IsTransient(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind.Transient()
}
