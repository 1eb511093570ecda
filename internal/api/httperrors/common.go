package httperrors

import (
	"net/http"
)

// 对外暴露的错误类型
const (
	TypeGeneric             = "generic"
	TypeInvalidAddress      = "INVALID_ADDRESS"
	TypeInvalidAmount       = "INVALID_AMOUNT"
	TypeReverseTransfer     = "REVERSE_TRANSFER_UNSUPPORTED"
	TypeUnsupportedChain    = "UNSUPPORTED_CHAIN"
	TypeInsufficientBalance = "INSUFFICIENT_BALANCE"
	TypeUserNotFound        = "USER_NOT_FOUND"
	TypeUserWithoutAddress  = "USER_WITHOUT_ADDRESS"
	TypeChainSubmission     = "CHAIN_SUBMISSION_FAILED"
	TypeSigningKeyMissing   = "SIGNING_KEY_MISSING"
)

var (
	ErrBadRequestInvalidExchangeUserID = NewHTTPError(http.StatusBadRequest, TypeGeneric, "Exchange user id must be an integer.")
	ErrBadRequestInvalidChainID        = NewHTTPError(http.StatusBadRequest, TypeUnsupportedChain, "Chain id must be an integer.")
	ErrBadRequestMissingChainID        = NewHTTPError(http.StatusBadRequest, TypeUnsupportedChain, "Chain id is required.")
)
