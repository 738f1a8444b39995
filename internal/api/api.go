// Package api maps domain errors onto transport-level statuses and wraps
// results in the common response envelope.
package api

import (
	"errors"
	"net/http"

	"platform-ledger-go/internal/auth"
	"platform-ledger-go/internal/chat"
	"platform-ledger-go/internal/engine"
	"platform-ledger-go/internal/store"
)

// Envelope is the uniform response shape for every operation.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func OKMessage(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// HTTPStatus classifies a domain error. Unknown errors are internal.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, store.ErrIdentityNotFound),
		errors.Is(err, store.ErrPlatformNotFound),
		errors.Is(err, store.ErrAccountNotFound),
		errors.Is(err, store.ErrWalletNotFound),
		errors.Is(err, store.ErrCurrencyNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInsufficientFunds),
		errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrDuplicateMobile),
		errors.Is(err, store.ErrDuplicateAccount),
		errors.Is(err, store.ErrDuplicateAddress),
		errors.Is(err, engine.ErrSelfTransfer),
		errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrMobileRequired):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, chat.ErrChatDisabled),
		errors.Is(err, chat.ErrNotOperator),
		errors.Is(err, engine.ErrNotOperator),
		errors.Is(err, engine.ErrAccountFrozen):
		return http.StatusForbidden
	case errors.Is(err, store.ErrConcurrentModification):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail builds an error envelope. Raw error text is only exposed when debug
// is set; production responses carry the generic classification.
func Fail(err error, debug bool) Envelope {
	envelope := Envelope{Success: false}
	if debug {
		envelope.Error = err.Error()
		return envelope
	}

	switch HTTPStatus(err) {
	case http.StatusNotFound:
		envelope.Error = "not found"
	case http.StatusBadRequest:
		envelope.Error = "invalid request"
	case http.StatusUnauthorized:
		envelope.Error = "authentication failed"
	case http.StatusForbidden:
		envelope.Error = "forbidden"
	case http.StatusConflict:
		envelope.Error = "conflict, please retry"
	default:
		envelope.Error = "internal error"
	}
	return envelope
}
