package database

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a failure reported by a database client.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnectionFailed
	KindAuthenticationFailed
	KindQueryFailed
	KindDatabaseOperationFailed
	KindTableOperationFailed
	KindInvalidConfiguration
	KindNetwork
	KindTimeout
	KindSerialization
	KindURLParse
	KindDriver
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindConnectionFailed:
		return "database connection failed"
	case KindAuthenticationFailed:
		return "authentication failed"
	case KindQueryFailed:
		return "query execution failed"
	case KindDatabaseOperationFailed:
		return "database operation failed"
	case KindTableOperationFailed:
		return "table operation failed"
	case KindInvalidConfiguration:
		return "invalid connection configuration"
	case KindNetwork:
		return "network error"
	case KindTimeout:
		return "timeout error"
	case KindSerialization:
		return "serialization error"
	case KindURLParse:
		return "url parsing error"
	case KindDriver:
		return "postgres error"
	case KindIO:
		return "io error"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every fallible operation in this module.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind, so that
// errors.Is(err, ErrQueryFailed) works across wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnknown                 = &Error{Kind: KindUnknown}
	ErrConnectionFailed        = &Error{Kind: KindConnectionFailed}
	ErrAuthenticationFailed    = &Error{Kind: KindAuthenticationFailed}
	ErrQueryFailed             = &Error{Kind: KindQueryFailed}
	ErrDatabaseOperationFailed = &Error{Kind: KindDatabaseOperationFailed}
	ErrTableOperationFailed    = &Error{Kind: KindTableOperationFailed}
	ErrInvalidConfiguration    = &Error{Kind: KindInvalidConfiguration}
	ErrNetwork                 = &Error{Kind: KindNetwork}
	ErrTimeout                 = &Error{Kind: KindTimeout}
	ErrSerialization           = &Error{Kind: KindSerialization}
	ErrURLParse                = &Error{Kind: KindURLParse}
	ErrDriver                  = &Error{Kind: KindDriver}
	ErrIO                      = &Error{Kind: KindIO}
)

// NewError builds an Error of the given kind.
func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Wrap classifies a driver failure. Timeouts, authentication rejections and
// network failures get their own kind, anything else is reported as fallback.
// The driver error stays reachable through errors.As.
func Wrap(fallback Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: classify(fallback, err), Msg: msg, Err: err}
}

func classify(fallback Kind, err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return KindTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQLSTATE class 28: invalid authorization specification.
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "28" {
			return KindAuthenticationFailed
		}
		return fallback
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	return fallback
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
