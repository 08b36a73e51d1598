// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"errors"
	"fmt"
)

// MPCErrorKind enumerates the algorithmic failure modes a protocol step can
// report, as opposed to IO failures which propagate unchanged from the
// transport. New kinds may be added; callers must not switch exhaustively
// on this type.
type MPCErrorKind int

const (
	// ErrInsufficientShares is returned by a secret-sharing Recover when
	// fewer than the threshold number of shares agree.
	ErrInsufficientShares MPCErrorKind = iota + 1
)

func (k MPCErrorKind) String() string {
	switch k {
	case ErrInsufficientShares:
		return "insufficient shares"
	default:
		return fmt.Sprintf("MPCErrorKind(%d)", int(k))
	}
}

// MPCError is the algorithmic counterpart to an IO error: it reports a
// protocol-level failure that is not a transport fault. Keep it
// non-exhaustive by kind rather than by concrete type, so new failure
// modes can be added without breaking switch statements in consumers.
type MPCError struct {
	kind  MPCErrorKind
	cause error
}

func NewMPCError(kind MPCErrorKind, cause error) *MPCError {
	return &MPCError{kind: kind, cause: cause}
}

func (e *MPCError) Kind() MPCErrorKind { return e.kind }

func (e *MPCError) Unwrap() error { return e.cause }

func (e *MPCError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.kind, e.cause.Error())
	}
	return e.kind.String()
}

// IsInsufficientShares reports whether err is (or wraps) an MPCError
// carrying ErrInsufficientShares.
func IsInsufficientShares(err error) bool {
	var mpcErr *MPCError
	return errors.As(err, &mpcErr) && mpcErr.kind == ErrInsufficientShares
}
