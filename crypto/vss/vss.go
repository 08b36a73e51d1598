// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package vss implements Shamir-style (T, N) secret sharing over an
// arbitrary finite field: the shared contract both the real
// polynomial-based scheme and the majority-vote test oracle satisfy, plus
// both implementations.
package vss

import (
	"github.com/mpc-toolkit/core/crypto/field"
)

// Share is one party's slot in an (T, N) sharing: Present is false for a
// party that never supplied (or whose contribution was discarded before)
// recovery, mirroring the reference implementation's `Option<F>` shares.
type Share[T field.Field[T]] struct {
	Present bool
	Value   T
}

// PresentShare wraps a known value as a present share.
func PresentShare[T field.Field[T]](v T) Share[T] {
	return Share[T]{Present: true, Value: v}
}

// Server is a (T, N)-secret-sharing scheme over field F: prepare any
// scheme-specific setup, split a secret into N shares such that any T of
// them recover it, and recover the secret from a slice of N optional
// shares (some of which may be missing or wrong).
type Server[T field.Field[T]] interface {
	Prepare() error
	Split(secret T) ([]T, error)
	Recover(shares []Share[T]) (T, error)
}
