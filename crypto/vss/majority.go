// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package vss

import (
	"github.com/mpc-toolkit/core/common"
	"github.com/mpc-toolkit/core/crypto/field"
)

// MajorityServer is the insecure reference "functionality" for (T, N)
// secret sharing: split hands every party the secret in the clear, and
// recover runs a Boyer-Moore majority vote over the N shares, accepting
// the leading candidate only if its vote count reaches T. It exists to
// give higher-level protocols a fast, deterministic test oracle; it is
// not a secret-sharing scheme (every party already holds the secret
// outright) and must never be used outside tests.
type MajorityServer[T field.Field[T]] struct {
	T, N int
}

// NewMajorityServer builds a majority-vote oracle for an (T, N) scheme.
func NewMajorityServer[T field.Field[T]](t, n int) *MajorityServer[T] {
	return &MajorityServer[T]{T: t, N: n}
}

// Prepare is a no-op; the majority-vote oracle has no setup phase.
func (s *MajorityServer[T]) Prepare() error { return nil }

// Split returns N copies of the secret. This is intentionally insecure:
// every party learns the secret outright.
func (s *MajorityServer[T]) Split(secret T) ([]T, error) {
	shares := make([]T, s.N)
	for i := range shares {
		shares[i] = secret
	}
	return shares, nil
}

// shareEqual compares two shares the way Option<F> equality does in the
// reference implementation: two missing shares are equal to each other,
// a missing and a present share are never equal, and two present shares
// are equal iff their values are.
func shareEqual[T field.Field[T]](a, b Share[T]) bool {
	if a.Present != b.Present {
		return false
	}
	if !a.Present {
		return true
	}
	return a.Value.Equal(b.Value)
}

// Recover runs Boyer-Moore majority vote over shares - including missing
// slots, which the reference implementation's Option<F> equality treats
// as a value of its own - then counts the leading candidate's occurrences
// and accepts it only if it was seen at least T times. Otherwise it
// reports ErrInsufficientShares.
func (s *MajorityServer[T]) Recover(shares []Share[T]) (T, error) {
	var lead Share[T] // zero value: Present == false, a valid "missing" candidate
	vote := 0
	for _, share := range shares {
		if shareEqual(share, lead) {
			vote++
		} else if vote == 0 {
			lead = share
			vote = 1
		} else {
			vote--
		}
	}
	count := 0
	for _, share := range shares {
		if shareEqual(share, lead) {
			count++
		}
	}
	if count >= s.T && lead.Present {
		return lead.Value, nil
	}
	var zero T
	return zero, common.NewMPCError(common.ErrInsufficientShares, nil)
}
