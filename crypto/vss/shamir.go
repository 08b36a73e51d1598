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

// ShamirServer is the real (T, N)-secret-sharing default: split samples a
// random degree-(T-1) polynomial with the secret as its constant term and
// evaluates it at N distinct nonzero field points; recover runs Lagrange
// interpolation at x = 0 over any T of those points. The majority-vote
// MajorityServer stays in the tree purely as a test oracle; this is the
// implementation real callers should use.
type ShamirServer[T field.Field[T]] struct {
	T, N   int
	points []T // the N fixed, distinct, nonzero evaluation points x_1..x_N
}

// NewShamirServer builds a (T, N)-Shamir scheme over the field that zero
// belongs to, using the points 1, 2, ..., N (via repeated field addition)
// as the fixed evaluation points.
func NewShamirServer[T field.Field[T]](t, n int, zero T) *ShamirServer[T] {
	points := make([]T, n)
	one := zero.One()
	acc := zero
	for i := 0; i < n; i++ {
		acc = acc.Add(one)
		points[i] = acc
	}
	return &ShamirServer[T]{T: t, N: n, points: points}
}

// Prepare is a no-op; the polynomial scheme has no setup phase.
func (s *ShamirServer[T]) Prepare() error { return nil }

// Split samples a random degree-(T-1) polynomial with secret as its
// constant term and returns its evaluations at the scheme's N fixed
// points.
func (s *ShamirServer[T]) Split(secret T) ([]T, error) {
	coeffs := make([]T, s.T)
	coeffs[0] = secret
	for i := 1; i < s.T; i++ {
		coeffs[i] = secret.Random()
	}
	shares := make([]T, s.N)
	for i, x := range s.points {
		shares[i] = evaluatePolynomial(coeffs, x)
	}
	return shares, nil
}

// evaluatePolynomial computes sum(coeffs[i] * x^i) by Horner's method.
func evaluatePolynomial[T field.Field[T]](coeffs []T, x T) T {
	result := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = result.Mul(x).Add(coeffs[i])
	}
	return result
}

// Recover interpolates the secret (the polynomial's value at x = 0) from
// whichever shares are present, via the standard Lagrange formula. At
// least T present shares are required; fewer is reported as
// ErrInsufficientShares, matching the contract's error taxonomy rather
// than panicking, since "too few parties responded" is an ordinary
// runtime condition, not a precondition violation.
func (s *ShamirServer[T]) Recover(shares []Share[T]) (T, error) {
	zero := s.points[0].Zero()
	type point struct {
		x, y T
	}
	present := make([]point, 0, s.N)
	for i, share := range shares {
		if share.Present {
			present = append(present, point{x: s.points[i], y: share.Value})
		}
	}
	if len(present) < s.T {
		return zero, common.NewMPCError(common.ErrInsufficientShares, nil)
	}
	present = present[:s.T]

	result := zero
	for i, pi := range present {
		// L_i(0) = prod_{j != i} (-x_j) / (x_i - x_j)
		num := pi.x.One()
		den := pi.x.One()
		for j, pj := range present {
			if i == j {
				continue
			}
			num = num.Mul(pj.x.Neg())
			den = den.Mul(pi.x.Sub(pj.x))
		}
		term := pi.y.Mul(num).Div(den)
		result = result.Add(term)
	}
	return result, nil
}
