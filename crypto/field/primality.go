// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package field

import (
	"math/big"

	"github.com/otiai10/primes"
)

// MaxIterations bounds the number of independent witnesses a
// PseudoPrimalityTester draws before declaring n prime.
const MaxIterations = 128

// sieveUntil is the bound for the small-prime trial-division pre-filter
// run before the witness loop; cheap composites are rejected without ever
// constructing Montgomery parameters or drawing CSPRNG witnesses.
const sieveUntil = 1000

func init() {
	// warm the shared sieve cache once, at package initialization, to
	// amortize trial-division setup across IsPrime calls.
	primes.Globally.Until(sieveUntil)
}

// PseudoPrimalityTester is a probabilistic primality witness: check
// evaluates a single candidate witness against a tentative prime modulus,
// and IsPrime drives MaxIterations independent trials.
type PseudoPrimalityTester interface {
	check(a *UnitGroupElement) bool
}

// IsPrime runs the is_prime contract shared by every PseudoPrimalityTester:
// handle 2 and even numbers directly, trial-divide by small primes, then
// draw up to MaxIterations uniform units of Z*(n) and reject on the first
// failing witness.
func IsPrime(tester PseudoPrimalityTester, n *big.Int) bool {
	two := big.NewInt(2)
	if n.Cmp(two) == 0 {
		return true
	}
	if n.Cmp(two) < 0 || n.Bit(0) == 0 {
		return false
	}
	if n.IsInt64() && n.Int64() < sieveUntil {
		for _, p := range primes.Globally.Until(sieveUntil).List() {
			if n.Int64() == p {
				return true
			}
		}
	}
	for _, p := range primes.Globally.Until(sieveUntil).List() {
		pb := big.NewInt(p)
		if n.Cmp(pb) > 0 && new(big.Int).Mod(n, pb).Sign() == 0 {
			return false
		}
	}

	modulus := NewModulus(n)
	for i := 0; i < MaxIterations; i++ {
		a := modulus.RandomMake()
		if !tester.check(a) {
			return false
		}
	}
	return true
}

// FermatTester checks a^(n-1) == 1.
type FermatTester struct{}

func (FermatTester) check(a *UnitGroupElement) bool {
	exp := new(big.Int).Sub(a.modulus.n, bigOne)
	return a.Pow(exp).Equal(a.One())
}

// IsPrime runs the Fermat primality test.
func (t FermatTester) IsPrime(n *big.Int) bool {
	return IsPrime(t, n)
}

// MillerRabinTester checks the Miller-Rabin witness: write n-1 = 2^h*d with
// d odd; b = a^d passes immediately if it is 1; otherwise it must hit n-1
// within h squarings, and hitting 1 first is a composite witness.
type MillerRabinTester struct{}

func (MillerRabinTester) check(a *UnitGroupElement) bool {
	t := new(big.Int).Sub(a.modulus.n, bigOne)
	h := 0
	for t.Bit(h) == 0 {
		h++
	}
	d := new(big.Int).Rsh(t, uint(h))

	one := a.One()
	minusOne := a.MinusOne()
	b := a.Pow(d)
	if b.Equal(one) {
		return true
	}
	for i := 0; i < h; i++ {
		if b.Equal(minusOne) {
			return true
		}
		if b.Equal(one) {
			return false
		}
		b = b.Mul(b)
	}
	return false
}

// IsPrime runs the Miller-Rabin primality test.
func (t MillerRabinTester) IsPrime(n *big.Int) bool {
	return IsPrime(t, n)
}
