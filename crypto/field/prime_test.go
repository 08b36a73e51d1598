// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package field_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpc-toolkit/core/crypto/field"
)

// a known-good 127-bit prime, used wherever the test just needs a fixed
// modulus rather than a freshly generated one.
var knownPrime127, _ = new(big.Int).SetString("170141183460469231731687303715884105727", 10)

func testPrimeModulus(t *testing.T) *field.PrimeModulus {
	t.Helper()
	pm, err := field.NewPrimeModulus(knownPrime127)
	assert.NoError(t, err)
	return pm
}

func TestNewPrimeModulusRejectsComposite(t *testing.T) {
	_, err := field.NewPrimeModulus(big.NewInt(341)) // Fermat pseudoprime base 2
	assert.ErrorIs(t, err, field.ErrNotPrime)
}

func TestPrimeFieldAddSubRoundTrip(t *testing.T) {
	pm := testPrimeModulus(t)
	a := pm.RandomElement()
	b := pm.RandomElement()
	assert.True(t, a.Add(b).Sub(b).Equal(a), "(a+b)-b should equal a")
}

func TestPrimeFieldMulDivRoundTrip(t *testing.T) {
	pm := testPrimeModulus(t)
	a := pm.RandomElement()
	b := pm.RandomElement()
	for b.IsZero() {
		b = pm.RandomElement()
	}
	assert.True(t, a.Mul(b).Div(b).Equal(a), "(a*b)/b should equal a")
}

func TestPrimeFieldFermatsLittleTheorem(t *testing.T) {
	pm := testPrimeModulus(t)
	a := pm.RandomElement()
	for a.IsZero() {
		a = pm.RandomElement()
	}
	pMinusOne := new(big.Int).Sub(pm.N(), big.NewInt(1))
	assert.True(t, a.Pow(pMinusOne).Equal(a.One()), "a^(p-1) should equal 1")
}

func TestPrimeFieldZeroHasNoInverse(t *testing.T) {
	pm := testPrimeModulus(t)
	zero := pm.Make(big.NewInt(0))
	assert.Panics(t, func() { zero.Inv() })
}

func TestRandomPrimeModulusIsInRangeAndPrime(t *testing.T) {
	pm := field.RandomPrimeModulus(128)
	n := pm.N()
	lower := new(big.Int).Lsh(big.NewInt(1), 127)
	upper := new(big.Int).Lsh(big.NewInt(1), 128)
	assert.True(t, n.Cmp(lower) >= 0, "n should be >= 2^127")
	assert.True(t, n.Cmp(upper) < 0, "n should be < 2^128")
	assert.True(t, (field.MillerRabinTester{}).IsPrime(n))
}

func TestMillerRabinKnownPrimes(t *testing.T) {
	primesList := []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 101, 103, 65537}
	tester := field.MillerRabinTester{}
	for _, p := range primesList {
		assert.True(t, tester.IsPrime(big.NewInt(p)), "%d should be reported prime", p)
	}
	mersenne31 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 31), big.NewInt(1))
	assert.True(t, tester.IsPrime(mersenne31), "2^31-1 should be reported prime")
}

func TestMillerRabinKnownComposites(t *testing.T) {
	compositesList := []int64{1, 4, 9, 15, 21, 25, 341, 561, 1105}
	tester := field.MillerRabinTester{}
	for _, c := range compositesList {
		assert.False(t, tester.IsPrime(big.NewInt(c)), "%d should be reported composite", c)
	}
	twoTo32 := new(big.Int).Lsh(big.NewInt(1), 32)
	twoTo31 := new(big.Int).Lsh(big.NewInt(1), 31)
	assert.False(t, tester.IsPrime(twoTo32))
	assert.False(t, tester.IsPrime(twoTo31))
}

func TestFermatTesterAgreesOnKnownPrimes(t *testing.T) {
	tester := field.FermatTester{}
	for _, p := range []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 101, 103} {
		assert.True(t, tester.IsPrime(big.NewInt(p)))
	}
}
