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

func TestBinaryFieldAddIsItsOwnInverse(t *testing.T) {
	m := field.NewBinaryFieldModulus(16)
	a := m.RandomElement()
	assert.True(t, a.Add(a).IsZero(), "a+a should be zero in characteristic 2")
}

func TestBinaryFieldMulInvRoundTrip(t *testing.T) {
	m := field.NewBinaryFieldModulus(16)
	a := m.RandomElement()
	for a.IsZero() {
		a = m.RandomElement()
	}
	b := m.RandomElement()
	for b.IsZero() {
		b = m.RandomElement()
	}
	assert.True(t, a.Mul(b).Mul(b.Inv()).Equal(a), "(a*b)*b^-1 should equal a")
}

func TestBinaryFieldMultiplicativeOrder(t *testing.T) {
	m := field.NewBinaryFieldModulus(16)
	a := m.RandomElement()
	for a.IsZero() {
		a = m.RandomElement()
	}
	order := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 16), big.NewInt(1))
	assert.True(t, a.Pow(order).Equal(a.One()), "a^(2^16-1) should equal 1")
}

func TestBinaryFieldInvOfZeroPanics(t *testing.T) {
	m := field.NewBinaryFieldModulus(16)
	assert.Panics(t, func() { m.Zero().Inv() })
}

func TestBinaryFieldGF16KnownInverse(t *testing.T) {
	m := field.NewBinaryFieldModulus(4) // x^4 + x + 1
	two := m.Make(big.NewInt(2))
	inv := two.Inv()
	assert.Equal(t, big.NewInt(9), inv.Rep(), "2^-1 should be 9 mod x^4+x+1")
	assert.True(t, two.Mul(inv).Equal(m.One()))
}

// TestAESFieldGeneratorInverse exercises GF(2^8) under the AES/Rijndael
// polynomial: (x+1) is a known generator of the multiplicative group, and
// every nonzero element has order dividing 255.
func TestAESFieldGeneratorInverse(t *testing.T) {
	m := field.NewBinaryFieldModulus(8) // x^8+x^4+x^3+x+1
	xPlusOne := m.Make(big.NewInt(0x03))
	inv := xPlusOne.Inv()
	assert.True(t, xPlusOne.Mul(inv).Equal(m.One()))

	order255 := big.NewInt(255)
	for _, v := range []int64{1, 2, 3, 0x53, 0xca, 0xff} {
		e := m.Make(big.NewInt(v))
		if e.IsZero() {
			continue
		}
		assert.True(t, e.Pow(order255).Equal(m.One()), "%x^255 should be 1", v)
	}
}

func TestBinaryFieldUnsupportedDegreePanics(t *testing.T) {
	assert.Panics(t, func() { field.NewBinaryFieldModulus(12) })
}
