// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package field

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

// irreducibleTable maps a binary field degree EXP to the low-order part of
// a fixed irreducible polynomial of that degree over GF(2) - that is, the
// polynomial minus its x^EXP term. Reduction during multiplication XORs
// this constant in whenever the shift carries out of bit EXP-1, which is
// equivalent to reducing by the full degree-EXP polynomial.
//
// This table is fixed at compile time, as the design requires: adding a
// new EXP means adding an entry here, not deriving one at runtime.
var irreducibleTable = map[uint]uint64{
	4:   0x3,    // x^4 + x + 1
	8:   0x1b,   // x^8 + x^4 + x^3 + x + 1 (AES/Rijndael polynomial)
	16:  0x2b,   // x^16 + x^5 + x^3 + x + 1
	32:  0x8d,   // x^32 + x^7 + x^3 + x^2 + 1
	64:  0x1b,   // x^64 + x^4 + x^3 + x + 1
	128: 0x87,   // x^128 + x^7 + x^2 + x + 1 (GCM polynomial convention)
}

// BinaryFieldModulus describes GF(2^exp): the degree and the irreducible
// polynomial used to reduce products back into the low exp bits.
type BinaryFieldModulus struct {
	exp    uint
	irred  uint64
	mask   *big.Int
	expBit *big.Int // 1 << exp, used to detect the carry during multiplication
}

// NewBinaryFieldModulus looks up the irreducible polynomial for exp in the
// internal table. An unsupported degree is a precondition violation: the
// table is meant to be extended by the implementer, not probed at runtime,
// so this panics rather than returning an error.
func NewBinaryFieldModulus(exp uint) *BinaryFieldModulus {
	irred, ok := irreducibleTable[exp]
	if !ok {
		panic(errors.Errorf("field: no irreducible polynomial registered for GF(2^%d)", exp))
	}
	mask := new(big.Int).Sub(new(big.Int).Lsh(bigOne, exp), bigOne)
	return &BinaryFieldModulus{
		exp:    exp,
		irred:  irred,
		mask:   mask,
		expBit: new(big.Int).Lsh(bigOne, exp),
	}
}

// Exp returns the field degree.
func (m *BinaryFieldModulus) Exp() uint { return m.exp }

// Make wraps coeffs (truncated to its low exp bits) as a BinaryFieldElement.
func (m *BinaryFieldModulus) Make(coeffs *big.Int) BinaryFieldElement {
	v := new(big.Int).And(coeffs, m.mask)
	return BinaryFieldElement{modulus: m, val: v}
}

// Zero returns the additive identity of GF(2^exp).
func (m *BinaryFieldModulus) Zero() BinaryFieldElement {
	return BinaryFieldElement{modulus: m, val: big.NewInt(0)}
}

// One returns the multiplicative identity of GF(2^exp).
func (m *BinaryFieldModulus) One() BinaryFieldElement {
	return BinaryFieldElement{modulus: m, val: big.NewInt(1)}
}

// RandomElement draws a uniform element of GF(2^exp): exp independent
// coefficient bits.
func (m *BinaryFieldModulus) RandomElement() BinaryFieldElement {
	v, err := rand.Int(rand.Reader, m.expBit)
	if err != nil {
		panic(errors.Wrap(err, "field: RandomElement failed to draw randomness"))
	}
	return m.Make(v)
}

// BinaryFieldElement is an element of GF(2^EXP), represented as a big.Int
// whose coefficient vector occupies the low EXP bits; bits at or above EXP
// are always zero.
type BinaryFieldElement struct {
	modulus *BinaryFieldModulus
	val     *big.Int
}

// Rep returns the coefficient vector as a big.Int.
func (e BinaryFieldElement) Rep() *big.Int {
	return new(big.Int).Set(e.val)
}

// Zero returns the additive identity of e's field.
func (e BinaryFieldElement) Zero() BinaryFieldElement { return e.modulus.Zero() }

// One returns the multiplicative identity of e's field.
func (e BinaryFieldElement) One() BinaryFieldElement { return e.modulus.One() }

// Random draws a uniform element of e's field.
func (e BinaryFieldElement) Random() BinaryFieldElement { return e.modulus.RandomElement() }

// IsZero reports whether e is the additive identity.
func (e BinaryFieldElement) IsZero() bool { return e.val.Sign() == 0 }

// Equal reports field equality.
func (e BinaryFieldElement) Equal(other BinaryFieldElement) bool {
	return e.modulus.exp == other.modulus.exp && e.val.Cmp(other.val) == 0
}

// Add returns e + other. Addition in characteristic 2 is bitwise XOR.
func (e BinaryFieldElement) Add(other BinaryFieldElement) BinaryFieldElement {
	return BinaryFieldElement{modulus: e.modulus, val: new(big.Int).Xor(e.val, other.val)}
}

// Sub returns e - other. In characteristic 2, subtraction equals addition.
func (e BinaryFieldElement) Sub(other BinaryFieldElement) BinaryFieldElement {
	return e.Add(other)
}

// Neg returns -e. In characteristic 2, every element is its own negation.
func (e BinaryFieldElement) Neg() BinaryFieldElement {
	return e
}

// Mul returns e * other via shift-and-add polynomial multiplication with
// on-the-fly reduction by the field's irreducible polynomial.
func (e BinaryFieldElement) Mul(other BinaryFieldElement) BinaryFieldElement {
	exp := e.modulus.exp
	prod := big.NewInt(0)
	lhs := new(big.Int).Set(e.val)
	rhs := new(big.Int).Set(other.val)
	irred := new(big.Int).SetUint64(e.modulus.irred)

	for rhs.Sign() != 0 {
		if rhs.Bit(0) == 1 {
			prod.Xor(prod, lhs)
		}
		carry := lhs.Bit(int(exp) - 1) == 1
		lhs.Lsh(lhs, 1)
		if carry {
			lhs.Xor(lhs, irred)
		}
		rhs.Rsh(rhs, 1)
	}
	prod.And(prod, e.modulus.mask)
	return BinaryFieldElement{modulus: e.modulus, val: prod}
}

// divrem performs polynomial division over GF(2)[x] by repeated
// bit-shift-subtract (XOR): at each step it XORs rhs, shifted up to align
// leading bits, out of the running remainder, accumulating the shift
// amounts into the quotient.
func divrem(lhs, rhs *big.Int) (quo, rem *big.Int) {
	quo = big.NewInt(0)
	rem = new(big.Int).Set(lhs)
	rbits := rhs.BitLen()
	for {
		lbits := rem.BitLen()
		if lbits < rbits || rem.Sign() == 0 {
			break
		}
		d := uint(lbits - rbits)
		quo.Xor(quo, new(big.Int).Lsh(bigOne, d))
		rem.Xor(rem, new(big.Int).Lsh(rhs, d))
	}
	return quo, rem
}

// Inv returns the multiplicative inverse of e via the extended Euclidean
// algorithm over GF(2)[x]: maintain remainder pairs (oldR, r) starting from
// (irreducible polynomial, e) and Bezout coefficients (oldU, u) starting
// from (0, 1) tracking u's coefficient of e; at each step divrem and
// update u ← oldU xor (q * u) (subtraction is XOR in characteristic 2).
// Terminates when r reaches zero, leaving oldR == 1 (e is a unit in every
// case but zero) and oldU as the inverse. Panics on zero, which has none.
func (e BinaryFieldElement) Inv() BinaryFieldElement {
	if e.IsZero() {
		panic(errors.New("field: zero has no multiplicative inverse"))
	}
	exp := e.modulus.exp
	oldR := new(big.Int).SetUint64(e.modulus.irred)
	oldR.Xor(oldR, new(big.Int).Lsh(bigOne, exp)) // full polynomial, including x^exp
	r := new(big.Int).Set(e.val)

	oldU := big.NewInt(0)
	u := big.NewInt(1)

	for r.Sign() != 0 {
		q, rem := divrem(oldR, r)
		oldR, r = r, rem
		oldU, u = u, new(big.Int).Xor(oldU, polyMulRaw(q, u))
	}
	return BinaryFieldElement{modulus: e.modulus, val: new(big.Int).And(oldU, e.modulus.mask)}
}

// polyMulRaw multiplies two GF(2)[x] polynomials with no modular reduction.
func polyMulRaw(a, b *big.Int) *big.Int {
	prod := big.NewInt(0)
	shifted := new(big.Int).Set(a)
	bb := new(big.Int).Set(b)
	for bb.Sign() != 0 {
		if bb.Bit(0) == 1 {
			prod.Xor(prod, shifted)
		}
		shifted = new(big.Int).Lsh(shifted, 1)
		bb.Rsh(bb, 1)
	}
	return prod
}

// Div returns e / other, defined as e * other.Inv().
func (e BinaryFieldElement) Div(other BinaryFieldElement) BinaryFieldElement {
	return e.Mul(other.Inv())
}

// Pow returns e^exp by square-and-multiply. Negative exponents are a
// precondition violation since Inv already covers exp == -1 generally.
func (e BinaryFieldElement) Pow(exp *big.Int) BinaryFieldElement {
	if exp.Sign() < 0 {
		panic(errors.New("field: BinaryFieldElement.Pow requires a non-negative exponent"))
	}
	result := e.One()
	base := e
	for i := 0; i < exp.BitLen(); i++ {
		if exp.Bit(i) == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
	}
	return result
}

// Bytes returns the big-endian encoding of the coefficient vector.
func (e BinaryFieldElement) Bytes() []byte {
	return e.val.Bytes()
}
