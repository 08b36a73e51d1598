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

	"github.com/mpc-toolkit/core/common"
)

// ErrNotPrime is returned when constructing a PrimeModulus from a value
// that fails the Miller-Rabin soundness check.
var ErrNotPrime = errors.New("field: value is not prime")

// PrimeModulus is a Modulus additionally guaranteed (to within the
// tester's soundness) to be prime.
type PrimeModulus struct {
	*Modulus
}

// NewPrimeModulus validates odd with Miller-Rabin and, on success, wraps it
// as a PrimeModulus. A non-odd input is a precondition violation (see
// NewModulus) and panics rather than returning an error.
func NewPrimeModulus(odd *big.Int) (*PrimeModulus, error) {
	if odd == nil || odd.Bit(0) == 0 {
		panic(errors.New("field: NewPrimeModulus requires an odd modulus"))
	}
	if !(MillerRabinTester{}).IsPrime(odd) {
		return nil, ErrNotPrime
	}
	return &PrimeModulus{Modulus: NewModulus(odd)}, nil
}

// RandomPrimeModulus draws bits-bit candidates (top and low bit forced to
// 1, giving an odd value of exactly that bit length) until one passes
// Miller-Rabin, then returns it. Not constant-time: iteration count is
// variable in the number of composite candidates rejected.
func RandomPrimeModulus(bits int) *PrimeModulus {
	if bits <= 1 {
		panic(errors.New("field: RandomPrimeModulus requires bits > 1"))
	}
	for {
		n := common.MustGetRandomInt(bits)
		n.SetBit(n, bits-1, 1)
		n.SetBit(n, 0, 1)
		if pm, err := NewPrimeModulus(n); err == nil {
			return pm
		}
	}
}

// Make wraps value as a PrimeFieldElement of this modulus. Every nonzero
// residue mod a prime is a unit, and zero is handled specially by the
// PrimeFieldElement additive operations, so this never fails.
func (pm *PrimeModulus) Make(value *big.Int) PrimeFieldElement {
	reduced := new(big.Int).Mod(value, pm.n)
	if reduced.Sign() == 0 {
		return PrimeFieldElement{modulus: pm, isZero: true}
	}
	e, ok := pm.Modulus.Make(reduced)
	if !ok {
		panic(errors.New("field: nonzero residue mod a prime was not a unit; modulus is not actually prime"))
	}
	return PrimeFieldElement{modulus: pm, elem: e}
}

// RandomElement draws a uniform element of GF(p).
func (pm *PrimeModulus) RandomElement() PrimeFieldElement {
	v, err := rand.Int(rand.Reader, pm.n)
	if err != nil {
		panic(errors.Wrap(err, "field: RandomElement failed to draw randomness"))
	}
	return pm.Make(v)
}

// PrimeFieldElement is structurally a UnitGroupElement over a PrimeModulus,
// plus the additive structure that is only sound when the modulus is
// prime: addition, subtraction, negation and a distinguished zero (the
// single non-unit residue). Keeping it as a distinct type from
// UnitGroupElement - rather than a type alias - lets the Go type system
// enforce "prime implies additive closure": only PrimeFieldElement
// implements Field[PrimeFieldElement].
type PrimeFieldElement struct {
	modulus *PrimeModulus
	elem    *UnitGroupElement // nil when isZero
	isZero  bool
}

// Rep returns the canonical integer representative in [0, p).
func (e PrimeFieldElement) Rep() *big.Int {
	if e.isZero {
		return big.NewInt(0)
	}
	return e.elem.Rep()
}

// Zero returns the additive identity of e's field.
func (e PrimeFieldElement) Zero() PrimeFieldElement {
	return PrimeFieldElement{modulus: e.modulus, isZero: true}
}

// One returns the multiplicative identity of e's field.
func (e PrimeFieldElement) One() PrimeFieldElement {
	return e.modulus.Make(bigOne)
}

// Random draws a uniform element of e's field.
func (e PrimeFieldElement) Random() PrimeFieldElement {
	return e.modulus.RandomElement()
}

// IsZero reports whether e is the additive identity.
func (e PrimeFieldElement) IsZero() bool {
	return e.isZero
}

// Equal reports field equality.
func (e PrimeFieldElement) Equal(other PrimeFieldElement) bool {
	if e.isZero || other.isZero {
		return e.isZero == other.isZero
	}
	return e.elem.Equal(other.elem)
}

// Add returns e + other.
func (e PrimeFieldElement) Add(other PrimeFieldElement) PrimeFieldElement {
	return e.modulus.Make(new(big.Int).Add(e.Rep(), other.Rep()))
}

// Sub returns e - other.
func (e PrimeFieldElement) Sub(other PrimeFieldElement) PrimeFieldElement {
	return e.modulus.Make(new(big.Int).Sub(e.Rep(), other.Rep()))
}

// Neg returns -e.
func (e PrimeFieldElement) Neg() PrimeFieldElement {
	return e.Zero().Sub(e)
}

// Mul returns e * other. Zero absorbs, matching field semantics.
func (e PrimeFieldElement) Mul(other PrimeFieldElement) PrimeFieldElement {
	if e.isZero || other.isZero {
		return e.Zero()
	}
	return PrimeFieldElement{modulus: e.modulus, elem: e.elem.Mul(other.elem)}
}

// Inv returns the multiplicative inverse of e. Panics on zero, which has
// none; callers must check IsZero first (a precondition violation per the
// error design, not a recoverable error).
func (e PrimeFieldElement) Inv() PrimeFieldElement {
	if e.isZero {
		panic(errors.New("field: zero has no multiplicative inverse"))
	}
	return PrimeFieldElement{modulus: e.modulus, elem: e.elem.Inv()}
}

// Div returns e / other, defined as e * other.Inv().
func (e PrimeFieldElement) Div(other PrimeFieldElement) PrimeFieldElement {
	return e.Mul(other.Inv())
}

// Pow returns e^exp by square-and-multiply.
func (e PrimeFieldElement) Pow(exp *big.Int) PrimeFieldElement {
	if e.isZero {
		if exp.Sign() == 0 {
			return e.One()
		}
		return e.Zero()
	}
	return PrimeFieldElement{modulus: e.modulus, elem: e.elem.Pow(exp)}
}

// Bytes returns the big-endian encoding of the canonical representative.
func (e PrimeFieldElement) Bytes() []byte {
	return e.Rep().Bytes()
}
