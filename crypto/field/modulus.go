// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package field implements the commutative-ring and finite-field layer: the
// unit group Z*(n) of an odd modulus n in Montgomery form, the prime field
// GF(p) layered on top of it, and the binary extension field GF(2^m).
package field

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"

	"github.com/mpc-toolkit/core/common"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// Modulus holds the Montgomery precomputation for an odd n: a power-of-two
// R coprime to n, R^2 mod n and -n^-1 mod R. Multiplication of two
// Montgomery-form residues reduces to one REDC pass instead of a division.
//
// Modulus is immutable and value-typed; copying it copies the (shared,
// read-only) precomputed big.Ints by reference, which is safe since none of
// the methods below mutate them.
type Modulus struct {
	n      *big.Int
	rBits  uint
	rMask  *big.Int
	r2ModN *big.Int
	nPrime *big.Int
}

// NewModulus builds the Montgomery parameters for an odd n >= 3. A non-odd
// or too-small modulus is a precondition violation, not a runtime condition
// callers are expected to recover from, so this panics rather than
// returning an error.
func NewModulus(n *big.Int) *Modulus {
	if n == nil || n.Sign() <= 0 || n.Bit(0) == 0 || n.Cmp(big.NewInt(3)) < 0 {
		panic(errors.New("field: NewModulus requires an odd modulus n >= 3"))
	}
	rBits := uint(((n.BitLen() + 63) / 64) * 64)
	r := new(big.Int).Lsh(bigOne, rBits)
	rMask := new(big.Int).Sub(r, bigOne)

	nInv := new(big.Int).ModInverse(n, r)
	if nInv == nil {
		panic(errors.New("field: modulus is not invertible mod R; n must be odd"))
	}
	nPrime := new(big.Int).Sub(r, nInv)
	nPrime.Mod(nPrime, r)

	r2 := new(big.Int).Mul(r, r)
	r2.Mod(r2, n)

	return &Modulus{
		n:      new(big.Int).Set(n),
		rBits:  rBits,
		rMask:  rMask,
		r2ModN: r2,
		nPrime: nPrime,
	}
}

// RandomModulus draws a uniformly random odd n of the given bit length
// (top and low bit forced to 1) and builds its Montgomery parameters.
func RandomModulus(bits int) *Modulus {
	if bits <= 0 {
		panic(errors.New("field: RandomModulus requires a positive bit length"))
	}
	n := common.MustGetRandomInt(bits)
	n.SetBit(n, bits-1, 1)
	n.SetBit(n, 0, 1)
	return NewModulus(n)
}

// N returns the modulus value.
func (m *Modulus) N() *big.Int {
	return new(big.Int).Set(m.n)
}

// redc implements Montgomery reduction: given t < R*n, returns t*R^-1 mod n.
func (m *Modulus) redc(t *big.Int) *big.Int {
	u := new(big.Int).And(t, m.rMask)
	u.Mul(u, m.nPrime)
	u.And(u, m.rMask)
	u.Mul(u, m.n)
	u.Add(u, t)
	u.Rsh(u, m.rBits)
	if u.Cmp(m.n) >= 0 {
		u.Sub(u, m.n)
	}
	return u
}

// toMontgomery converts a plain residue (already reduced mod n) into its
// Montgomery representation x*R mod n.
func (m *Modulus) toMontgomery(x *big.Int) *big.Int {
	t := new(big.Int).Mul(x, m.r2ModN)
	t.Mod(t, m.n)
	return m.redc(t)
}

// fromMontgomery recovers the plain residue from a Montgomery representation.
func (m *Modulus) fromMontgomery(xm *big.Int) *big.Int {
	return m.redc(new(big.Int).Set(xm))
}

// montMul computes the Montgomery-form product of two Montgomery-form
// operands.
func (m *Modulus) montMul(a, b *big.Int) *big.Int {
	t := new(big.Int).Mul(a, b)
	return m.redc(t)
}

// UnitGroupElement is a residue r in Z*(n), stored in Montgomery form.
// Construction always checks gcd(r, n) = 1, so every UnitGroupElement in
// existence is invertible; Inv is therefore total on this type.
type UnitGroupElement struct {
	modulus *Modulus
	val     *big.Int // Montgomery form
}

// Make returns the element represented by v if gcd(v, n) = 1, or false
// otherwise.
func (m *Modulus) Make(v *big.Int) (*UnitGroupElement, bool) {
	reduced := new(big.Int).Mod(v, m.n)
	g := new(big.Int).GCD(nil, nil, reduced, m.n)
	if g.Cmp(bigOne) != 0 {
		return nil, false
	}
	return &UnitGroupElement{modulus: m, val: m.toMontgomery(reduced)}, true
}

// RandomMake draws a uniform element of Z*(n) by rejection sampling: for n
// with typical prime factorization this converges in O(1) draws; the
// worst-case bound is n/phi(n) iterations.
func (m *Modulus) RandomMake() *UnitGroupElement {
	for {
		v, err := rand.Int(rand.Reader, m.n)
		if err != nil {
			panic(errors.Wrap(err, "field: RandomMake failed to draw randomness"))
		}
		if e, ok := m.Make(v); ok {
			return e
		}
	}
}

// Modulus returns the Montgomery parameters this element belongs to.
func (e *UnitGroupElement) Modulus() *Modulus {
	return e.modulus
}

// Rep returns the canonical integer representative of e, in [0, n).
func (e *UnitGroupElement) Rep() *big.Int {
	return e.modulus.fromMontgomery(e.val)
}

// One returns the multiplicative identity in e's group.
func (e *UnitGroupElement) One() *UnitGroupElement {
	one, _ := e.modulus.Make(bigOne)
	return one
}

// MinusOne returns the representative n-1.
func (e *UnitGroupElement) MinusOne() *UnitGroupElement {
	minusOne, ok := e.modulus.Make(new(big.Int).Sub(e.modulus.n, bigOne))
	if !ok {
		panic(errors.New("field: n-1 is not a unit; modulus is not odd or is < 3"))
	}
	return minusOne
}

// Mul returns e * other.
func (e *UnitGroupElement) Mul(other *UnitGroupElement) *UnitGroupElement {
	return &UnitGroupElement{modulus: e.modulus, val: e.modulus.montMul(e.val, other.val)}
}

// MulAssign mutates e in place to e * other.
func (e *UnitGroupElement) MulAssign(other *UnitGroupElement) {
	e.val = e.modulus.montMul(e.val, other.val)
}

// Pow computes e^exp by square-and-multiply over the full bit width of exp.
func (e *UnitGroupElement) Pow(exp *big.Int) *UnitGroupElement {
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

// Inv returns the multiplicative inverse via extended Euclid on the
// canonical representative. Always defined since construction guarantees
// e lies in Z*(n).
func (e *UnitGroupElement) Inv() *UnitGroupElement {
	rep := e.Rep()
	inv := new(big.Int).ModInverse(rep, e.modulus.n)
	if inv == nil {
		panic(errors.New("field: element is not invertible; this should be unreachable for a UnitGroupElement"))
	}
	result, ok := e.modulus.Make(inv)
	if !ok {
		panic(errors.New("field: inverse of a unit was not itself a unit"))
	}
	return result
}

// Div returns e / other, defined as e * other.Inv().
func (e *UnitGroupElement) Div(other *UnitGroupElement) *UnitGroupElement {
	return e.Mul(other.Inv())
}

// Equal reports whether e and other hold the same residue under the same
// modulus.
func (e *UnitGroupElement) Equal(other *UnitGroupElement) bool {
	return e.modulus.n.Cmp(other.modulus.n) == 0 && e.val.Cmp(other.val) == 0
}
