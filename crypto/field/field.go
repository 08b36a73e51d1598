// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package field

import "math/big"

// Field is the common contract satisfied by every finite field element
// type in this package: PrimeFieldElement and BinaryFieldElement. It is
// the Go-generics stand-in for the per-field trait the rest of the
// toolkit (secret sharing in particular) is written against, so that
// Shamir splitting and recovery can be implemented once against any
// concrete field rather than duplicated per instantiation.
//
// UnitGroupElement deliberately does not implement Field: a composite
// modulus's unit group is not closed under addition (x and -x can both be
// units while their sum, 0, is not), so only the two types built on a
// prime or prime-power modulus qualify.
type Field[T any] interface {
	Zero() T
	One() T
	Random() T
	IsZero() bool
	Equal(other T) bool
	Add(other T) T
	Sub(other T) T
	Neg() T
	Mul(other T) T
	Div(other T) T
	Inv() T
	Pow(exp *big.Int) T
	Bytes() []byte
}

var (
	_ Field[PrimeFieldElement]  = PrimeFieldElement{}
	_ Field[BinaryFieldElement] = BinaryFieldElement{}
)
