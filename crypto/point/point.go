// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package point implements affine points on secp256k1: construction,
// group operations, scalar multiplication and the SEC1 compressed
// encoding the oblivious-transfer wire format is built on.
package point

import (
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"

	"github.com/mpc-toolkit/core/common"
)

// Curve is the single curve this package operates over. The OT
// constructions in this toolkit are specified against secp256k1 only.
func Curve() elliptic.Curve {
	return btcec.S256()
}

// Order returns the order of the base point (the scalar field size).
func Order() *big.Int {
	return Curve().Params().N
}

// Point represents a point on secp256k1 in affine form. The zero value is
// not valid; construct via NewPoint, Decompress or BasePoint.
type Point struct {
	x, y *big.Int
}

// NewPoint builds a Point and checks that (x, y) lies on the curve.
func NewPoint(x, y *big.Int) (*Point, error) {
	if x == nil || y == nil || !Curve().IsOnCurve(x, y) {
		return nil, errors.New("point: coordinates do not lie on secp256k1")
	}
	return &Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}, nil
}

// X returns the affine x-coordinate.
func (p *Point) X() *big.Int { return new(big.Int).Set(p.x) }

// Y returns the affine y-coordinate.
func (p *Point) Y() *big.Int { return new(big.Int).Set(p.y) }

// BasePoint returns the curve's generator.
func BasePoint() *Point {
	params := Curve().Params()
	return &Point{x: new(big.Int).Set(params.Gx), y: new(big.Int).Set(params.Gy)}
}

// Identity reports whether p is the point at infinity. affine (0, 0) is
// used as the sentinel, matching the stdlib elliptic convention.
func (p *Point) Identity() bool {
	return p.x.Sign() == 0 && p.y.Sign() == 0
}

// Add returns p + q.
func (p *Point) Add(q *Point) *Point {
	x, y := Curve().Add(p.x, p.y, q.x, q.y)
	return &Point{x: x, y: y}
}

// Neg returns -p.
func (p *Point) Neg() *Point {
	negY := new(big.Int).Neg(p.y)
	negY.Mod(negY, Curve().Params().P)
	return &Point{x: new(big.Int).Set(p.x), y: negY}
}

// Sub returns p - q.
func (p *Point) Sub(q *Point) *Point {
	return p.Add(q.Neg())
}

// ScalarMult returns k*p.
func (p *Point) ScalarMult(k *big.Int) *Point {
	x, y := Curve().ScalarMult(p.x, p.y, k.Bytes())
	return &Point{x: x, y: y}
}

// ScalarBaseMult returns k*G.
func ScalarBaseMult(k *big.Int) *Point {
	x, y := Curve().ScalarBaseMult(k.Bytes())
	return &Point{x: x, y: y}
}

// Equal reports whether p and q represent the same affine point.
func (p *Point) Equal(q *Point) bool {
	if p == nil || q == nil {
		return p == q
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// RandomScalar draws a uniform scalar in [1, Order).
func RandomScalar() *big.Int {
	order := Order()
	for {
		k, err := rand.Int(rand.Reader, order)
		if err != nil {
			panic(errors.Wrap(err, "point: RandomScalar failed to draw randomness"))
		}
		if k.Sign() != 0 {
			return k
		}
	}
}

// Compress encodes p in SEC1 compressed form: a sign-prefixed 33-byte
// string, 0x02 for even y and 0x03 for odd y, followed by the 32-byte
// big-endian x-coordinate.
func (p *Point) Compress() []byte {
	out := make([]byte, 33)
	if p.y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xBytes := p.x.Bytes()
	copy(out[33-len(xBytes):], xBytes)
	return out
}

// Decompress parses a 33-byte SEC1 compressed point and recovers y via a
// modular square root, matching the teacher's decompressPoint_Secp256k1
// routine generalized off of the prefix byte rather than a separate sign
// parameter.
func Decompress(data []byte) (*Point, error) {
	if len(data) != 33 {
		return nil, errors.Errorf("point: compressed point must be 33 bytes, got %d", len(data))
	}
	prefix := data[0]
	if prefix != 0x02 && prefix != 0x03 {
		return nil, fmt.Errorf("point: invalid compressed point prefix 0x%02x", prefix)
	}
	x := new(big.Int).SetBytes(data[1:])
	params := Curve().Params()
	modP := common.ModInt(params.P)

	// secp256k1: y^2 = x^3 + 7
	x3 := new(big.Int).Mul(x, x)
	x3.Mul(x3, x)
	y2 := new(big.Int).Add(x3, big.NewInt(7))
	y2.Mod(y2, params.P)

	y := modP.Sqrt(y2)
	if y == nil {
		return nil, errors.New("point: decompression failed, x is not on the curve")
	}
	wantOdd := prefix == 0x03
	if (y.Bit(0) == 1) != wantOdd {
		y = modP.Neg(y)
	}
	return &Point{x: x, y: y}, nil
}
