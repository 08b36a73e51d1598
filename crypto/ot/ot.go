// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package ot implements 1-out-of-N oblivious transfer over secp256k1: the
// Chou-Orlandi "Simplest OT" construction (CO15), the Naor-Pinkas
// construction (NP01), and an insecure reference "functionality" kept
// only as a test oracle.
package ot

import (
	"golang.org/x/crypto/blake2b"

	"github.com/pkg/errors"
)

// maxPayloadLength is the largest message length this package's mask
// construction can safely one-time-pad: Blake2b-512 produces 64 bytes of
// keystream per invocation, so masking a longer message would reuse
// keystream bytes.
const maxPayloadLength = 64

// Choice is a 1-out-of-N OT receiver selection, range-checked against N
// at construction. An out-of-range choice is a precondition violation,
// not a recoverable error, so NewChoice panics rather than returning one.
type Choice struct {
	value int
	n     int
}

// NewChoice builds a Choice for an N-way transfer. Panics if value is not
// in [0, n).
func NewChoice(value, n int) Choice {
	if value < 0 || value >= n {
		panic(errors.Errorf("ot: choice %d out of range for N=%d", value, n))
	}
	return Choice{value: value, n: n}
}

// Value returns the underlying selection index.
func (c Choice) Value() int { return c.value }

// N returns the transfer's arity.
func (c Choice) N() int { return c.n }

// Sender runs the sending side of a 1-out-of-N OT: it holds N messages
// and, at the end of the protocol, has learned nothing about which one
// the receiver took.
type Sender interface {
	Send(messages [][]byte) error
}

// Receiver runs the receiving side: it holds a Choice and, at the end of
// the protocol, has learned only messages[choice] - nothing about the
// other N-1 messages.
type Receiver interface {
	Receive(choice Choice) ([]byte, error)
}

// mask XORs msg against the leading len(msg) bytes of a keystream,
// implementing the one-time-pad step shared by CO15 and NP01. msg must be
// no longer than maxPayloadLength, matching the reference implementation's
// safety assertion: longer messages would require more keystream than a
// single Blake2b-512 digest provides.
func mask(msg, keystream []byte) []byte {
	if len(msg) > maxPayloadLength {
		panic(errors.Errorf("ot: message length %d exceeds the %d-byte mask limit", len(msg), maxPayloadLength))
	}
	out := make([]byte, len(msg))
	for i := range msg {
		out[i] = msg[i] ^ keystream[i]
	}
	return out
}

// kdf hashes an arbitrary number of byte strings together with Blake2b-512
// to derive a one-time pad keystream.
func kdf(parts ...[]byte) []byte {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(errors.Wrap(err, "ot: blake2b-512 is always constructible with a nil key"))
	}
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// equalMessageLengths validates that every message in a send batch shares
// the same length L, as the N-fixed-width wire format requires.
func equalMessageLengths(messages [][]byte) int {
	if len(messages) == 0 {
		panic(errors.New("ot: Send requires at least one message"))
	}
	l := len(messages[0])
	for _, m := range messages {
		if len(m) != l {
			panic(errors.New("ot: all messages in a Send batch must share the same length"))
		}
	}
	return l
}
