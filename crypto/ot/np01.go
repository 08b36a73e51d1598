// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ot

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/mpc-toolkit/core/crypto/point"
	"github.com/mpc-toolkit/core/session"
)

const compressedPointSize = 33

// NP01Sender is the sender side of the Naor-Pinkas OT construction
// (https://dl.acm.org/doi/pdf/10.5555/365411.365502), run over a
// two-party session.
type NP01Sender struct {
	party *session.TwoParty
}

// NewNP01Sender wraps an established two-party session as an NP01 sender.
func NewNP01Sender(party *session.TwoParty) *NP01Sender {
	return &NP01Sender{party: party}
}

// Send runs the sender's half of NP01 for the given message batch. All
// messages must share one length L <= 64.
func (s *NP01Sender) Send(messages [][]byte) error {
	n := len(messages)
	equalMessageLengths(messages)

	sums := make([]*point.Point, n-1)
	wire := make([]byte, 0, (n-1)*compressedPointSize)
	for i := range sums {
		sums[i] = point.ScalarBaseMult(point.RandomScalar())
		wire = append(wire, sums[i].Compress()...)
	}
	if err := s.party.Push(wire); err != nil {
		return errors.Wrap(err, "ot np01: sender failed to push mask sums")
	}

	pkBytes, err := s.party.Pull()
	if err != nil {
		return errors.Wrap(err, "ot np01: sender failed to pull ephemeral key")
	}
	pk, err := point.Decompress(pkBytes)
	if err != nil {
		return errors.Wrap(err, "ot np01: sender received an invalid ephemeral key")
	}

	sk := point.RandomScalar()
	skPub := point.ScalarBaseMult(sk)
	if err := s.party.Push(skPub.Compress()); err != nil {
		return errors.Wrap(err, "ot np01: sender failed to push its own ephemeral key")
	}

	ciphers := make([]byte, 0, n*len(messages[0]))
	for i := 0; i < n; i++ {
		var pkI *point.Point
		if i == 0 {
			pkI = pk
		} else {
			pkI = sums[i-1].Sub(pk)
		}
		key := pkI.ScalarMult(sk) // Diffie-Hellman: sk * pkI
		hash := kdf(fixed32(key.X()), leUint64(uint64(i)))
		ciphers = append(ciphers, mask(messages[i], hash)...)
	}
	if err := s.party.Push(ciphers); err != nil {
		return errors.Wrap(err, "ot np01: sender failed to push ciphertexts")
	}
	return nil
}

// NP01Receiver is the receiver side of NP01.
type NP01Receiver struct {
	party *session.TwoParty
}

// NewNP01Receiver wraps an established two-party session as an NP01 receiver.
func NewNP01Receiver(party *session.TwoParty) *NP01Receiver {
	return &NP01Receiver{party: party}
}

// Receive runs the receiver's half of NP01 for a choice in [0, N) and
// returns the L-byte message at that index.
func (r *NP01Receiver) Receive(choice Choice) ([]byte, error) {
	n := choice.N()
	sumsBytes, err := r.party.Pull()
	if err != nil {
		return nil, errors.Wrap(err, "ot np01: receiver failed to pull mask sums")
	}
	if n < 1 || len(sumsBytes) != (n-1)*compressedPointSize {
		return nil, errors.New("ot np01: mask sum batch has an unexpected length")
	}
	sums := make([]*point.Point, n-1)
	for i := range sums {
		p, err := point.Decompress(sumsBytes[i*compressedPointSize : (i+1)*compressedPointSize])
		if err != nil {
			return nil, errors.Wrap(err, "ot np01: receiver decoded an invalid mask sum")
		}
		sums[i] = p
	}

	sk := point.RandomScalar()
	pk := point.ScalarBaseMult(sk)
	if choice.Value() > 0 {
		pk = sums[choice.Value()-1].Sub(pk)
	}
	if err := r.party.Push(pk.Compress()); err != nil {
		return nil, errors.Wrap(err, "ot np01: receiver failed to push its masked key")
	}

	senderPkBytes, err := r.party.Pull()
	if err != nil {
		return nil, errors.Wrap(err, "ot np01: receiver failed to pull sender's ephemeral key")
	}
	senderPk, err := point.Decompress(senderPkBytes)
	if err != nil {
		return nil, errors.Wrap(err, "ot np01: receiver received an invalid sender key")
	}
	key := senderPk.ScalarMult(sk) // Diffie-Hellman: sk * senderPk

	ciphersBytes, err := r.party.Pull()
	if err != nil {
		return nil, errors.Wrap(err, "ot np01: receiver failed to pull ciphertexts")
	}
	if len(ciphersBytes)%n != 0 {
		return nil, errors.New("ot np01: ciphertext batch length is not a multiple of N")
	}
	l := len(ciphersBytes) / n
	cipher := ciphersBytes[choice.Value()*l : (choice.Value()+1)*l]

	hash := kdf(fixed32(key.X()), leUint64(uint64(choice.Value())))
	return mask(cipher, hash), nil
}

func leUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// fixed32 encodes a field element as a 32-byte big-endian string, the
// shape a raw Diffie-Hellman secret would take, so the KDF input does not
// vary in length across runs that happen to produce a shared x-coordinate
// with leading zero bytes.
func fixed32(v *big.Int) []byte {
	out := make([]byte, 32)
	b := v.Bytes()
	copy(out[32-len(b):], b)
	return out
}
