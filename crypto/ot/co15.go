// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ot

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/mpc-toolkit/core/crypto/point"
	"github.com/mpc-toolkit/core/session"
)

// CO15Sender is the sender side of the Chou-Orlandi "Simplest OT"
// construction (https://eprint.iacr.org/2015/267.pdf), run over a
// two-party session.
type CO15Sender struct {
	party *session.TwoParty
}

// NewCO15Sender wraps an established two-party session as a CO15 sender.
func NewCO15Sender(party *session.TwoParty) *CO15Sender {
	return &CO15Sender{party: party}
}

// Send runs the sender's half of CO15 for the given message batch. All
// messages must share one length L <= 64.
func (s *CO15Sender) Send(messages [][]byte) error {
	n := len(messages)
	equalMessageLengths(messages)

	y := point.RandomScalar()
	basePoint := point.BasePoint()
	sPoint := basePoint.ScalarMult(y)
	tPoint := sPoint.ScalarMult(y)

	if err := s.party.Push(sPoint.Compress()); err != nil {
		return errors.Wrap(err, "ot co15: sender failed to push S")
	}
	rBytes, err := s.party.Pull()
	if err != nil {
		return errors.Wrap(err, "ot co15: sender failed to pull R")
	}
	rPoint, err := point.Decompress(rBytes)
	if err != nil {
		return errors.Wrap(err, "ot co15: sender received an invalid R")
	}

	ciphers := make([]byte, 0, n*len(messages[0]))
	for i := 0; i < n; i++ {
		// key_i = y*R - i*T
		key := rPoint.ScalarMult(y).Sub(tPoint.ScalarMult(big.NewInt(int64(i))))
		hash := kdf(key.Compress(), sPoint.Compress(), rPoint.Compress())
		ciphers = append(ciphers, mask(messages[i], hash)...)
	}
	if err := s.party.Push(ciphers); err != nil {
		return errors.Wrap(err, "ot co15: sender failed to push ciphertexts")
	}
	return nil
}

// CO15Receiver is the receiver side of CO15.
type CO15Receiver struct {
	party *session.TwoParty
}

// NewCO15Receiver wraps an established two-party session as a CO15 receiver.
func NewCO15Receiver(party *session.TwoParty) *CO15Receiver {
	return &CO15Receiver{party: party}
}

// Receive runs the receiver's half of CO15 for a choice in [0, N) and
// returns the L-byte message at that index.
func (r *CO15Receiver) Receive(choice Choice) ([]byte, error) {
	sBytes, err := r.party.Pull()
	if err != nil {
		return nil, errors.Wrap(err, "ot co15: receiver failed to pull S")
	}
	sPoint, err := point.Decompress(sBytes)
	if err != nil {
		return nil, errors.Wrap(err, "ot co15: receiver received an invalid S")
	}

	x := point.RandomScalar()
	// R = choice*S + x*G
	rPoint := sPoint.ScalarMult(big.NewInt(int64(choice.Value()))).Add(point.ScalarBaseMult(x))
	if err := r.party.Push(rPoint.Compress()); err != nil {
		return nil, errors.Wrap(err, "ot co15: receiver failed to push R")
	}

	ciphersBytes, err := r.party.Pull()
	if err != nil {
		return nil, errors.Wrap(err, "ot co15: receiver failed to pull ciphertexts")
	}
	if choice.N() == 0 || len(ciphersBytes)%choice.N() != 0 {
		return nil, errors.New("ot co15: ciphertext batch length is not a multiple of N")
	}
	l := len(ciphersBytes) / choice.N()
	cipher := ciphersBytes[choice.Value()*l : (choice.Value()+1)*l]

	// key = x*S
	key := sPoint.ScalarMult(x)
	hash := kdf(key.Compress(), sPoint.Compress(), rPoint.Compress())
	return mask(cipher, hash), nil
}
