// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ot

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/mpc-toolkit/core/session"
)

// FunctionalitySender is an insecure reference implementation of the OT
// sender: it reads the choice in the clear and replies with the
// corresponding plaintext message. It exists only to give protocols
// built on top of OT a cheap, deterministic test double; it is not OT and
// must never carry real traffic.
type FunctionalitySender struct {
	party *session.TwoParty
}

// NewFunctionalitySender wraps an established two-party session.
func NewFunctionalitySender(party *session.TwoParty) *FunctionalitySender {
	return &FunctionalitySender{party: party}
}

// Send replies to the receiver's plaintext choice with the chosen message.
func (s *FunctionalitySender) Send(messages [][]byte) error {
	equalMessageLengths(messages)
	choiceBytes, err := s.party.Pull()
	if err != nil {
		return errors.Wrap(err, "ot functionality: sender failed to pull choice")
	}
	if len(choiceBytes) != 8 {
		return errors.New("ot functionality: choice must be an 8-byte little-endian index")
	}
	choice := int(binary.LittleEndian.Uint64(choiceBytes))
	if choice < 0 || choice >= len(messages) {
		return errors.Errorf("ot functionality: choice %d out of range for %d messages", choice, len(messages))
	}
	return s.party.Push(messages[choice])
}

// FunctionalityReceiver is the matching insecure reference receiver: it
// sends its choice in the clear.
type FunctionalityReceiver struct {
	party *session.TwoParty
}

// NewFunctionalityReceiver wraps an established two-party session.
func NewFunctionalityReceiver(party *session.TwoParty) *FunctionalityReceiver {
	return &FunctionalityReceiver{party: party}
}

// Receive sends choice in the clear and returns whatever the sender replies.
func (r *FunctionalityReceiver) Receive(choice Choice) ([]byte, error) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(choice.Value()))
	if err := r.party.Push(buf); err != nil {
		return nil, errors.Wrap(err, "ot functionality: receiver failed to push choice")
	}
	msg, err := r.party.Pull()
	if err != nil {
		return nil, errors.Wrap(err, "ot functionality: receiver failed to pull message")
	}
	return msg, nil
}
