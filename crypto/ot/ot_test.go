// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package ot_test

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpc-toolkit/core/crypto/ot"
	"github.com/mpc-toolkit/core/session"
)

func twoPartyAddrs(t *testing.T, basePort int) []net.Addr {
	t.Helper()
	a1, err := net.ResolveTCPAddr("tcp", fmt.Sprintf("127.0.0.1:%d", basePort))
	require.NoError(t, err)
	a2, err := net.ResolveTCPAddr("tcp", fmt.Sprintf("127.0.0.1:%d", basePort+1))
	require.NoError(t, err)
	return []net.Addr{a1, a2}
}

func buildTwoParty(t *testing.T, basePort int) (*session.TwoParty, *session.TwoParty) {
	t.Helper()
	addrs := twoPartyAddrs(t, basePort)
	type result struct {
		tp  *session.TwoParty
		err error
	}
	ch := make(chan result, 2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			tp, err := session.NewTwoParty(i, addrs)
			ch <- result{tp, err}
		}()
	}
	var parties [2]*session.TwoParty
	for i := 0; i < 2; i++ {
		r := <-ch
		require.NoError(t, r.err)
		// the party that produced r does not tell us which id it is, so
		// disambiguate by ID().
		parties[r.tp.ID()] = r.tp
	}
	return parties[0], parties[1]
}

func messageBatch(n, l int, fill byte) [][]byte {
	messages := make([][]byte, n)
	for i := range messages {
		msg := make([]byte, l)
		for j := range msg {
			msg[j] = fill + byte(i)
		}
		messages[i] = msg
	}
	return messages
}

func TestCO15RoundTrip(t *testing.T) {
	cases := []struct {
		n, l int
	}{
		{2, 1}, {4, 16}, {16, 32}, {2, 64},
	}
	port := 19000
	for _, c := range cases {
		c := c
		port += 2
		t.Run(fmt.Sprintf("N=%d/L=%d", c.n, c.l), func(t *testing.T) {
			sender, receiver := buildTwoParty(t, port)
			defer sender.Close()
			defer receiver.Close()

			messages := messageBatch(c.n, c.l, 0x10)
			choice := ot.NewChoice(c.n/2, c.n)

			errCh := make(chan error, 1)
			go func() {
				errCh <- ot.NewCO15Sender(sender).Send(messages)
			}()

			got, err := ot.NewCO15Receiver(receiver).Receive(choice)
			require.NoError(t, err)
			require.NoError(t, <-errCh)
			assert.Equal(t, messages[choice.Value()], got)
		})
	}
}

func TestNP01RoundTrip(t *testing.T) {
	cases := []struct {
		n, l int
	}{
		{2, 1}, {4, 16}, {16, 32}, {2, 64},
	}
	port := 19100
	for _, c := range cases {
		c := c
		port += 2
		t.Run(fmt.Sprintf("N=%d/L=%d", c.n, c.l), func(t *testing.T) {
			sender, receiver := buildTwoParty(t, port)
			defer sender.Close()
			defer receiver.Close()

			messages := messageBatch(c.n, c.l, 0x20)
			choice := ot.NewChoice(c.n/2, c.n)

			errCh := make(chan error, 1)
			go func() {
				errCh <- ot.NewNP01Sender(sender).Send(messages)
			}()

			got, err := ot.NewNP01Receiver(receiver).Receive(choice)
			require.NoError(t, err)
			require.NoError(t, <-errCh)
			assert.Equal(t, messages[choice.Value()], got)
		})
	}
}

// TestCO15FixedScenario exercises a fixed 4-of-2 CO15 transfer with
// choice=2, matching the worked example of an L=4 batch where every
// message's bytes equal its own index.
func TestCO15FixedScenario(t *testing.T) {
	sender, receiver := buildTwoParty(t, 18070)
	defer sender.Close()
	defer receiver.Close()

	messages := [][]byte{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{2, 2, 2, 2},
		{3, 3, 3, 3},
	}
	choice := ot.NewChoice(2, 4)

	errCh := make(chan error, 1)
	go func() { errCh <- ot.NewCO15Sender(sender).Send(messages) }()

	got, err := ot.NewCO15Receiver(receiver).Receive(choice)
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	assert.Equal(t, []byte{2, 2, 2, 2}, got)
}

// TestNP01FixedScenario mirrors TestCO15FixedScenario for NP01.
func TestNP01FixedScenario(t *testing.T) {
	sender, receiver := buildTwoParty(t, 18090)
	defer sender.Close()
	defer receiver.Close()

	messages := [][]byte{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{2, 2, 2, 2},
		{3, 3, 3, 3},
	}
	choice := ot.NewChoice(2, 4)

	errCh := make(chan error, 1)
	go func() { errCh <- ot.NewNP01Sender(sender).Send(messages) }()

	got, err := ot.NewNP01Receiver(receiver).Receive(choice)
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	assert.Equal(t, []byte{2, 2, 2, 2}, got)
}

func TestFunctionalityRoundTrip(t *testing.T) {
	sender, receiver := buildTwoParty(t, 19200)
	defer sender.Close()
	defer receiver.Close()

	messages := messageBatch(4, 8, 0x40)
	choice := ot.NewChoice(1, 4)

	errCh := make(chan error, 1)
	go func() { errCh <- ot.NewFunctionalitySender(sender).Send(messages) }()

	got, err := ot.NewFunctionalityReceiver(receiver).Receive(choice)
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	assert.Equal(t, messages[1], got)
}

func TestNewChoicePanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { ot.NewChoice(4, 4) })
	assert.Panics(t, func() { ot.NewChoice(-1, 4) })
}
