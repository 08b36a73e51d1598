// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package session_test

import (
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpc-toolkit/core/session"
)

func localAddrs(t *testing.T, n int, basePort int) []net.Addr {
	t.Helper()
	addrs := make([]net.Addr, n)
	for i := 0; i < n; i++ {
		addr, err := net.ResolveTCPAddr("tcp", fmt.Sprintf("127.0.0.1:%d", basePort+i))
		require.NoError(t, err)
		addrs[i] = addr
	}
	return addrs
}

func buildMesh(t *testing.T, n int, basePort int) []*session.Party {
	t.Helper()
	addrs := localAddrs(t, n, basePort)
	parties := make([]*session.Party, n)
	var wg sync.WaitGroup
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			p, err := session.NewParty(i, addrs)
			parties[i] = p
			errs[i] = err
		}()
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "party %d failed to join the mesh", i)
	}
	return parties
}

func TestSessionMeshBroadcast(t *testing.T) {
	parties := buildMesh(t, 3, 18070)
	defer func() {
		for _, p := range parties {
			p.Close()
		}
	}()

	require.NoError(t, parties[0].Broadcast([]byte("hello")))
	for id := 1; id < 3; id++ {
		msg, err := parties[id].Recv(0)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(msg))
	}
}

func TestSessionPartyIDsAreDistinct(t *testing.T) {
	parties := buildMesh(t, 2, 18090)
	defer func() {
		for _, p := range parties {
			p.Close()
		}
	}()
	assert.Equal(t, 0, parties[0].ID())
	assert.Equal(t, 1, parties[1].ID())
}

func TestTwoPartyPushPull(t *testing.T) {
	addrs := localAddrs(t, 2, 18110)
	var wg sync.WaitGroup
	parties := make([]*session.TwoParty, 2)
	errs := make([]error, 2)
	wg.Add(2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			defer wg.Done()
			tp, err := session.NewTwoParty(i, addrs)
			parties[i] = tp
			errs[i] = err
		}()
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	defer func() {
		parties[0].Close()
		parties[1].Close()
	}()

	require.NoError(t, parties[0].Push([]byte("ping")))
	msg, err := parties[1].Pull()
	require.NoError(t, err)
	assert.Equal(t, "ping", string(msg))
}

func TestNewTwoPartyPanicsOnWrongPeerCount(t *testing.T) {
	addrs := localAddrs(t, 3, 18130)
	assert.Panics(t, func() {
		session.NewTwoParty(0, addrs)
	})
}
