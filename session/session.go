// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package session implements the TCP mesh transport parties use to talk
// to each other: a fixed list of N peer addresses, a listener that admits
// connections from lower-numbered peers and a set of dialers that connect
// out to higher-numbered ones, each side authenticating only by claiming
// an id. There is no framing, no retransmission and no encryption; this
// is the plumbing layer a protocol round runs on top of, not a secure
// channel in its own right.
package session

import (
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const (
	// recvBufferSize is the fixed-size read buffer used by Recv; messages
	// are not framed, so a single read can only return up to this many
	// bytes of a logical message.
	recvBufferSize = 1024

	// ioDeadline bounds every individual blocking Send/Recv/handshake
	// round-trip, so a stalled peer cannot hang a party forever.
	ioDeadline = 30 * time.Second

	// dialRetryDelay is how long a connector sleeps before its single
	// retry against a peer that refused the first dial attempt.
	dialRetryDelay = 10 * time.Millisecond
)

// ConstructionTimeout bounds how long Session's N-peer handshake is
// allowed to take in total before New gives up and returns an error.
var ConstructionTimeout = 10 * time.Second

// Session is a full mesh of plain TCP connections between N peers,
// indexed by peer id. sockets[i] is nil only for i == id, the local peer's
// own slot: New returns an error rather than a Session with any other slot
// empty.
type Session struct {
	id      int
	sockets []net.Conn
}

// New builds the Session for peer id among peers, where peers[id] is the
// local listen address. It blocks until every lower-id peer has connected
// in and every higher-id peer has been dialed, or until
// ConstructionTimeout elapses.
//
// A peer that rejects a connector's handshake aborts the whole
// construction with a fatal error: a party that can't reach its mesh has
// no sound way to proceed, so there is no partial-session fallback.
func New(id int, peers []net.Addr) (*Session, error) {
	if id < 0 || id >= len(peers) {
		panic(errors.Errorf("session: id %d out of range for %d peers", id, len(peers)))
	}
	n := len(peers)
	result := make(chan error, n)
	sockets := make([]net.Conn, n)

	listenDone := make(chan error, 1)
	go func() {
		listenDone <- acceptLowerPeers(id, peers[id], sockets)
	}()

	for peerID := id + 1; peerID < n; peerID++ {
		peerID := peerID
		go func() {
			result <- dialHigherPeer(id, peerID, peers[peerID], sockets)
		}()
	}

	timeout := time.After(ConstructionTimeout)
	var errs error
	pending := n - id - 1
	listenerFinished := false
	for pending > 0 || !listenerFinished {
		select {
		case err := <-result:
			pending--
			if err != nil {
				errs = multierror.Append(errs, err)
			}
		case err := <-listenDone:
			listenerFinished = true
			if err != nil {
				errs = multierror.Append(errs, err)
			}
		case <-timeout:
			return nil, errors.Errorf("session: construction for peer %d timed out after %s", id, ConstructionTimeout)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return &Session{id: id, sockets: sockets}, nil
}

// acceptLowerPeers listens on my own address and admits exactly `id`
// inbound connections, one from each peer with a lower id, authenticating
// by the 8-byte little-endian id each connector sends.
func acceptLowerPeers(id int, myAddr net.Addr, sockets []net.Conn) error {
	if id == 0 {
		return nil
	}
	listener, err := net.Listen(myAddr.Network(), myAddr.String())
	if err != nil {
		return errors.Wrapf(err, "session: peer %d failed to listen on %s", id, myAddr)
	}
	defer listener.Close()

	remaining := id
	for remaining > 0 {
		conn, err := listener.Accept()
		if err != nil {
			return errors.Wrapf(err, "session: peer %d failed to accept connection", id)
		}
		peerID, err := handshakeAccept(id, conn)
		if err != nil {
			conn.Close()
			return err
		}
		sockets[peerID] = conn
		remaining--
	}
	return nil
}

// handshakeAccept reads the 8-byte little-endian claimed id from conn and
// replies with an 8-byte little-endian ack (1 if the claim is admissible
// - strictly lower than my own id - 0 otherwise). It returns the claimed
// id only when admitted.
func handshakeAccept(myID int, conn net.Conn) (int, error) {
	conn.SetDeadline(time.Now().Add(ioDeadline))
	defer conn.SetDeadline(time.Time{})

	var buf [8]byte
	if _, err := io.ReadFull(conn, buf[:]); err != nil {
		return 0, errors.Wrap(err, "session: handshake failed to read claimed id")
	}
	claimed := int(binary.LittleEndian.Uint64(buf[:]))

	admitted := claimed >= 0 && claimed < myID
	var ack [8]byte
	if admitted {
		binary.LittleEndian.PutUint64(ack[:], 1)
	}
	if _, err := conn.Write(ack[:]); err != nil {
		return 0, errors.Wrap(err, "session: handshake failed to write ack")
	}
	if !admitted {
		return 0, errors.Errorf("session: rejected inbound connection claiming id %d", claimed)
	}
	return claimed, nil
}

// dialHigherPeer connects out to a peer with a higher id, retrying once
// after dialRetryDelay, then claims its own id and waits for an ack.
func dialHigherPeer(myID, peerID int, addr net.Addr, sockets []net.Conn) error {
	conn, err := net.DialTimeout(addr.Network(), addr.String(), ioDeadline)
	if err != nil {
		time.Sleep(dialRetryDelay)
		conn, err = net.DialTimeout(addr.Network(), addr.String(), ioDeadline)
		if err != nil {
			return errors.Wrapf(err, "session: peer %d failed to connect to peer %d", myID, peerID)
		}
	}

	conn.SetDeadline(time.Now().Add(ioDeadline))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(myID))
	if _, err := conn.Write(buf[:]); err != nil {
		conn.Close()
		return errors.Wrapf(err, "session: peer %d failed to send id to peer %d", myID, peerID)
	}
	if _, err := io.ReadFull(conn, buf[:]); err != nil {
		conn.Close()
		return errors.Wrapf(err, "session: peer %d failed to read ack from peer %d", myID, peerID)
	}
	conn.SetDeadline(time.Time{})
	if binary.LittleEndian.Uint64(buf[:]) == 0 {
		conn.Close()
		return errors.Errorf("session: peer %d was rejected by peer %d", myID, peerID)
	}
	sockets[peerID] = conn
	return nil
}

// Send writes data to peer id. Sending to the local peer's own id, whose
// slot holds no socket, is a silent no-op.
func (s *Session) Send(id int, data []byte) error {
	conn := s.sockets[id]
	if conn == nil {
		return nil
	}
	conn.SetWriteDeadline(time.Now().Add(ioDeadline))
	defer conn.SetWriteDeadline(time.Time{})
	_, err := conn.Write(data)
	if err != nil {
		return errors.Wrapf(err, "session: send to peer %d failed", id)
	}
	return nil
}

// Recv reads a single chunk of up to 1024 bytes from peer id. There is no
// message framing: a logical message longer than the buffer arrives in
// multiple Recv calls, and callers that need whole messages must frame
// them above this layer.
func (s *Session) Recv(id int) ([]byte, error) {
	conn := s.sockets[id]
	if conn == nil {
		return nil, nil
	}
	buf := make([]byte, recvBufferSize)
	conn.SetReadDeadline(time.Now().Add(ioDeadline))
	defer conn.SetReadDeadline(time.Time{})
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "session: recv from peer %d failed", id)
	}
	return buf[:n], nil
}

// Broadcast sends data to every connected peer concurrently, aggregating
// any per-socket failures into a single error.
func (s *Session) Broadcast(data []byte) error {
	errCh := make(chan error, len(s.sockets))
	for i := range s.sockets {
		i := i
		go func() {
			errCh <- s.Send(i, data)
		}()
	}
	var errs error
	for range s.sockets {
		if err := <-errCh; err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

// Close tears down every established connection.
func (s *Session) Close() error {
	var errs error
	for _, conn := range s.sockets {
		if conn == nil {
			continue
		}
		if err := conn.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

// Party wraps a Session with the id of its owning peer, exposing the
// same send/recv/broadcast/upload/download surface the original
// multi-party abstraction does.
type Party struct {
	id      int
	session *Session
}

// NewParty dials and accepts the full N-peer mesh for id, blocking until
// construction completes or ConstructionTimeout elapses.
func NewParty(id int, peers []net.Addr) (*Party, error) {
	sess, err := New(id, peers)
	if err != nil {
		return nil, err
	}
	return &Party{id: id, session: sess}, nil
}

// ID returns this party's own id within the mesh.
func (p *Party) ID() int { return p.id }

// Send sends msg to peer id.
func (p *Party) Send(id int, msg []byte) error {
	return p.session.Send(id, msg)
}

// Recv receives a chunk of data from peer id.
func (p *Party) Recv(id int) ([]byte, error) {
	return p.session.Recv(id)
}

// Broadcast sends msg to every peer.
func (p *Party) Broadcast(msg []byte) error {
	return p.session.Broadcast(msg)
}

// Upload sends msg to the designated server peer (id 0).
func (p *Party) Upload(msg []byte) error {
	return p.session.Send(0, msg)
}

// Download receives a chunk of data from the designated server peer (id 0).
func (p *Party) Download() ([]byte, error) {
	return p.session.Recv(0)
}

// Close tears down the party's mesh connections.
func (p *Party) Close() error {
	return p.session.Close()
}

// TwoParty is a Party specialized to exactly two peers, exposing the
// push/pull shorthand for "the other peer".
type TwoParty struct {
	*Party
}

// NewTwoParty builds a two-peer session. len(peers) must be 2.
func NewTwoParty(id int, peers []net.Addr) (*TwoParty, error) {
	if len(peers) != 2 {
		panic(errors.Errorf("session: NewTwoParty requires exactly 2 peers, got %d", len(peers)))
	}
	party, err := NewParty(id, peers)
	if err != nil {
		return nil, err
	}
	return &TwoParty{Party: party}, nil
}

// other returns the id of the non-self peer in a two-party mesh.
func (tp *TwoParty) other() int {
	return 1 ^ tp.id
}

// Push sends msg to the other party.
func (tp *TwoParty) Push(msg []byte) error {
	return tp.Send(tp.other(), msg)
}

// Pull receives a chunk of data from the other party.
func (tp *TwoParty) Pull() ([]byte, error) {
	return tp.Recv(tp.other())
}
