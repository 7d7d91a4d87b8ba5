package main

import (
	"fmt"
	"net"

	"github.com/voidmarch/simcore/transport"
)

// dialOrListen establishes the TCPPort for a two-peer match: exactly one of
// listenAddr/dialAddr is non-empty. The host (listenAddr set) is always
// PeerID 1 and accepts one connection from PeerID 2; the joiner (dialAddr
// set) dials that address and is PeerID 2. A larger match topology (>2
// peers, a relay server) is out of scope for this entrypoint — TCPPort
// itself supports N peers, but the handshake to assign ids beyond a fixed
// two-player convention isn't built here.
func dialOrListen(listenAddr, dialAddr string) (transport.Port, error) {
	port := transport.NewTCPPort()

	switch {
	case listenAddr != "":
		ln, err := net.Listen("tcp", listenAddr)
		if err != nil {
			return nil, fmt.Errorf("listen %s: %w", listenAddr, err)
		}
		conn, err := ln.Accept()
		ln.Close()
		if err != nil {
			return nil, fmt.Errorf("accept on %s: %w", listenAddr, err)
		}
		port.AddConnection(2, conn)
		return port, nil

	case dialAddr != "":
		conn, err := net.Dial("tcp", dialAddr)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", dialAddr, err)
		}
		port.AddConnection(1, conn)
		return port, nil

	default:
		return nil, fmt.Errorf("multiplayer match requires --listen or --dial")
	}
}
