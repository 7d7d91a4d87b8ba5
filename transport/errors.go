package transport

import "fmt"

func errUnknownPeer(id PeerID) error {
	return fmt.Errorf("transport: unknown peer %d", id)
}

func errSendQueueFull(id PeerID) error {
	return fmt.Errorf("transport: send queue full for peer %d", id)
}
