package transport

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Tuning mirrors the ping/pong discipline of a long-lived websocket server
// (spec.md §6's transport only requires reliable, ordered, exactly-once
// delivery; ping/pong is how a WebSocket implementation of that contract
// detects a dead peer instead of blocking a write forever).
const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// WSPort is a Port backed by gorilla/websocket connections, suited to a
// browser-facing spectator or a peer behind NAT traversal where raw TCP
// isn't available.
type WSPort struct {
	mu       sync.RWMutex
	peers    map[PeerID]*wsPeer
	handlers map[int]Handler
	nextTok  int
}

type wsPeer struct {
	id     PeerID
	conn   *websocket.Conn
	sendCh chan Envelope
	done   chan struct{}
	once   sync.Once
}

func NewWSPort() *WSPort {
	return &WSPort{
		peers:    make(map[PeerID]*wsPeer),
		handlers: make(map[int]Handler),
	}
}

// AddConnection registers an already-upgraded *websocket.Conn under id and
// starts its read/write pumps.
func (w *WSPort) AddConnection(id PeerID, conn *websocket.Conn) {
	peer := &wsPeer{
		id:     id,
		conn:   conn,
		sendCh: make(chan Envelope, 256),
		done:   make(chan struct{}),
	}
	w.mu.Lock()
	w.peers[id] = peer
	w.mu.Unlock()

	conn.SetReadLimit(maxPayloadSize)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	go w.readPump(peer)
	go w.writePump(peer)
}

func (w *WSPort) readPump(p *wsPeer) {
	defer w.disconnect(p)
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		env, err := decodeWSFrame(data)
		if err != nil {
			continue
		}
		env.From = p.id
		w.dispatch(env)
	}
}

func (w *WSPort) writePump(p *wsPeer) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		w.disconnect(p)
	}()

	for {
		select {
		case <-p.done:
			return
		case env := <-p.sendCh:
			frame, err := encodeWSFrame(env)
			if err != nil {
				continue
			}
			p.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := p.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (w *WSPort) disconnect(p *wsPeer) {
	p.once.Do(func() {
		close(p.done)
		p.conn.Close()
	})
	w.mu.Lock()
	delete(w.peers, p.id)
	w.mu.Unlock()
}

func (w *WSPort) dispatch(env Envelope) {
	w.mu.RLock()
	handlers := make([]Handler, 0, len(w.handlers))
	for _, h := range w.handlers {
		handlers = append(handlers, h)
	}
	w.mu.RUnlock()
	for _, h := range handlers {
		h(env)
	}
}

func (w *WSPort) Send(to PeerID, env Envelope) error {
	w.mu.RLock()
	p, ok := w.peers[to]
	w.mu.RUnlock()
	if !ok {
		return errUnknownPeer(to)
	}
	select {
	case p.sendCh <- env:
		return nil
	default:
		return errSendQueueFull(to)
	}
}

func (w *WSPort) Broadcast(env Envelope) error {
	w.mu.RLock()
	targets := make([]*wsPeer, 0, len(w.peers))
	for _, p := range w.peers {
		targets = append(targets, p)
	}
	w.mu.RUnlock()
	for _, p := range targets {
		select {
		case p.sendCh <- env:
		default:
		}
	}
	return nil
}

func (w *WSPort) RegisterHandler(h Handler) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextTok++
	w.handlers[w.nextTok] = h
	return w.nextTok
}

func (w *WSPort) UnregisterHandler(token int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.handlers, token)
}

func (w *WSPort) Close() error {
	w.mu.Lock()
	peers := make([]*wsPeer, 0, len(w.peers))
	for _, p := range w.peers {
		peers = append(peers, p)
	}
	w.mu.Unlock()
	for _, p := range peers {
		w.disconnect(p)
	}
	return nil
}
