package transport

import (
	"bufio"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"
)

// TCPPort is a reliable-ordered Port over plain TCP, grounded on the same
// length-prefixed framing a raw-socket peer-to-peer protocol uses: one
// read loop and one write loop per connection, a bounded send queue, and a
// single close path shared by both loops.
type TCPPort struct {
	mu      sync.RWMutex
	peers   map[PeerID]*tcpPeer
	handlers map[int]Handler
	nextTok int

	group  *errgroup.Group
	closed bool
}

type tcpPeer struct {
	id     PeerID
	conn   net.Conn
	writer *bufio.Writer
	sendCh chan Envelope
	done   chan struct{}
	once   sync.Once
}

func NewTCPPort() *TCPPort {
	return &TCPPort{
		peers:    make(map[PeerID]*tcpPeer),
		handlers: make(map[int]Handler),
		group:    &errgroup.Group{},
	}
}

// AddConnection registers an established net.Conn under id and starts its
// read/write loops. The caller (a listener's accept loop, or a dialer)
// owns connection setup; TCPPort owns only the framed message exchange.
func (t *TCPPort) AddConnection(id PeerID, conn net.Conn) {
	peer := &tcpPeer{
		id:     id,
		conn:   conn,
		writer: bufio.NewWriterSize(conn, 32*1024),
		sendCh: make(chan Envelope, 256),
		done:   make(chan struct{}),
	}

	t.mu.Lock()
	t.peers[id] = peer
	t.mu.Unlock()

	t.group.Go(func() error { t.readLoop(peer); return nil })
	t.group.Go(func() error { t.writeLoop(peer); return nil })
}

func (t *TCPPort) readLoop(p *tcpPeer) {
	defer t.disconnect(p)
	reader := bufio.NewReaderSize(p.conn, 32*1024)
	for {
		env, err := decode(reader)
		if err != nil {
			return
		}
		env.From = p.id
		t.dispatch(env)
	}
}

func (t *TCPPort) writeLoop(p *tcpPeer) {
	defer t.disconnect(p)
	for {
		select {
		case <-p.done:
			return
		case env := <-p.sendCh:
			msgType, body, err := bodyOf(env)
			if err != nil {
				continue
			}
			if err := encode(p.writer, msgType, body); err != nil {
				return
			}
			if err := p.writer.Flush(); err != nil {
				return
			}
		}
	}
}

func (t *TCPPort) disconnect(p *tcpPeer) {
	p.once.Do(func() {
		close(p.done)
		p.conn.Close()
	})
	t.mu.Lock()
	delete(t.peers, p.id)
	t.mu.Unlock()
}

func (t *TCPPort) dispatch(env Envelope) {
	t.mu.RLock()
	handlers := make([]Handler, 0, len(t.handlers))
	for _, h := range t.handlers {
		handlers = append(handlers, h)
	}
	t.mu.RUnlock()
	for _, h := range handlers {
		h(env)
	}
}

func (t *TCPPort) Send(to PeerID, env Envelope) error {
	t.mu.RLock()
	p, ok := t.peers[to]
	t.mu.RUnlock()
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

func (t *TCPPort) Broadcast(env Envelope) error {
	t.mu.RLock()
	targets := make([]*tcpPeer, 0, len(t.peers))
	for _, p := range t.peers {
		targets = append(targets, p)
	}
	t.mu.RUnlock()

	for _, p := range targets {
		select {
		case p.sendCh <- env:
		default:
		}
	}
	return nil
}

func (t *TCPPort) RegisterHandler(h Handler) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextTok++
	t.handlers[t.nextTok] = h
	return t.nextTok
}

func (t *TCPPort) UnregisterHandler(token int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.handlers, token)
}

// Close disconnects every peer and waits for their read/write loops to
// exit, using errgroup so shutdown coordination doesn't need a bespoke
// WaitGroup (spec.md §5 "Out-of-tick cancellation ... is cooperative").
func (t *TCPPort) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	peers := make([]*tcpPeer, 0, len(t.peers))
	for _, p := range t.peers {
		peers = append(peers, p)
	}
	t.mu.Unlock()

	for _, p := range peers {
		t.disconnect(p)
	}
	return t.group.Wait()
}
