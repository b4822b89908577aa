package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/dreamware/paramserver/internal/hashfrag"
	"github.com/dreamware/paramserver/internal/route"
)

// Handler answers one request's content and returns the response content
// to send back, or nil/empty to send no response at all. Pull and push
// handlers always respond. Send always waits for a response, so a Send
// whose handler returns nil returns only once its ctx is done.
type Handler func(ctx context.Context, payload []byte) []byte

// Transport is the duplex message channel for one node: it accepts
// inbound connections from peers, dials outbound connections to the peers
// it sends to, and dispatches every frame that arrives on either kind of
// connection to either a registered Handler (for a request) or a waiting
// caller (for a response).
type Transport struct {
	selfID     hashfrag.NodeID
	listenAddr string
	rt         *route.Table
	log        logrus.FieldLogger

	handlersMu sync.RWMutex
	handlers   map[int32]Handler

	pendingMu sync.Mutex
	pending   map[uint64]chan []byte

	outMu    sync.Mutex
	outConns map[hashfrag.NodeID]*frameConn

	msgIDCounter uint64

	listener net.Listener
	pool     *pool
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// New builds a Transport for selfID, listening on listenAddr once Start is
// called and resolving destinations against rt. New does not use
// poolSize; the number of goroutines available to run message handlers is
// the poolSize passed to Start.
func New(selfID hashfrag.NodeID, listenAddr string, rt *route.Table, poolSize int, log logrus.FieldLogger) *Transport {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Transport{
		selfID:     selfID,
		listenAddr: listenAddr,
		rt:         rt,
		log:        log,
		handlers:   make(map[int32]Handler),
		pending:    make(map[uint64]chan []byte),
		outConns:   make(map[hashfrag.NodeID]*frameConn),
	}
}

// RegisterHandler associates class with h. Registering the same class
// twice is a programming error, the same stance the rest of this
// codebase's setup-time registration calls take.
func (t *Transport) RegisterHandler(class int32, h Handler) error {
	if class == ResponseClass {
		return fmt.Errorf("transport: message class %d is reserved for responses", ResponseClass)
	}
	t.handlersMu.Lock()
	defer t.handlersMu.Unlock()
	if _, exists := t.handlers[class]; exists {
		return fmt.Errorf("transport: message class %d already registered", class)
	}
	t.handlers[class] = h
	return nil
}

// Start opens the listener and the handler worker pool, then begins
// accepting connections in the background. It returns once the listener
// is bound.
func (t *Transport) Start(ctx context.Context, poolSize int) error {
	ln, err := net.Listen("tcp", t.listenAddr)
	if err != nil {
		return fmt.Errorf("transport: listen %s: %w", t.listenAddr, err)
	}
	t.listener = ln
	t.pool = newPool(ctx, poolSize)

	t.wg.Add(1)
	go t.acceptLoop(ctx)
	return nil
}

// Stop closes the listener, every outbound connection, and the handler
// pool; closing the listener ends Start's background accept loop, which
// then closes every inbound connection it accepted, and Stop waits for
// every connection's read loop to return. It requires that no
// response callback remains outstanding: a correlation table entry left
// behind means some send's response was never delivered, a fatal
// protocol error, not a condition Stop can silently paper over.
func (t *Transport) Stop() {
	if !t.stopped.CompareAndSwap(false, true) {
		return
	}
	t.pendingMu.Lock()
	n := len(t.pending)
	t.pendingMu.Unlock()
	if n != 0 {
		t.log.Fatalf("transport: stop with %d response callback(s) still outstanding", n)
		return
	}
	if t.listener != nil {
		t.listener.Close()
	}
	t.outMu.Lock()
	for _, fc := range t.outConns {
		fc.nc.Close()
	}
	t.outMu.Unlock()
	if t.pool != nil {
		t.pool.stop()
	}
	t.wg.Wait()
}

func (t *Transport) acceptLoop(ctx context.Context) {
	defer t.wg.Done()
	var accepted []*frameConn
	for {
		nc, err := t.listener.Accept()
		if err != nil {
			if t.stopped.Load() {
				for _, fc := range accepted {
					fc.nc.Close()
				}
				return
			}
			t.log.WithError(err).Warn("transport: accept failed")
			return
		}
		fc := newFrameConn(nc)
		accepted = append(accepted, fc)
		t.wg.Add(1)
		go t.serveConn(ctx, fc)
	}
}

// serveConn runs the read loop for one connection, whether it was
// accepted inbound or dialed outbound: both directions of traffic, new
// requests and replies to requests we sent, can arrive on either kind of
// connection once it is open.
func (t *Transport) serveConn(ctx context.Context, fc *frameConn) {
	defer t.wg.Done()
	defer fc.nc.Close()
	for {
		metaBytes, content, err := readFrame(fc.nc)
		if err != nil {
			return
		}
		m := decodeMeta(metaBytes)
		if m.messageClass == ResponseClass {
			t.deliverResponse(m, content)
			continue
		}
		t.dispatchRequest(ctx, fc, m, content)
	}
}

func (t *Transport) deliverResponse(m meta, content []byte) {
	t.pendingMu.Lock()
	ch, ok := t.pending[m.messageID]
	if ok {
		delete(t.pending, m.messageID)
	}
	t.pendingMu.Unlock()

	if !ok {
		t.log.Fatalf("transport: response for unknown message id %d (from node %d)", m.messageID, m.fromID)
		return
	}
	ch <- content
}

func (t *Transport) dispatchRequest(ctx context.Context, fc *frameConn, m meta, content []byte) {
	t.handlersMu.RLock()
	h, ok := t.handlers[m.messageClass]
	t.handlersMu.RUnlock()
	if !ok {
		t.log.Fatalf("transport: no handler registered for message class %d", m.messageClass)
		return
	}

	t.pool.submit(func() {
		respContent := h(ctx, content)
		if len(respContent) == 0 {
			return
		}
		respMeta := meta{messageID: m.messageID, messageClass: ResponseClass, fromID: int32(t.selfID)}
		if err := fc.writeFrame(respMeta.encode(), respContent); err != nil {
			t.log.WithError(err).Warn("transport: failed to write response")
		}
	})
}

// outboundConn returns the persistent connection used to send to id,
// dialing and starting its read loop on first use.
func (t *Transport) outboundConn(ctx context.Context, id hashfrag.NodeID) (*frameConn, error) {
	t.outMu.Lock()
	defer t.outMu.Unlock()

	if fc, ok := t.outConns[id]; ok {
		return fc, nil
	}
	entry, err := t.rt.Entry(id)
	if err != nil {
		return nil, err
	}
	nc, err := net.Dial("tcp", entry.Addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial node %d at %s: %w", id, entry.Addr, err)
	}
	fc := newFrameConn(nc)
	t.outConns[id] = fc
	t.wg.Add(1)
	go t.serveConn(ctx, fc)
	return fc, nil
}

// Send delivers payload as a request of the given message class to node
// toID, under that node's route entry lock, and blocks
// until either its response content arrives or ctx is done. Send is the
// synchronous half of the protocol; pull and push use it once per
// destination node per barrier round.
func (t *Transport) Send(ctx context.Context, toID hashfrag.NodeID, class int32, payload []byte) ([]byte, error) {
	entry, err := t.rt.Entry(toID)
	if err != nil {
		return nil, err
	}

	msgID := atomic.AddUint64(&t.msgIDCounter, 1)
	respCh := make(chan []byte, 1)
	t.pendingMu.Lock()
	t.pending[msgID] = respCh
	t.pendingMu.Unlock()

	m := meta{messageID: msgID, messageClass: class, fromID: int32(t.selfID)}

	entry.Lock()
	fc, dialErr := t.outboundConn(ctx, toID)
	if dialErr == nil {
		dialErr = fc.writeFrame(m.encode(), payload)
	}
	entry.Unlock()

	if dialErr != nil {
		t.pendingMu.Lock()
		delete(t.pending, msgID)
		t.pendingMu.Unlock()
		return nil, dialErr
	}

	select {
	case content := <-respCh:
		return content, nil
	case <-ctx.Done():
		t.pendingMu.Lock()
		delete(t.pending, msgID)
		t.pendingMu.Unlock()
		return nil, ctx.Err()
	}
}
