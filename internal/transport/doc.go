// Package transport implements the duplex message channel servers and
// workers use to exchange pull/push requests and their responses: framing,
// correlation, message-class dispatch, and an asynchronous handler pool,
// all running over plain TCP connections dialed once per destination and
// reused for the life of the process.
//
// # Overview
//
// A Transport is the single point of contact between one node and the
// rest of the cluster. It does not know anything about keys, shards, or
// gradients — it knows only how to get a typed byte payload from a caller
// on one node to a registered handler on another, and how to get that
// handler's answer back to the caller that is blocked waiting for it.
// Everything above this package (table, access, cache, pull, push) is
// built by registering a message class and a Handler and then calling
// Send; the protocol correctness properties (no response ever lost, no
// two connections' frames ever interleaved) live entirely here.
//
// # Architecture
//
//	┌──────────────────────────────────────────────┐
//	│                  TRANSPORT                     │
//	├──────────────────────────────────────────────┤
//	│                                                │
//	│  ┌───────────────┐       ┌──────────────────┐ │
//	│  │  accept loop   │       │  outboundConn     │ │
//	│  │  (1 per node)  │       │  (1 per dest node)│ │
//	│  └───────┬───────┘       └─────────┬────────┘ │
//	│          │ spawns serveConn          │ dial once │
//	│          ▼                           ▼          │
//	│  ┌──────────────────────────────────────────┐  │
//	│  │         serveConn (1 per connection)       │  │
//	│  │  read meta+content → response or request   │  │
//	│  └───────────────┬────────────────────────────┘  │
//	│                  │                                │
//	│       response?  │  request?                      │
//	│         ┌─────────┴─────────┐                     │
//	│         ▼                   ▼                     │
//	│  ┌─────────────┐     ┌─────────────────┐          │
//	│  │ correlation  │     │ handler table    │          │
//	│  │ table        │     │ (class → Handler)│          │
//	│  │ (msgID→chan) │     └────────┬─────────┘          │
//	│  └─────────────┘              ▼                     │
//	│                        ┌──────────────┐             │
//	│                        │ worker pool   │             │
//	│                        │ (size N)      │             │
//	│                        └──────────────┘             │
//	└──────────────────────────────────────────────┘
//
// # Wire Format
//
// Every message is two length-prefixed frames written back to back under
// one connection-level write lock, so the pair is atomic with respect to
// any other goroutine sending on the same connection:
//
//	[4-byte big-endian length][meta bytes][4-byte big-endian length][content bytes]
//
// The meta frame is fixed shape (message id, message class, sender id),
// encoded with internal/wire in the sender's native layout; the content
// frame is an opaque payload a registered Handler or pull/push codec
// interprets. A message class of ResponseClass marks the second frame as
// a reply rather than a new request; every other class is resolved
// through the handler table.
//
// # Concurrency Model
//
// Three kinds of goroutine touch a Transport concurrently:
//
// Accept loop (one per Transport):
//   - Owns the listener; spawns one serveConn goroutine per inbound
//     connection and returns immediately, never blocking on traffic.
//
// Connection read loops (one per connection, inbound or outbound):
//   - Single-threaded per connection: reads one meta+content pair at a
//     time and decides, by message class, whether to deliver a response
//     or dispatch a request — never interprets two frames concurrently
//     on the same connection.
//   - A request is handed to the worker pool and the read loop moves on
//     to the next frame without waiting for the handler to finish, so a
//     slow handler cannot stall unrelated traffic on the same connection.
//
// Worker pool (size N, shared across every connection):
//   - Runs registered Handlers for inbound requests. Inbound responses do
//     not go through the pool: the read loop hands each one to the waiting
//     Send through that Send's buffered channel, so delivery never blocks
//     on a slow or absent receiver.
//   - Bounded by a fixed task queue; submit blocks once every worker is
//     busy and the queue is full, the transport's only backpressure.
//
// Locks:
//   - handlersMu (RWMutex): read-heavy after Start, written only during
//     RegisterHandler at bootstrap.
//   - pendingMu (Mutex): the correlation table, written on every Send and
//     every response delivery.
//   - outMu (Mutex): guards the outbound-connection map during dial.
//   - Each connection's own writeMu serializes the two-part frame write,
//     the property that makes Send from many goroutines to the same
//     destination safe without any frame ever observing a half-written
//     pair from another sender.
//
// # Failure Semantics
//
// Socket errors do not abort the process: a read loop that fails closes
// its connection and returns, a failed dial or request write is returned
// as an error from Send, and a failed response write is logged as a
// warning. An unknown message class or a response for an unregistered
// message id calls Fatalf and aborts the process. Stop requires the
// correlation table to be empty — every Send must have seen its response
// — before it will tear down listeners and connections; an outstanding
// callback at shutdown is the same class of fatal protocol error, not a
// condition to silently absorb.
//
// # Limitations and Future Work
//
//   - One TCP connection per ordered (caller, callee) pair: there is no
//     connection pooling or multiplexing beyond the single persistent
//     connection each direction already reuses.
//   - No reconnect-on-failure: an outbound connection whose read loop has
//     failed stays in the connection map and is never re-dialed, so every
//     later Send to that node fails with the write error; there is no
//     retry surface here for a peer that restarts.
//   - No flow control beyond the worker pool's bounded queue; a caller
//     that floods Send faster than handlers drain simply blocks on send
//     itself once outbound buffers fill.
//
// # See Also
//
// Related packages:
//   - internal/route: resolves a node id to the address and send lock
//     Send and outboundConn use.
//   - internal/pull, internal/push: the two concrete message classes and
//     barrier semantics built on top of Send/RegisterHandler.
//   - internal/wire: the primitive encode/decode every meta and content
//     frame is built from.
package transport
