package transport

import "github.com/dreamware/paramserver/internal/wire"

// ResponseClass is the sentinel message class carried by a response frame.
// No real handler is ever registered under it; seeing it on the read loop
// is what tells serveConn to treat the frame as a reply rather than a new
// request.
const ResponseClass int32 = -1

// meta is the fixed-shape header carried alongside every message's content
// frame: which message this is, what kind of message it is, and who sent
// it.
type meta struct {
	messageID    uint64
	messageClass int32
	fromID       int32
}

func (m meta) encode() []byte {
	b := &wire.Buffer{}
	b.PutUint64(m.messageID)
	b.PutInt32(m.messageClass)
	b.PutInt32(m.fromID)
	return b.Bytes()
}

func decodeMeta(raw []byte) meta {
	b := wire.NewBuffer(raw)
	return meta{
		messageID:    b.GetUint64(),
		messageClass: b.GetInt32(),
		fromID:       b.GetInt32(),
	}
}
