package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
)

// maxFrameBytes bounds a single frame's length prefix, guarding against a
// corrupt or malicious length field causing an enormous allocation.
const maxFrameBytes = 256 << 20

// frameConn wraps a net.Conn with the lock that makes a meta+content pair
// an atomic unit on the wire: two goroutines writing to the same
// connection at once must never interleave one message's frames with
// another's.
type frameConn struct {
	nc      net.Conn
	writeMu sync.Mutex
}

func newFrameConn(nc net.Conn) *frameConn {
	return &frameConn{nc: nc}
}

// writeFrame writes metaBytes and contentBytes as two length-prefixed
// frames, back to back, under the connection's write lock.
func (c *frameConn) writeFrame(metaBytes, contentBytes []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := writeLenPrefixed(c.nc, metaBytes); err != nil {
		return fmt.Errorf("transport: write meta frame: %w", err)
	}
	if err := writeLenPrefixed(c.nc, contentBytes); err != nil {
		return fmt.Errorf("transport: write content frame: %w", err)
	}
	return nil
}

// readFrame blocks until the connection's next meta+content frame pair has
// arrived in full.
func readFrame(nc net.Conn) (metaBytes, contentBytes []byte, err error) {
	metaBytes, err = readLenPrefixed(nc)
	if err != nil {
		return nil, nil, err
	}
	contentBytes, err = readLenPrefixed(nc)
	if err != nil {
		return nil, nil, fmt.Errorf("transport: read content frame: %w", err)
	}
	return metaBytes, contentBytes, nil
}

func writeLenPrefixed(w io.Writer, data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	_, err := w.Write(data)
	return err
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameBytes {
		return nil, fmt.Errorf("transport: frame length %d exceeds max %d", n, maxFrameBytes)
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
