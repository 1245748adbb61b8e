package control

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

const maxFrameBytes = 4 << 20 // 4 MiB, generous for a JSON control message

// Conn frames Messages onto an io.ReadWriter as a 4-byte big-endian length
// prefix followed by a JSON-encoded Message body.
type Conn struct {
	rw io.ReadWriter
}

// NewConn wraps rw (typically a net.Conn) for framed Message exchange.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{rw: rw}
}

// WriteMessage frames and writes msg.
func (c *Conn) WriteMessage(msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if len(body) > maxFrameBytes {
		return fmt.Errorf("message too large: %d bytes", len(body))
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := c.rw.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err = c.rw.Write(body)
	return err
}

// ReadMessage blocks until a full framed Message has been read.
func (c *Conn) ReadMessage() (Message, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(c.rw, lenBuf[:]); err != nil {
		return Message{}, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameBytes {
		return Message{}, fmt.Errorf("frame too large: %d bytes", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(c.rw, body); err != nil {
		return Message{}, err
	}
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return msg, nil
}

// Encode marshals a typed payload into a Message of the given kind.
func Encode(kind Kind, payload interface{}) Message {
	if payload == nil {
		return Message{Kind: kind}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{Kind: KindBadRequest}
	}
	return Message{Kind: kind, Payload: raw}
}

// Decode unmarshals msg's payload into out.
func Decode(msg Message, out interface{}) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("control: empty payload for %s", msg.Kind)
	}
	return json.Unmarshal(msg.Payload, out)
}
