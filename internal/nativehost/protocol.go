// Package nativehost speaks the browser native messaging protocol: each
// message is a 4-byte little-endian length followed by that many bytes of
// JSON. The extension's background script sends every cookie and CSP
// decision it needs through this channel.
package nativehost

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize is the largest message a browser accepts from a host.
const MaxMessageSize = 1 << 20

// ErrResponseTooLarge replaces a result that would not fit in one message.
var ErrResponseTooLarge = errors.New("response too large")

// Request is one call from the extension. ID correlates the response.
type Request struct {
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Message json.RawMessage `json:"message,omitempty"`
}

// Response answers a Request. Error is set when Ok is false.
type Response struct {
	ID     int    `json:"id"`
	Ok     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`
}

// ReadMessage reads one length-prefixed message.
func ReadMessage(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if length > MaxMessageSize {
		return nil, fmt.Errorf("message too large: %d bytes (max %d)", length, MaxMessageSize)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteMessage writes msg with its length prefix.
func WriteMessage(w io.Writer, msg []byte) error {
	if len(msg) > MaxMessageSize {
		return fmt.Errorf("message too large: %d bytes (max %d)", len(msg), MaxMessageSize)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(msg))); err != nil {
		return err
	}
	_, err := w.Write(msg)
	return err
}

// ParseRequest decodes a message body into a Request.
func ParseRequest(b []byte) (*Request, error) {
	var r Request
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MakeSuccessResponse encodes result as the answer to request id.
func MakeSuccessResponse(id int, result any) []byte {
	b, err := json.Marshal(Response{ID: id, Ok: true, Result: result})
	if err != nil {
		return MakeErrorResponse(id, fmt.Errorf("encode result: %w", err))
	}
	return b
}

// MakeErrorResponse encodes err as the failed answer to request id.
func MakeErrorResponse(id int, err error) []byte {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	b, _ := json.Marshal(Response{ID: id, Error: msg})
	return b
}
