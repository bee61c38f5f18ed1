// Package wire turns a byte stream into text messages.
//
// Raw mode reproduces the classic behaviour of treating whatever a single
// read returns as one message. TCP has no message boundaries, so a raw read
// can hold part of a message or several glued together; it is only reliable
// for small interactive payloads. Line and Length modes frame explicitly and
// must be used on both ends.
package wire

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultBufferSize is the raw read buffer. One byte is reserved, so a
// single raw message carries at most DefaultBufferSize-1 bytes.
const DefaultBufferSize = 1024

// MaxMessageSize bounds Line and Length frames.
const MaxMessageSize = 1 << 20

var ErrMessageTooLarge = errors.New("message too large")

type Mode int

const (
	Raw Mode = iota
	Line
	Length
)

var modeName = map[Mode]string{
	Raw:    "raw",
	Line:   "line",
	Length: "length",
}

func (m Mode) String() string {
	if s, ok := modeName[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts the names printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeName {
		if name == s {
			return m, nil
		}
	}
	return Raw, fmt.Errorf("unknown framing %q (want raw, line or length)", s)
}

// Reader yields one message per call. It is bound to a single stream and is
// not safe for concurrent use.
type Reader interface {
	ReadMessage() (string, error)
}

// Framer builds readers and encodes outgoing text for one mode.
type Framer interface {
	NewReader(r io.Reader, bufSize int) Reader
	Encode(text string) []byte
}

// For returns the framer for m.
func For(m Mode) Framer {
	switch m {
	case Line:
		return lineFramer{}
	case Length:
		return lengthFramer{}
	default:
		return rawFramer{}
	}
}
