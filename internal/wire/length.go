package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

type lengthFramer struct{}

func (lengthFramer) NewReader(r io.Reader, bufSize int) Reader {
	if bufSize < 16 {
		bufSize = DefaultBufferSize
	}
	return &lengthReader{br: bufio.NewReaderSize(r, bufSize)}
}

// Encode prefixes text with its length as a 4-byte big-endian integer.
func (lengthFramer) Encode(text string) []byte {
	out := make([]byte, 4+len(text))
	binary.BigEndian.PutUint32(out[:4], uint32(len(text)))
	copy(out[4:], text)
	return out
}

type lengthReader struct {
	br *bufio.Reader
}

func (lr *lengthReader) ReadMessage() (string, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(lr.br, lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > MaxMessageSize {
		return "", fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, n)
	}
	msg := make([]byte, n)
	if _, err := io.ReadFull(lr.br, msg); err != nil {
		return "", err
	}
	return string(msg), nil
}
