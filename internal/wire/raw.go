package wire

import (
	"bytes"
	"io"
)

type rawFramer struct{}

func (rawFramer) NewReader(r io.Reader, bufSize int) Reader {
	if bufSize < 2 {
		bufSize = DefaultBufferSize
	}
	return &rawReader{r: r, buf: make([]byte, bufSize)}
}

func (rawFramer) Encode(text string) []byte { return []byte(text) }

type rawReader struct {
	r   io.Reader
	buf []byte
}

// ReadMessage performs exactly one read. A zero-length read counts as the
// peer going away. The text stops at the first NUL byte.
func (rr *rawReader) ReadMessage() (string, error) {
	n, err := rr.r.Read(rr.buf[:len(rr.buf)-1])
	if n <= 0 {
		if err == nil {
			err = io.EOF
		}
		return "", err
	}
	msg := rr.buf[:n]
	if i := bytes.IndexByte(msg, 0); i >= 0 {
		msg = msg[:i]
	}
	// Data that arrived together with an error is still a message; the
	// error will be seen again on the next read.
	return string(msg), nil
}
