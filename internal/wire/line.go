package wire

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

type lineFramer struct{}

func (lineFramer) NewReader(r io.Reader, bufSize int) Reader {
	if bufSize < 16 {
		bufSize = DefaultBufferSize
	}
	return &lineReader{br: bufio.NewReaderSize(r, bufSize)}
}

func (lineFramer) Encode(text string) []byte { return []byte(text + "\n") }

type lineReader struct {
	br *bufio.Reader
}

func (lr *lineReader) ReadMessage() (string, error) {
	var sb strings.Builder
	for {
		chunk, err := lr.br.ReadSlice('\n')
		if sb.Len()+len(chunk) > MaxMessageSize+1 {
			return "", ErrMessageTooLarge
		}
		sb.Write(chunk)
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		// An unterminated tail before EOF is dropped: the sender never
		// finished the line.
		return "", err
	}
	line := strings.TrimSuffix(sb.String(), "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
