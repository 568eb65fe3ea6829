package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/tg"
)

// maxFrameSize bounds one TL frame; anything larger is a corrupt stream, not
// a message.
const maxFrameSize = 16 << 20

// frameReader reads length-prefixed TL-encoded message frames: a uint32
// little-endian payload length followed by the payload.
type frameReader struct {
	r io.Reader
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: r}
}

// Next decodes the next raw message from the stream. io.EOF on a frame
// boundary means the stream ended cleanly.
func (fr *frameReader) Next() (tg.MessageClass, error) {
	var header [4]byte
	if _, err := io.ReadFull(fr.r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	size := binary.LittleEndian.Uint32(header[:])
	if size == 0 || size > maxFrameSize {
		return nil, fmt.Errorf("invalid frame size %d", size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", size, err)
	}

	message, err := tg.DecodeMessage(&bin.Buffer{Buf: payload})
	if err != nil {
		return nil, fmt.Errorf("decode message frame: %w", err)
	}

	return message, nil
}
