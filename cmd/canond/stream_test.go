package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/tg"
)

func writeFrame(t *testing.T, w *bytes.Buffer, message tg.MessageClass) {
	t.Helper()

	var buf bin.Buffer
	if err := message.Encode(&buf); err != nil {
		t.Fatalf("encode message: %v", err)
	}

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(buf.Buf)))
	w.Write(header[:])
	w.Write(buf.Buf)
}

func TestFrameReaderRoundTrip(t *testing.T) {
	t.Parallel()

	var stream bytes.Buffer
	for _, id := range []int{11, 12, 13} {
		writeFrame(t, &stream, &tg.Message{
			ID:      id,
			PeerID:  &tg.PeerChat{ChatID: 100},
			Date:    1_700_000_000,
			Message: "frame",
		})
	}

	reader := newFrameReader(&stream)
	for _, want := range []int{11, 12, 13} {
		message, err := reader.Next()
		if err != nil {
			t.Fatalf("Next() returned error: %v", err)
		}
		typed, ok := message.(*tg.Message)
		if !ok {
			t.Fatalf("Next() returned %T, want *tg.Message", message)
		}
		if typed.ID != want {
			t.Errorf("decoded message id = %d, want %d", typed.ID, want)
		}
	}

	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() at end of stream = %v, want io.EOF", err)
	}
}

func TestFrameReaderInvalidSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size uint32
	}{
		{name: "zero length frame", size: 0},
		{name: "oversized frame", size: maxFrameSize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stream bytes.Buffer
			var header [4]byte
			binary.LittleEndian.PutUint32(header[:], tt.size)
			stream.Write(header[:])

			if _, err := newFrameReader(&stream).Next(); err == nil {
				t.Error("Next() accepted an invalid frame size")
			}
		})
	}
}

func TestFrameReaderTruncatedPayload(t *testing.T) {
	t.Parallel()

	var stream bytes.Buffer
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], 64)
	stream.Write(header[:])
	stream.Write([]byte{0x01, 0x02})

	_, err := newFrameReader(&stream).Next()
	if err == nil || errors.Is(err, io.EOF) {
		t.Errorf("Next() on truncated payload = %v, want a non-EOF error", err)
	}
}
