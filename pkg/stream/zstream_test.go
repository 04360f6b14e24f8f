package stream

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func compress(t *testing.T, payload []byte) []byte {
	t.Helper()
	s := &MemStream{}
	zw := NewZWriter(s)
	if _, err := zw.Write(payload); err != nil {
		t.Fatalf("compress write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("compress close failed: %v", err)
	}
	return s.Bytes()
}

func TestZStreamRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	s := NewMemStream(compress(t, payload))

	z, err := NewZStream(s)
	if err != nil {
		t.Fatalf("NewZStream failed: %v", err)
	}
	defer z.Close()

	got := make([]byte, len(payload))
	if err := ReadFull(z, got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch: %q", got)
	}
}

func TestZStreamNoRandomAccess(t *testing.T) {
	s := NewMemStream(compress(t, []byte("data")))
	z, err := NewZStream(s)
	if err != nil {
		t.Fatalf("NewZStream failed: %v", err)
	}
	defer z.Close()

	if _, err := z.Seek(0, io.SeekStart); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Seek: expected ErrUnsupported, got %v", err)
	}
	if _, err := z.Tell(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Tell: expected ErrUnsupported, got %v", err)
	}
}

func TestZStreamGarbage(t *testing.T) {
	s := NewMemStream([]byte{0xFF, 0xFE, 0xFD, 0xFC, 0xFB})
	if _, err := NewZStream(s); !errors.Is(err, ErrDecompression) {
		t.Errorf("expected ErrDecompression, got %v", err)
	}
}

func TestZStreamTruncated(t *testing.T) {
	full := compress(t, bytes.Repeat([]byte("abcdefgh"), 100))
	s := NewMemStream(full[:len(full)/2])

	z, err := NewZStream(s)
	if err != nil {
		t.Fatalf("NewZStream failed: %v", err)
	}
	defer z.Close()

	if _, err := io.ReadAll(z); err == nil {
		t.Error("expected error reading truncated compressed region")
	}
}

// Reading past the end of the region reports EOF, not a decompression
// failure.
func TestZStreamCleanEOF(t *testing.T) {
	payload := []byte("xyz")
	s := NewMemStream(compress(t, payload))
	z, err := NewZStream(s)
	if err != nil {
		t.Fatalf("NewZStream failed: %v", err)
	}
	defer z.Close()

	got, err := io.ReadAll(z)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: %q", got)
	}
}
