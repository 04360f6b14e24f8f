package serialized

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Faultbox/serialmesh/pkg/stream"
)

func packFloats(double bool, values ...float64) []byte {
	var buf bytes.Buffer
	for _, v := range values {
		if double {
			binary.Write(&buf, binary.LittleEndian, v)
		} else {
			binary.Write(&buf, binary.LittleEndian, float32(v))
		}
	}
	return buf.Bytes()
}

func TestReadVectorsStridedStore(t *testing.T) {
	// Two 3-vectors into records with a 16-byte stride at offset 4.
	raw := packFloats(false, 1, 2, 3, 4, 5, 6)
	dst := make([]byte, 2*16)

	if err := readVectors(bytes.NewReader(raw), false, 2, 3, 4, 16, dst); err != nil {
		t.Fatalf("readVectors failed: %v", err)
	}

	want := [][3]float32{{1, 2, 3}, {4, 5, 6}}
	for i, w := range want {
		for d := 0; d < 3; d++ {
			got := math.Float32frombits(binary.LittleEndian.Uint32(dst[i*16+4+d*4:]))
			if got != w[d] {
				t.Errorf("vector %d component %d: expected %g, got %g", i, d, w[d], got)
			}
		}
	}

	// Bytes outside the field stay zero.
	if dst[0] != 0 || dst[1] != 0 || dst[2] != 0 || dst[3] != 0 {
		t.Error("bytes before the field offset were written")
	}
}

func TestReadVectorsNarrowsDoubles(t *testing.T) {
	raw := packFloats(true, 0.5, -2.25, 1e10)
	dst := make([]byte, 12)

	if err := readVectors(bytes.NewReader(raw), true, 1, 3, 0, 12, dst); err != nil {
		t.Fatalf("readVectors failed: %v", err)
	}

	want := []float32{0.5, -2.25, float32(1e10)}
	for d, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(dst[d*4:]))
		if got != w {
			t.Errorf("component %d: expected %g, got %g", d, w, got)
		}
	}
}

func TestReadVectorsTruncated(t *testing.T) {
	raw := packFloats(false, 1, 2) // one float short of a 3-vector
	dst := make([]byte, 12)
	err := readVectors(bytes.NewReader(raw), false, 1, 3, 0, 12, dst)
	if !errors.Is(err, stream.ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

// Skip mode must consume exactly the bytes read mode would, so the
// sequential cursor lands on the same subsequent field either way.
func TestSkipMatchesReadConsumption(t *testing.T) {
	const sentinel uint32 = 0xDEADBEEF

	for _, double := range []bool{false, true} {
		name := "single"
		if double {
			name = "double"
		}
		t.Run(name, func(t *testing.T) {
			payload := packFloats(double, 1, 2, 3, 4, 5, 6, 7, 8)
			var buf bytes.Buffer
			buf.Write(payload)
			binary.Write(&buf, binary.LittleEndian, sentinel)

			// Read path
			readSide := bytes.NewReader(buf.Bytes())
			dst := make([]byte, 4*8)
			if err := readVectors(readSide, double, 4, 2, 0, 8, dst); err != nil {
				t.Fatalf("readVectors failed: %v", err)
			}
			gotRead, err := stream.ReadUint32(readSide)
			if err != nil {
				t.Fatalf("reading sentinel after read: %v", err)
			}

			// Skip path
			skipSide := bytes.NewReader(buf.Bytes())
			if err := skipVectors(skipSide, double, 4, 2); err != nil {
				t.Fatalf("skipVectors failed: %v", err)
			}
			gotSkip, err := stream.ReadUint32(skipSide)
			if err != nil {
				t.Fatalf("reading sentinel after skip: %v", err)
			}

			if gotRead != sentinel || gotSkip != sentinel {
				t.Errorf("cursor misaligned: read sentinel %#x, skip sentinel %#x", gotRead, gotSkip)
			}
		})
	}
}

func TestSkipVectorsTruncated(t *testing.T) {
	raw := packFloats(false, 1, 2)
	err := skipVectors(bytes.NewReader(raw), false, 1, 3)
	if !errors.Is(err, stream.ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}
