package serialized

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Faultbox/serialmesh/pkg/stream"
)

// readVectors reads count vectors of dim elements from r in the file's
// declared precision (float64 when doublePrec, else float32), converts each
// element to working precision, and stores vector i at dst[i*stride+offset].
// Narrowing conversion is unchecked; precision loss is accepted.
func readVectors(r io.Reader, doublePrec bool, count, dim int, offset, stride int, dst []byte) error {
	elemWidth := 4
	if doublePrec {
		elemWidth = 8
	}

	raw := make([]byte, count*dim*elemWidth)
	if err := stream.ReadFull(r, raw); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		src := raw[i*dim*elemWidth:]
		out := dst[i*stride+offset:]
		for d := 0; d < dim; d++ {
			var v float32
			if doublePrec {
				v = float32(math.Float64frombits(binary.LittleEndian.Uint64(src[d*8:])))
			} else {
				v = math.Float32frombits(binary.LittleEndian.Uint32(src[d*4:]))
			}
			binary.LittleEndian.PutUint32(out[d*4:], math.Float32bits(v))
		}
	}
	return nil
}

// skipVectors consumes exactly the bytes readVectors would for the same
// count, dim and precision, discarding them. The compressed cursor cannot
// seek, so advancing past an unwanted field means reading it.
func skipVectors(r io.Reader, doublePrec bool, count, dim int) error {
	elemWidth := 4
	if doublePrec {
		elemWidth = 8
	}

	n := int64(count) * int64(dim) * int64(elemWidth)
	if _, err := io.CopyN(io.Discard, r, n); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %v", stream.ErrTruncated, err)
		}
		return err
	}
	return nil
}
