package stream

import (
	"compress/zlib"
	"fmt"
	"io"
)

// ZStream exposes the DEFLATE (zlib) compressed region of a stream as a
// strictly sequential read. The compressed cursor cannot seek or report its
// position; callers advance past unwanted data by reading and discarding it.
type ZStream struct {
	zr io.ReadCloser
}

// NewZStream starts decompressing from the current position of s.
func NewZStream(s Stream) (*ZStream, error) {
	zr, err := zlib.NewReader(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	return &ZStream{zr: zr}, nil
}

func (z *ZStream) Read(p []byte) (int, error) {
	n, err := z.zr.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	return n, err
}

// Seek always fails: the inflated view has no random access.
func (z *ZStream) Seek(offset int64, whence int) (int64, error) {
	return 0, ErrUnsupported
}

// Tell always fails for the same reason Seek does.
func (z *ZStream) Tell() (int64, error) {
	return 0, ErrUnsupported
}

// Close releases the decompressor. The underlying stream stays open.
func (z *ZStream) Close() error {
	return z.zr.Close()
}

// ZWriter is the write side of ZStream: sequential writes are compressed
// and appended to the underlying writer.
type ZWriter struct {
	zw *zlib.Writer
}

// NewZWriter starts a compressed region at the current position of w.
func NewZWriter(w io.Writer) *ZWriter {
	return &ZWriter{zw: zlib.NewWriter(w)}
}

func (z *ZWriter) Write(p []byte) (int, error) {
	return z.zw.Write(p)
}

// Close flushes the compressor and terminates the region.
func (z *ZWriter) Close() error {
	return z.zw.Close()
}
