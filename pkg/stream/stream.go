// Package stream provides little-endian byte streams for serialized mesh
// archives. The outer container is random access; the compressed region of
// each sub-mesh is exposed separately by ZStream, which is read-only-forward.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Stream errors.
var (
	ErrUnsupported   = errors.New("operation not supported by this stream")
	ErrTruncated     = errors.New("stream ended before expected field")
	ErrDecompression = errors.New("malformed compressed region")
)

// Stream is a seekable byte stream over raw archive bytes.
type Stream interface {
	io.Reader
	io.Seeker

	// Size returns the total length of the stream in bytes.
	Size() (int64, error)
}

// FileStream is a file-backed Stream.
type FileStream struct {
	file *os.File
	size int64
}

// OpenFile opens a file as a read-only Stream.
func OpenFile(path string) (*FileStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	return &FileStream{file: f, size: info.Size()}, nil
}

func (s *FileStream) Read(p []byte) (int, error) {
	return s.file.Read(p)
}

func (s *FileStream) Seek(offset int64, whence int) (int64, error) {
	return s.file.Seek(offset, whence)
}

// Size returns the file length in bytes.
func (s *FileStream) Size() (int64, error) {
	return s.size, nil
}

// Close closes the underlying file.
func (s *FileStream) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// MemStream is an in-memory Stream. The zero value is an empty stream ready
// for writing; writes past the end grow the buffer.
type MemStream struct {
	buf []byte
	pos int64
}

// NewMemStream returns a Stream reading from data.
func NewMemStream(data []byte) *MemStream {
	return &MemStream{buf: data}
}

func (s *MemStream) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.buf)) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *MemStream) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.buf)) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	copy(s.buf[s.pos:], p)
	s.pos = end
	return len(p), nil
}

func (s *MemStream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		abs = int64(len(s.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("negative stream position %d", abs)
	}
	s.pos = abs
	return abs, nil
}

// Size returns the buffer length in bytes.
func (s *MemStream) Size() (int64, error) {
	return int64(len(s.buf)), nil
}

// Bytes returns the underlying buffer.
func (s *MemStream) Bytes() []byte {
	return s.buf
}

// Typed little-endian reads. All short reads surface as ErrTruncated so a
// mid-field EOF is distinguishable from ordinary I/O failure.

// ReadUint16 reads a little-endian uint16.
func ReadUint16(r io.Reader) (uint16, error) {
	var v uint16
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, truncated(err)
	}
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func ReadUint32(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, truncated(err)
	}
	return v, nil
}

// ReadUint64 reads a little-endian uint64.
func ReadUint64(r io.Reader) (uint64, error) {
	var v uint64
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, truncated(err)
	}
	return v, nil
}

// ReadCString reads bytes until a NUL terminator and returns them as a
// string. Hitting end-of-stream before the terminator is an error.
func ReadCString(r io.Reader) (string, error) {
	var out []byte
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return "", truncated(err)
		}
		if b[0] == 0 {
			return string(out), nil
		}
		out = append(out, b[0])
	}
}

// ReadFull fills p or fails with ErrTruncated.
func ReadFull(r io.Reader, p []byte) error {
	if _, err := io.ReadFull(r, p); err != nil {
		return truncated(err)
	}
	return nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}
