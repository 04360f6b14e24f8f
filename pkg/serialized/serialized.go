// Package serialized reads and writes compressed binary mesh archives.
//
// An archive is one or more sub-meshes concatenated in a single stream, each
// a small uncompressed header followed by a zlib DEFLATE region holding the
// vertex and face data, with a trailing dictionary mapping sub-mesh number
// to byte offset. Random access happens only on the outer stream; once the
// compressed region is entered, reading is strictly sequential.
//
// Each decode is self-contained: no state is shared between sub-mesh
// decodes, so independent callers may decode concurrently as long as each
// uses its own stream handle.
package serialized

import "errors"

// File format constants.
const (
	Magic     uint16 = 0x041C
	VersionV3 uint16 = 0x0003
	VersionV4 uint16 = 0x0004
)

// Format errors.
var (
	ErrBadMagic             = errors.New("invalid mesh archive magic")
	ErrUnsupportedVersion   = errors.New("unsupported mesh archive version")
	ErrShapeIndexOutOfRange = errors.New("shape index out of range")
)

// Flags describes which optional per-vertex attributes a sub-mesh record
// carries and the on-disk precision of its floating arrays.
type Flags uint32

const (
	HasNormals   Flags = 0x0001
	HasTexcoords Flags = 0x0002
	HasTangents  Flags = 0x0004 // reserved, never set
	HasColors    Flags = 0x0008
	FaceNormals  Flags = 0x0010

	SinglePrecision Flags = 0x1000
	DoublePrecision Flags = 0x2000
)

// Has reports whether all bits in f are set.
func (f Flags) Has(bits Flags) bool {
	return f&bits == bits
}

// String returns a compact attribute summary, e.g. "normals|texcoords|f32".
func (f Flags) String() string {
	var out string
	add := func(s string) {
		if out != "" {
			out += "|"
		}
		out += s
	}
	if f.Has(HasNormals) {
		add("normals")
	}
	if f.Has(HasTexcoords) {
		add("texcoords")
	}
	if f.Has(HasColors) {
		add("colors")
	}
	if f.Has(FaceNormals) {
		add("face-normals")
	}
	if f.Has(DoublePrecision) {
		add("f64")
	} else if f.Has(SinglePrecision) {
		add("f32")
	}
	if out == "" {
		out = "none"
	}
	return out
}
