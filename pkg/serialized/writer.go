package serialized

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/serialmesh/pkg/math"
	"github.com/Faultbox/serialmesh/pkg/stream"
)

// MeshData is the encode-side description of one sub-mesh. Optional
// attribute slices are either empty or exactly len(Positions) long
// (TexCoords and Colors likewise).
type MeshData struct {
	Name      string // written only by version 4 archives
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords [][2]float32
	Colors    []math.Vec3
	Faces     [][3]uint32

	FaceNormalsOnly bool
	DoublePrecision bool // on-disk float width; in-memory data stays float32
}

func (m *MeshData) flags() Flags {
	f := SinglePrecision
	if m.DoublePrecision {
		f = DoublePrecision
	}
	if len(m.Normals) > 0 {
		f |= HasNormals
	}
	if len(m.TexCoords) > 0 {
		f |= HasTexcoords
	}
	if len(m.Colors) > 0 {
		f |= HasColors
	}
	if m.FaceNormalsOnly {
		f |= FaceNormals
	}
	return f
}

func (m *MeshData) validate() error {
	n := len(m.Positions)
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return fmt.Errorf("normal count %d does not match vertex count %d", len(m.Normals), n)
	}
	if len(m.TexCoords) != 0 && len(m.TexCoords) != n {
		return fmt.Errorf("texcoord count %d does not match vertex count %d", len(m.TexCoords), n)
	}
	if len(m.Colors) != 0 && len(m.Colors) != n {
		return fmt.Errorf("color count %d does not match vertex count %d", len(m.Colors), n)
	}
	return nil
}

// MeshWriter appends sub-mesh records to a stream and tracks their start
// offsets. Finalize writes the trailing dictionary; the writer must not be
// used afterwards.
type MeshWriter struct {
	w         *countingWriter
	version   uint16
	offsets   []uint64
	finalized bool
}

// NewMeshWriter starts an archive in the given format version.
func NewMeshWriter(w io.Writer, version uint16) (*MeshWriter, error) {
	if version != VersionV3 && version != VersionV4 {
		return nil, fmt.Errorf("%w: 0x%04X", ErrUnsupportedVersion, version)
	}
	return &MeshWriter{w: &countingWriter{w: w}, version: version}, nil
}

// WriteMesh appends one sub-mesh record.
func (mw *MeshWriter) WriteMesh(m *MeshData) error {
	if mw.finalized {
		return fmt.Errorf("archive already finalized")
	}
	if err := m.validate(); err != nil {
		return err
	}

	mw.offsets = append(mw.offsets, mw.w.n)

	if err := writeLE(mw.w, Magic, mw.version); err != nil {
		return err
	}

	z := stream.NewZWriter(mw.w)

	if err := writeLE(z, uint32(m.flags())); err != nil {
		return err
	}
	if mw.version >= VersionV4 {
		if _, err := z.Write(append([]byte(m.Name), 0)); err != nil {
			return err
		}
	}
	if err := writeLE(z, uint64(len(m.Positions)), uint64(len(m.Faces))); err != nil {
		return err
	}

	if err := writeVec3s(z, m.Positions, m.DoublePrecision); err != nil {
		return err
	}
	if err := writeVec3s(z, m.Normals, m.DoublePrecision); err != nil {
		return err
	}
	for _, uv := range m.TexCoords {
		if err := writeFloats(z, m.DoublePrecision, uv[0], uv[1]); err != nil {
			return err
		}
	}
	if err := writeVec3s(z, m.Colors, m.DoublePrecision); err != nil {
		return err
	}

	wide := faceIndexWidth(uint64(len(m.Positions))) == 8
	for _, face := range m.Faces {
		for _, idx := range face {
			var err error
			if wide {
				err = writeLE(z, uint64(idx))
			} else {
				err = writeLE(z, idx)
			}
			if err != nil {
				return err
			}
		}
	}

	return z.Close()
}

// Finalize appends the trailing dictionary: one offset per sub-mesh in
// the version's entry width, then the uint32 count.
func (mw *MeshWriter) Finalize() error {
	if mw.finalized {
		return fmt.Errorf("archive already finalized")
	}
	mw.finalized = true

	for _, off := range mw.offsets {
		var err error
		if mw.version >= VersionV4 {
			err = writeLE(mw.w, off)
		} else {
			err = writeLE(mw.w, uint32(off))
		}
		if err != nil {
			return err
		}
	}
	return writeLE(mw.w, uint32(len(mw.offsets)))
}

func writeLE(w io.Writer, values ...any) error {
	for _, v := range values {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func writeFloats(w io.Writer, double bool, values ...float32) error {
	for _, v := range values {
		var err error
		if double {
			err = writeLE(w, float64(v))
		} else {
			err = writeLE(w, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeVec3s(w io.Writer, vs []math.Vec3, double bool) error {
	for _, v := range vs {
		if err := writeFloats(w, double, v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	return n, err
}
