package serialized

import (
	"encoding/binary"
	"fmt"
	"io"
	stdmath "math"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/serialmesh/internal/logger"
	"github.com/Faultbox/serialmesh/pkg/math"
	"github.com/Faultbox/serialmesh/pkg/stream"
)

// Options controls how a sub-mesh is decoded.
type Options struct {
	// ShapeIndex selects which sub-mesh of a multi-mesh archive to load.
	ShapeIndex int

	// ToWorld is applied to every vertex position (and, directionally, to
	// every vertex normal) after decoding.
	ToWorld math.Mat4

	// DisableVertexNormals drops normals from the in-memory layout. Normal
	// data present in the file is skipped over, and none is recomputed.
	DisableVertexNormals bool

	// FaceNormals requests flat per-face shading downstream, same as the
	// in-file flag.
	FaceNormals bool
}

// DefaultOptions returns Options for the first sub-mesh with an identity
// transform.
func DefaultOptions() Options {
	return Options{ToWorld: math.Identity()}
}

// Mesh is a decoded sub-mesh: packed vertex and face buffers plus the
// layouts describing them. Buffers are exactly vertexCount and faceCount
// records long and are not shared between decodes.
type Mesh struct {
	Name            string
	Flags           Flags
	FaceNormalsOnly bool

	VertexCount int
	FaceCount   int

	Vertices     []byte
	Faces        []byte
	VertexFields *Layout
	FaceFields   *Layout

	Bounds math.AABB

	normalOffset   int
	texcoordOffset int
	colorOffset    int
	indexWidth     int
}

// LoadMesh decodes one sub-mesh from the archive at path.
func LoadMesh(path string, opts Options) (*Mesh, error) {
	s, err := stream.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("mesh %q@%d: %w", filepath.Base(path), opts.ShapeIndex, err)
	}
	defer s.Close()

	return ReadMesh(s, filepath.Base(path), opts)
}

// ReadMesh decodes one sub-mesh from an already-open archive stream
// positioned at its start. name is used for diagnostics and as the default
// mesh name.
func ReadMesh(s stream.Stream, name string, opts Options) (*Mesh, error) {
	meshName := fmt.Sprintf("%s@%d", name, opts.ShapeIndex)

	if opts.ShapeIndex < 0 {
		return nil, fmt.Errorf("mesh %q: %w: shape index must be nonnegative", meshName, ErrShapeIndexOutOfRange)
	}

	start := time.Now()
	logger.Debug("loading mesh", zap.String("mesh", meshName))

	m, err := decode(s, meshName, opts)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", meshName, err)
	}

	logger.Debug("mesh loaded",
		zap.String("mesh", m.Name),
		zap.Int("vertices", m.VertexCount),
		zap.Int("faces", m.FaceCount),
		zap.Duration("elapsed", time.Since(start)))

	return m, nil
}

func decode(s stream.Stream, meshName string, opts Options) (*Mesh, error) {
	version, err := readHeader(s)
	if err != nil {
		return nil, err
	}

	if opts.ShapeIndex != 0 {
		offset, err := indexForVersion(version).locate(s, opts.ShapeIndex)
		if err != nil {
			return nil, err
		}
		// Skip the magic+version pair of the target record.
		if _, err := s.Seek(offset+4, io.SeekStart); err != nil {
			return nil, err
		}
	}

	z, err := stream.NewZStream(s)
	if err != nil {
		return nil, err
	}
	defer z.Close()

	rawFlags, err := stream.ReadUint32(z)
	if err != nil {
		return nil, fmt.Errorf("reading flags: %w", err)
	}
	flags := Flags(rawFlags)

	if version >= VersionV4 {
		embedded, err := stream.ReadCString(z)
		if err != nil {
			return nil, fmt.Errorf("reading shape name: %w", err)
		}
		if embedded != "" {
			meshName = embedded
		}
	}

	vertexCount, err := stream.ReadUint64(z)
	if err != nil {
		return nil, fmt.Errorf("reading vertex count: %w", err)
	}
	faceCount, err := stream.ReadUint64(z)
	if err != nil {
		return nil, fmt.Errorf("reading face count: %w", err)
	}

	m := &Mesh{
		Name:            meshName,
		Flags:           flags,
		FaceNormalsOnly: flags.Has(FaceNormals) || opts.FaceNormals,
		VertexFields:    VertexLayout(flags, opts.DisableVertexNormals),
		indexWidth:      faceIndexWidth(vertexCount),
	}
	m.FaceFields = FaceLayout(m.indexWidth)

	vStride := m.VertexFields.Stride()
	fStride := m.FaceFields.Stride()
	if vertexCount > uint64(stdmath.MaxInt)/uint64(vStride) {
		return nil, fmt.Errorf("vertex count %d too large", vertexCount)
	}
	if faceCount > uint64(stdmath.MaxInt)/uint64(fStride) {
		return nil, fmt.Errorf("face count %d too large", faceCount)
	}
	m.VertexCount = int(vertexCount)
	m.FaceCount = int(faceCount)
	m.Vertices = make([]byte, m.VertexCount*vStride)
	m.Faces = make([]byte, m.FaceCount*fStride)

	m.normalOffset = -1
	if off, ok := m.VertexFields.Offset("nx"); ok {
		m.normalOffset = off
	}
	m.texcoordOffset = -1
	if off, ok := m.VertexFields.Offset("u"); ok {
		m.texcoordOffset = off
	}
	m.colorOffset = -1
	if off, ok := m.VertexFields.Offset("r"); ok {
		m.colorOffset = off
	}

	double := flags.Has(DoublePrecision)

	if err := readVectors(z, double, m.VertexCount, 3, 0, vStride, m.Vertices); err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	if flags.Has(HasNormals) {
		if opts.DisableVertexNormals {
			// No slot for them in the layout, and the compressed cursor
			// cannot seek past: read and discard.
			if err := skipVectors(z, double, m.VertexCount, 3); err != nil {
				return nil, fmt.Errorf("skipping normals: %w", err)
			}
		} else if err := readVectors(z, double, m.VertexCount, 3, m.normalOffset, vStride, m.Vertices); err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
	}

	if flags.Has(HasTexcoords) {
		if err := readVectors(z, double, m.VertexCount, 2, m.texcoordOffset, vStride, m.Vertices); err != nil {
			return nil, fmt.Errorf("reading texcoords: %w", err)
		}
	}

	if flags.Has(HasColors) {
		if err := readVectors(z, double, m.VertexCount, 3, m.colorOffset, vStride, m.Vertices); err != nil {
			return nil, fmt.Errorf("reading colors: %w", err)
		}
	}

	// Face indices are never precision-converted; one bulk copy.
	if err := stream.ReadFull(z, m.Faces); err != nil {
		return nil, fmt.Errorf("reading face indices: %w", err)
	}

	m.postProcess(opts, flags.Has(HasNormals))

	return m, nil
}

// ProbeVersion seeks to the start of the stream, validates the first
// header, and returns the archive's format version.
func ProbeVersion(s stream.Stream) (uint16, error) {
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return readHeader(s)
}

// readHeader validates the magic word before the version field is examined,
// then checks the version against the two supported encodings.
func readHeader(s stream.Stream) (uint16, error) {
	magic, err := stream.ReadUint16(s)
	if err != nil {
		return 0, fmt.Errorf("reading magic: %w", err)
	}
	if magic != Magic {
		return 0, fmt.Errorf("%w: 0x%04X", ErrBadMagic, magic)
	}

	version, err := stream.ReadUint16(s)
	if err != nil {
		return 0, fmt.Errorf("reading version: %w", err)
	}
	if version != VersionV3 && version != VersionV4 {
		return 0, fmt.Errorf("%w: 0x%04X", ErrUnsupportedVersion, version)
	}
	return version, nil
}

// postProcess applies the object-to-world transform, folds positions into
// the bounding box, and derives vertex normals when the file supplied none.
func (m *Mesh) postProcess(opts Options, fileNormals bool) {
	m.Bounds = math.NewAABB()

	for i := 0; i < m.VertexCount; i++ {
		p := opts.ToWorld.TransformPoint(m.Position(i))
		m.setPosition(i, p)
		m.Bounds.ExpandPoint(p)

		if fileNormals && m.HasVertexNormals() {
			n := opts.ToWorld.TransformDirection(m.Normal(i)).Normalize()
			m.setNormal(i, n)
		}
	}

	if m.HasVertexNormals() && !fileNormals {
		m.recomputeNormals()
	}
}

// recomputeNormals derives one unit normal per vertex from face geometry,
// weighting each incident face by its area (unnormalized edge cross
// product). Deterministic for a given vertex/face buffer pair.
func (m *Mesh) recomputeNormals() {
	acc := make([]math.Vec3, m.VertexCount)

	for i := 0; i < m.FaceCount; i++ {
		f := m.Face(i)
		p0 := m.Position(f[0])
		p1 := m.Position(f[1])
		p2 := m.Position(f[2])

		fn := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[f[0]] = acc[f[0]].Add(fn)
		acc[f[1]] = acc[f[1]].Add(fn)
		acc[f[2]] = acc[f[2]].Add(fn)
	}

	for i := 0; i < m.VertexCount; i++ {
		m.setNormal(i, acc[i].Normalize())
	}
}

// HasVertexNormals reports whether the in-memory layout carries normals.
func (m *Mesh) HasVertexNormals() bool {
	return m.normalOffset >= 0
}

// HasVertexTexcoords reports whether the layout carries texture coordinates.
func (m *Mesh) HasVertexTexcoords() bool {
	return m.texcoordOffset >= 0
}

// HasVertexColors reports whether the layout carries vertex colors.
func (m *Mesh) HasVertexColors() bool {
	return m.colorOffset >= 0
}

func (m *Mesh) vec3At(i, offset int) math.Vec3 {
	b := m.Vertices[i*m.VertexFields.Stride()+offset:]
	return math.Vec3{
		X: stdmath.Float32frombits(binary.LittleEndian.Uint32(b)),
		Y: stdmath.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: stdmath.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

func (m *Mesh) setVec3At(i, offset int, v math.Vec3) {
	b := m.Vertices[i*m.VertexFields.Stride()+offset:]
	binary.LittleEndian.PutUint32(b, stdmath.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], stdmath.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], stdmath.Float32bits(v.Z))
}

// Position returns vertex i's position.
func (m *Mesh) Position(i int) math.Vec3 {
	return m.vec3At(i, 0)
}

func (m *Mesh) setPosition(i int, p math.Vec3) {
	m.setVec3At(i, 0, p)
}

// Normal returns vertex i's normal. Only valid when HasVertexNormals.
func (m *Mesh) Normal(i int) math.Vec3 {
	return m.vec3At(i, m.normalOffset)
}

func (m *Mesh) setNormal(i int, n math.Vec3) {
	m.setVec3At(i, m.normalOffset, n)
}

// TexCoord returns vertex i's texture coordinate. Only valid when
// HasVertexTexcoords.
func (m *Mesh) TexCoord(i int) (u, v float32) {
	b := m.Vertices[i*m.VertexFields.Stride()+m.texcoordOffset:]
	u = stdmath.Float32frombits(binary.LittleEndian.Uint32(b))
	v = stdmath.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	return u, v
}

// Color returns vertex i's RGB color. Only valid when HasVertexColors.
func (m *Mesh) Color(i int) math.Vec3 {
	return m.vec3At(i, m.colorOffset)
}

// Face returns the three vertex indices of face i.
func (m *Mesh) Face(i int) [3]int {
	b := m.Faces[i*m.FaceFields.Stride():]
	var out [3]int
	for k := 0; k < 3; k++ {
		if m.indexWidth == 8 {
			out[k] = int(binary.LittleEndian.Uint64(b[k*8:]))
		} else {
			out[k] = int(binary.LittleEndian.Uint32(b[k*4:]))
		}
	}
	return out
}
