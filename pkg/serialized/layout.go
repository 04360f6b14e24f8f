package serialized

// Field is one named component of a record layout.
type Field struct {
	Name   string
	Width  int // bytes
	Offset int // bytes from record start
}

// Layout describes a packed record: an ordered list of named fields with
// contiguous, monotonically increasing offsets. All reads and writes into
// vertex and face buffers go through a Layout; offsets are never
// hand-computed elsewhere.
type Layout struct {
	fields []Field
	stride int
}

func (l *Layout) append(name string, width int) {
	l.fields = append(l.fields, Field{Name: name, Width: width, Offset: l.stride})
	l.stride += width
}

// Fields returns the ordered field list.
func (l *Layout) Fields() []Field {
	return l.fields
}

// Stride returns the total record size in bytes.
func (l *Layout) Stride() int {
	return l.stride
}

// Offset returns the byte offset of the named field.
func (l *Layout) Offset(name string) (int, bool) {
	for _, f := range l.fields {
		if f.Name == name {
			return f.Offset, true
		}
	}
	return 0, false
}

// Has reports whether the layout contains the named field.
func (l *Layout) Has(name string) bool {
	_, ok := l.Offset(name)
	return ok
}

// Working-precision element width for vertex attributes (float32).
const attrWidth = 4

// VertexLayout builds the in-memory vertex record layout for the given
// capability flags. Positions are always present. Normal fields are
// reserved unless disabled, even when the file carries no normal data:
// the flag only controls whether normals are read from the stream, and
// missing ones are recomputed into the reserved space afterwards.
func VertexLayout(flags Flags, normalsDisabled bool) *Layout {
	l := &Layout{}
	for _, name := range []string{"x", "y", "z"} {
		l.append(name, attrWidth)
	}
	if !normalsDisabled {
		for _, name := range []string{"nx", "ny", "nz"} {
			l.append(name, attrWidth)
		}
	}
	if flags.Has(HasTexcoords) {
		for _, name := range []string{"u", "v"} {
			l.append(name, attrWidth)
		}
	}
	if flags.Has(HasColors) {
		for _, name := range []string{"r", "g", "b"} {
			l.append(name, attrWidth)
		}
	}
	return l
}

// FaceLayout builds the face record layout: three vertex indices of the
// given width.
func FaceLayout(indexWidth int) *Layout {
	l := &Layout{}
	for _, name := range []string{"i0", "i1", "i2"} {
		l.append(name, indexWidth)
	}
	return l
}

// faceIndexWidth returns the on-disk index width needed to address
// vertexCount vertices: uint32 unless the count exceeds its range.
func faceIndexWidth(vertexCount uint64) int {
	if vertexCount > 0xFFFFFFFF {
		return 8
	}
	return 4
}
