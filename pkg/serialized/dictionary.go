package serialized

import (
	"fmt"
	"io"

	"github.com/Faultbox/serialmesh/pkg/stream"
)

// containerIndex resolves the byte offset of the n-th sub-mesh using the
// dictionary at the end of the archive. The two historical encodings differ
// in table entry width and, for version 3, in the bound check.
type containerIndex interface {
	locate(s stream.Stream, shapeIndex int) (int64, error)
}

// indexForVersion selects the dictionary encoding once, from the version of
// the first header.
func indexForVersion(version uint16) containerIndex {
	if version >= VersionV4 {
		return modernIndex{}
	}
	return legacyIndex{}
}

// modernIndex is the version 4 dictionary: count sub-meshes, a table of
// count uint64 offsets immediately before the trailing uint32 count.
type modernIndex struct{}

func (modernIndex) locate(s stream.Stream, shapeIndex int) (int64, error) {
	if shapeIndex == 0 {
		// Dictionary offset 0 is always the first sub-mesh; skip the
		// seek+read round trip entirely.
		return 0, nil
	}

	size, err := s.Size()
	if err != nil {
		return 0, err
	}

	count, err := readMeshCount(s, size)
	if err != nil {
		return 0, err
	}

	if shapeIndex >= int(count) {
		return 0, fmt.Errorf("%w: requested %d of 0..%d", ErrShapeIndexOutOfRange, shapeIndex, int(count)-1)
	}

	// The count field is 4 bytes even though table entries are 8.
	entryPos := size - 8*int64(int(count)-shapeIndex) - 4
	if _, err := s.Seek(entryPos, io.SeekStart); err != nil {
		return 0, err
	}
	offset, err := stream.ReadUint64(s)
	if err != nil {
		return 0, fmt.Errorf("reading dictionary entry %d: %w", shapeIndex, err)
	}
	return int64(offset), nil
}

// legacyIndex is the version 3 dictionary: uint32 table entries. Its bound
// check rejects only shapeIndex > count, so shapeIndex == count slips
// through and reads one entry past the intended range. That off-by-one is a
// known historical property of the format's loader and is kept as-is.
type legacyIndex struct{}

func (legacyIndex) locate(s stream.Stream, shapeIndex int) (int64, error) {
	if shapeIndex == 0 {
		return 0, nil
	}

	size, err := s.Size()
	if err != nil {
		return 0, err
	}

	count, err := readMeshCount(s, size)
	if err != nil {
		return 0, err
	}

	if shapeIndex > int(count) {
		return 0, fmt.Errorf("%w: requested %d of 0..%d", ErrShapeIndexOutOfRange, shapeIndex, int(count)-1)
	}

	entryPos := size - 4*int64(int(count)-shapeIndex+1)
	if _, err := s.Seek(entryPos, io.SeekStart); err != nil {
		return 0, err
	}
	offset, err := stream.ReadUint32(s)
	if err != nil {
		return 0, fmt.Errorf("reading dictionary entry %d: %w", shapeIndex, err)
	}
	return int64(offset), nil
}

func readMeshCount(s stream.Stream, size int64) (uint32, error) {
	if _, err := s.Seek(size-4, io.SeekStart); err != nil {
		return 0, err
	}
	count, err := stream.ReadUint32(s)
	if err != nil {
		return 0, fmt.Errorf("reading dictionary count: %w", err)
	}
	return count, nil
}

// MeshCount returns the number of sub-meshes recorded in the trailing
// dictionary.
func MeshCount(s stream.Stream) (uint32, error) {
	size, err := s.Size()
	if err != nil {
		return 0, err
	}
	return readMeshCount(s, size)
}

// ReadDictionary returns every sub-mesh offset in the archive, in order.
// The version decides the table entry width.
func ReadDictionary(s stream.Stream, version uint16) ([]int64, error) {
	size, err := s.Size()
	if err != nil {
		return nil, err
	}

	count, err := readMeshCount(s, size)
	if err != nil {
		return nil, err
	}

	entryWidth := int64(8)
	if version < VersionV4 {
		entryWidth = 4
	}
	tableStart := size - entryWidth*int64(count) - 4

	if _, err := s.Seek(tableStart, io.SeekStart); err != nil {
		return nil, err
	}

	offsets := make([]int64, count)
	for i := range offsets {
		if entryWidth == 8 {
			v, err := stream.ReadUint64(s)
			if err != nil {
				return nil, fmt.Errorf("reading dictionary entry %d: %w", i, err)
			}
			offsets[i] = int64(v)
		} else {
			v, err := stream.ReadUint32(s)
			if err != nil {
				return nil, fmt.Errorf("reading dictionary entry %d: %w", i, err)
			}
			offsets[i] = int64(v)
		}
	}
	return offsets, nil
}
