// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	stlHeaderSize   = 80
	stlCountSize    = 4
	stlTriangleSize = 50
)

// STL formats.
const (
	FormatUnknown STLFormat = iota
	FormatASCII
	FormatBinary
)

var (
	// ErrInvalidSTL is returned for data that is neither ASCII nor binary STL.
	ErrInvalidSTL = errors.New("not an STL mesh")
	// ErrMixedSTLFormats is returned when merging ASCII and binary meshes.
	ErrMixedSTLFormats = errors.New("cannot merge ASCII and binary STL meshes")
)

type (
	// STLFormat is the encoding of an STL mesh.
	STLFormat int

	// MeshInfo describes a mesh file.
	MeshInfo struct {
		Format    STLFormat
		Triangles int
	}
)

// String returns the format name.
func (f STLFormat) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// InspectSTL detects the encoding of data and counts its triangles.
// A file is binary when its size matches the triangle count in its header,
// even if the header text starts with "solid".
func InspectSTL(data []byte) (MeshInfo, error) {
	if n, ok := binaryTriangleCount(data); ok {
		return MeshInfo{Format: FormatBinary, Triangles: n}, nil
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("solid")) && bytes.Contains(trimmed, []byte("endsolid")) {
		return MeshInfo{Format: FormatASCII, Triangles: bytes.Count(trimmed, []byte("facet normal"))}, nil
	}
	return MeshInfo{}, ErrInvalidSTL
}

// MergeSTL combines meshes into a single STL of the same encoding. ASCII
// meshes are concatenated as consecutive solids; binary meshes are rewritten
// under one header with the summed triangle count.
func MergeSTL(meshes [][]byte) ([]byte, error) {
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%w: no meshes to merge", ErrInvalidSTL)
	}

	format := FormatUnknown
	total := 0
	for i, m := range meshes {
		info, err := InspectSTL(m)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		if format != FormatUnknown && info.Format != format {
			return nil, ErrMixedSTLFormats
		}
		format = info.Format
		total += info.Triangles
	}

	var out bytes.Buffer
	if format == FormatASCII {
		for _, m := range meshes {
			out.Write(bytes.TrimSpace(m))
			out.WriteByte('\n')
		}
		return out.Bytes(), nil
	}

	header := make([]byte, stlHeaderSize)
	copy(header, "binary STL merged by sketchpub")
	out.Grow(stlHeaderSize + stlCountSize + total*stlTriangleSize)
	out.Write(header)
	_ = binary.Write(&out, binary.LittleEndian, uint32(total))
	for _, m := range meshes {
		out.Write(m[stlHeaderSize+stlCountSize:])
	}
	return out.Bytes(), nil
}

func binaryTriangleCount(data []byte) (int, bool) {
	if len(data) < stlHeaderSize+stlCountSize {
		return 0, false
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	if uint64(len(data)) != uint64(stlHeaderSize+stlCountSize)+uint64(n)*stlTriangleSize {
		return 0, false
	}
	return int(n), true
}
