// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// ASCIISTL returns an ASCII STL solid named name with the given number of
// identical facets.
func ASCIISTL(name string, facets int) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "solid %s\n", name)
	for range facets {
		b.WriteString("  facet normal 0 0 1\n    outer loop\n")
		b.WriteString("      vertex 0 0 0\n      vertex 1 0 0\n      vertex 0 1 0\n")
		b.WriteString("    endloop\n  endfacet\n")
	}
	fmt.Fprintf(&b, "endsolid %s\n", name)
	return []byte(b.String())
}

// BinarySTL returns a binary STL with an 80-byte header starting with header
// and n triangle records. Record i has its first byte set to i so merged
// output can be checked for order.
func BinarySTL(header string, n int) []byte {
	var buf bytes.Buffer
	h := make([]byte, 80)
	copy(h, header)
	buf.Write(h)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(n))
	for i := range n {
		tri := make([]byte, 50)
		tri[0] = byte(i)
		buf.Write(tri)
	}
	return buf.Bytes()
}
