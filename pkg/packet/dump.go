package packet

import (
	"fmt"
	"strings"
)

// HexDump renders b as two rows, one of hex octets and one of binary,
// for eyeballing field packing against the RFC diagrams.
func HexDump(b []byte) string {
	var s strings.Builder
	for _, c := range b {
		fmt.Fprintf(&s, "%02X ", c)
	}
	s.WriteByte('\n')
	for _, c := range b {
		fmt.Fprintf(&s, "%08b ", c)
	}
	s.WriteByte('\n')
	return s.String()
}
