// Package ipv4header builds the 20-byte IPv4 header carried in front of
// every segment this module emits. The struct shape follows
// golang.org/x/net/ipv4's Header; addresses are netip.Addr.
package ipv4header

import (
	"encoding/binary"
	"net/netip"

	"github.com/pkg/errors"

	"rawtcp/pkg/checksum"
)

const (
	HeaderLen = 20

	// MaxSegmentLen is the largest TCP header + payload that still
	// fits the 16-bit total length field alongside this header.
	MaxSegmentLen = 0xffff - HeaderLen

	defaultTTL  = 64
	protocolTCP = 6
)

// ErrPayloadTooLarge is returned when the segment would overflow the
// IPv4 total length field.
var ErrPayloadTooLarge = errors.New("payload too large")

// IPv4Header holds one header's fields in host order. Len, TotalLen and
// FragOff are byte quantities; Marshal does all wire conversion.
type IPv4Header struct {
	Version  int
	Len      int
	TOS      int
	TotalLen int
	ID       int
	Flags    int
	FragOff  int
	TTL      int
	Protocol int
	Checksum int
	Src      netip.Addr
	Dst      netip.Addr
}

// New fills a header for a TCP segment of segmentLen bytes (TCP header
// plus payload) and computes its checksum. Identification is fixed at
// zero and no fragmentation fields are set; the header describes
// exactly one self-contained datagram.
func New(src, dst netip.Addr, segmentLen int) (*IPv4Header, error) {
	if segmentLen > MaxSegmentLen {
		return nil, errors.Wrapf(ErrPayloadTooLarge, "segment of %d bytes", segmentLen)
	}
	h := &IPv4Header{
		Version:  4,
		Len:      HeaderLen,
		TotalLen: HeaderLen + segmentLen,
		TTL:      defaultTTL,
		Protocol: protocolTCP,
		Src:      src,
		Dst:      dst,
	}
	// The checksum is computed with its own field still zero; the
	// resulting bit pattern goes back in unchanged.
	h.Checksum = int(checksum.Checksum(h.Marshal()))
	return h, nil
}

// Marshal encodes the header into its 20-byte wire form. The sub-byte
// fields (version/IHL, flags/fragment offset) are packed with explicit
// shifts rather than struct bit fields, so the layout matches what
// receivers parse regardless of toolchain.
func (h *IPv4Header) Marshal() []byte {
	b := make([]byte, HeaderLen)
	b[0] = byte(h.Version<<4 | h.Len/4)
	b[1] = byte(h.TOS)
	binary.BigEndian.PutUint16(b[2:4], uint16(h.TotalLen))
	binary.BigEndian.PutUint16(b[4:6], uint16(h.ID))
	b[6] = byte(h.Flags<<5) | byte(h.FragOff>>8&0x1f)
	b[7] = byte(h.FragOff)
	b[8] = byte(h.TTL)
	b[9] = byte(h.Protocol)
	binary.BigEndian.PutUint16(b[10:12], uint16(h.Checksum))
	src := h.Src.As4()
	dst := h.Dst.As4()
	copy(b[12:16], src[:])
	copy(b[16:20], dst[:])
	return b
}
