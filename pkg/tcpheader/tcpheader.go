// Package tcpheader builds the 20-byte TCP header and its checksum,
// including the pseudo-header that exists only as checksum input.
//
// Fields travel in netstack's header.TCPFields, and the flags argument
// uses the header.TCPFlag* bit values, whose positions are exactly the
// wire layout of byte 13: FIN 0x01, SYN 0x02, RST 0x04, PSH 0x08,
// ACK 0x10, URG 0x20.
package tcpheader

import (
	"encoding/binary"

	"github.com/google/netstack/tcpip/header"

	"rawtcp/pkg/checksum"
	"rawtcp/pkg/ipv4header"
)

const (
	HeaderLen = 20

	flagMask        = 0x3f
	pseudoHeaderLen = 12
	defaultWindow   = 32768
)

// PseudoHeader derives the 12-byte synthetic block covered by the TCP
// checksum from the finished IP header: source and destination
// addresses, a zero byte, the protocol, and the TCP length (header plus
// payload). It is never placed on the wire.
func PseudoHeader(ip *ipv4header.IPv4Header, segmentLen int) []byte {
	b := make([]byte, pseudoHeaderLen)
	src := ip.Src.As4()
	dst := ip.Dst.As4()
	copy(b[0:4], src[:])
	copy(b[4:8], dst[:])
	b[9] = byte(ip.Protocol)
	binary.BigEndian.PutUint16(b[10:12], uint16(segmentLen))
	return b
}

// New fills the fields for a single option-less segment: data offset 5
// words, window 32768, urgent pointer and checksum zero. Bits outside
// the six defined flags are discarded.
func New(srcPort, dstPort uint16, seq, ack uint32, flags uint8) *header.TCPFields {
	return &header.TCPFields{
		SrcPort:    srcPort,
		DstPort:    dstPort,
		SeqNum:     seq,
		AckNum:     ack,
		DataOffset: HeaderLen,
		Flags:      flags & flagMask,
		WindowSize: defaultWindow,
	}
}

// Marshal encodes f into its 20-byte wire form. Byte 12 packs the data
// offset (in words) above the reserved bits, byte 13 carries the six
// flag bits in its low half; both are composed with explicit shifts.
func Marshal(f *header.TCPFields) []byte {
	b := make([]byte, HeaderLen)
	binary.BigEndian.PutUint16(b[0:2], f.SrcPort)
	binary.BigEndian.PutUint16(b[2:4], f.DstPort)
	binary.BigEndian.PutUint32(b[4:8], f.SeqNum)
	binary.BigEndian.PutUint32(b[8:12], f.AckNum)
	b[12] = byte(f.DataOffset/4) << 4
	b[13] = f.Flags & flagMask
	binary.BigEndian.PutUint16(b[14:16], f.WindowSize)
	binary.BigEndian.PutUint16(b[16:18], f.Checksum)
	binary.BigEndian.PutUint16(b[18:20], f.UrgentPointer)
	return b
}

// ComputeChecksum returns the checksum over the pseudo-header, the
// header and the payload, with the checksum field taken as zero. The
// three ranges feed one carried accumulator instead of a transient
// concatenation; the first two ranges are even-length, so word
// alignment holds and only the payload may end on an odd byte.
func ComputeChecksum(f *header.TCPFields, ip *ipv4header.IPv4Header, payload []byte) uint16 {
	hdr := Marshal(f)
	hdr[16] = 0
	hdr[17] = 0

	acc := checksum.Sum(0, PseudoHeader(ip, HeaderLen+len(payload)))
	acc = checksum.Sum(acc, hdr)
	acc = checksum.Sum(acc, payload)
	return checksum.Finish(acc)
}
