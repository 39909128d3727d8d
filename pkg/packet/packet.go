// Package packet assembles complete IPv4+TCP protocol data units.
package packet

import (
	"net/netip"

	"rawtcp/pkg/ipv4header"
	"rawtcp/pkg/tcpheader"
)

// BuildTCPPacket lays out one segment as a contiguous buffer, IP header
// then TCP header then payload, ready for a raw-IP send.
// Numeric arguments are host-order values; all wire conversion happens
// in the header builders. flags takes the tcpheader bit layout
// (netstack's header.TCPFlag* constants).
//
// The only failure is a payload too large for the IP total length
// field, reported as ipv4header.ErrPayloadTooLarge.
func BuildTCPPacket(src netip.Addr, srcPort uint16, dst netip.Addr, dstPort uint16, seq, ack uint32, flags uint8, payload []byte) ([]byte, error) {
	iph, err := ipv4header.New(src, dst, tcpheader.HeaderLen+len(payload))
	if err != nil {
		return nil, err
	}

	tcph := tcpheader.New(srcPort, dstPort, seq, ack, flags)
	tcph.Checksum = tcpheader.ComputeChecksum(tcph, iph, payload)

	pdu := make([]byte, 0, iph.TotalLen)
	pdu = append(pdu, iph.Marshal()...)
	pdu = append(pdu, tcpheader.Marshal(tcph)...)
	pdu = append(pdu, payload...)
	return pdu, nil
}
