// Command sendtcp builds a single SYN segment in user space and pushes
// it through a raw socket, printing the finished bytes first. The
// kernel knows nothing about the "connection", so any peer reply is
// answered with a kernel RST; this is a wire-format exerciser, not a
// TCP stack.
package main

import (
	"fmt"
	"io"
	"net/netip"
	"os"
	"strconv"

	"github.com/google/netstack/tcpip/header"
	"github.com/pkg/errors"
	"github.com/smallnest/ringbuffer"
	"k8s.io/klog/v2"

	"rawtcp/pkg/ipv4header"
	"rawtcp/pkg/packet"
	"rawtcp/pkg/rawsock"
	"rawtcp/pkg/tcpheader"
)

// Fixed initial sequence number. Randomizing is the caller's policy;
// a predictable ISN makes captures easy to compare between runs.
const initialSeq = 0x1000

func main() {
	if len(os.Args) != 5 && len(os.Args) != 6 {
		fmt.Fprintf(os.Stderr, "Usage: %s <src_ip> <src_port> <dst_ip> <dst_port> [payload]\n", os.Args[0])
		os.Exit(1)
	}

	src, err := netip.ParseAddr(os.Args[1])
	if err != nil {
		fail(errors.Wrap(err, "parsing source address"))
	}
	srcPort, err := parsePort(os.Args[2])
	if err != nil {
		fail(errors.Wrap(err, "parsing source port"))
	}
	dst, err := netip.ParseAddr(os.Args[3])
	if err != nil {
		fail(errors.Wrap(err, "parsing destination address"))
	}
	dstPort, err := parsePort(os.Args[4])
	if err != nil {
		fail(errors.Wrap(err, "parsing destination port"))
	}
	if !src.Is4() || !dst.Is4() {
		fail(errors.New("source and destination must be IPv4 addresses"))
	}

	var payload []byte
	if len(os.Args) == 6 {
		payload, err = readPayload(os.Args[5])
		if err != nil {
			fail(err)
		}
	}

	pdu, err := packet.BuildTCPPacket(src, srcPort, dst, dstPort, initialSeq, 0, header.TCPFlagSyn, payload)
	if err != nil {
		fail(errors.Wrap(err, "building packet"))
	}

	fmt.Println("\nSENDING")
	fmt.Print(packet.HexDump(pdu))

	klog.InfoS("sending segment", "src", src, "dst", dst, "len", len(pdu))
	if err := rawsock.Send(dst, dstPort, pdu); err != nil {
		fail(err)
	}
}

func parsePort(s string) (uint16, error) {
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(p), nil
}

// readPayload returns the payload argument verbatim, or, for "-",
// stdin staged through a ring buffer bounded at the largest payload an
// IP total length can carry, so oversized pipes fail before any bytes
// reach the builders.
func readPayload(arg string) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	rb := ringbuffer.New(ipv4header.MaxSegmentLen - tcpheader.HeaderLen)
	if _, err := io.Copy(rb, os.Stdin); err != nil {
		return nil, errors.Wrap(err, "reading payload from stdin")
	}
	return rb.Bytes(nil), nil
}

func fail(err error) {
	klog.ErrorS(err, "sendtcp failed")
	os.Exit(1)
}
