package tcpheader

import (
	"bytes"
	"encoding/binary"
	"net/netip"
	"testing"

	"github.com/google/netstack/tcpip/header"

	"rawtcp/pkg/checksum"
	"rawtcp/pkg/ipv4header"
)

func testIPHeader(t *testing.T, payloadLen int) *ipv4header.IPv4Header {
	t.Helper()
	h, err := ipv4header.New(netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.2"), HeaderLen+payloadLen)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestPseudoHeaderLayout(t *testing.T) {
	iph := testIPHeader(t, 3)
	b := PseudoHeader(iph, HeaderLen+3)
	if len(b) != 12 {
		t.Fatalf("pseudo-header length %d, want 12", len(b))
	}
	if !bytes.Equal(b[0:4], []byte{10, 0, 0, 1}) || !bytes.Equal(b[4:8], []byte{10, 0, 0, 2}) {
		t.Errorf("addresses = % x", b[0:8])
	}
	if b[8] != 0 || b[9] != 6 {
		t.Errorf("zero/protocol bytes = %d/%d, want 0/6", b[8], b[9])
	}
	if got := binary.BigEndian.Uint16(b[10:12]); got != 23 {
		t.Errorf("tcp length = %d, want 23", got)
	}
}

func TestFlagBits(t *testing.T) {
	// Every subset of the six flags lands in the low bits of byte 13
	// with the two reserved bits clear, even when the caller sets the
	// ignored high bits.
	for flags := 0; flags < 64; flags++ {
		f := New(1, 2, 0, 0, uint8(flags)|0xc0)
		if got := Marshal(f)[13]; got != uint8(flags) {
			t.Errorf("flags %#02x: byte 13 = %#02x", flags, got)
		}
	}
}

func TestMarshalMatchesNetstackEncode(t *testing.T) {
	f := New(12345, 80, 0x1000, 0xdeadbeef, header.TCPFlagSyn|header.TCPFlagAck)
	f.Checksum = 0xabcd

	want := make(header.TCP, header.TCPMinimumSize)
	want.Encode(f)
	if got := Marshal(f); !bytes.Equal(got, want) {
		t.Errorf("Marshal = % x\nnetstack  = % x", got, []byte(want))
	}
}

func TestChecksumSelfVerifies(t *testing.T) {
	// Receiver view: pseudo-header, header with checksum in place,
	// payload padded to even length must sum to 0xffff.
	for _, payload := range [][]byte{nil, []byte("A"), []byte("hello"), bytes.Repeat([]byte{7}, 1000)} {
		iph := testIPHeader(t, len(payload))
		f := New(12345, 80, 0x1000, 0, header.TCPFlagSyn)
		f.Checksum = ComputeChecksum(f, iph, payload)

		buf := PseudoHeader(iph, HeaderLen+len(payload))
		buf = append(buf, Marshal(f)...)
		buf = append(buf, payload...)
		if got := header.Checksum(buf, 0); got != 0xffff {
			t.Errorf("payload %d bytes: residual sum %#04x, want 0xffff", len(payload), got)
		}
		if got := checksum.Checksum(buf); got != 0 {
			t.Errorf("payload %d bytes: complemented residual %#04x, want 0", len(payload), got)
		}
	}
}

func TestOddZeroPayloadPadsCleanly(t *testing.T) {
	// Padding the trailing odd byte is part of the sum only; all-zero
	// trailing bytes must not move the checksum.
	payload := []byte{0, 0, 0}
	iph := testIPHeader(t, len(payload))
	f := New(12345, 80, 100, 200, header.TCPFlagAck)
	got := ComputeChecksum(f, iph, payload)

	hdr := Marshal(f)
	acc := checksum.Sum(0, PseudoHeader(iph, HeaderLen+len(payload)))
	acc = checksum.Sum(acc, hdr)
	acc = checksum.Sum(acc, []byte{0, 0, 0, 0})
	if want := checksum.Finish(acc); got != want {
		t.Errorf("checksum %#04x, explicit zero pad gives %#04x", got, want)
	}
}

func TestDefaultFields(t *testing.T) {
	f := New(1, 2, 3, 4, 0)
	b := Marshal(f)
	if b[12] != 0x50 {
		t.Errorf("data offset byte = %#02x, want 0x50", b[12])
	}
	if got := binary.BigEndian.Uint16(b[14:16]); got != 32768 {
		t.Errorf("window = %d, want 32768", got)
	}
	if got := binary.BigEndian.Uint16(b[18:20]); got != 0 {
		t.Errorf("urgent pointer = %d, want 0", got)
	}
}
