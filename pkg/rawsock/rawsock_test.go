package rawsock_test

import (
	"net/netip"
	"os"
	"testing"

	"github.com/google/netstack/tcpip/header"
	"github.com/pkg/errors"

	"rawtcp/pkg/packet"
	"rawtcp/pkg/rawsock"
)

func TestSendLoopback(t *testing.T) {
	lo := netip.MustParseAddr("127.0.0.1")
	pdu, err := packet.BuildTCPPacket(lo, 12345, lo, 80, 0x1000, 0, header.TCPFlagSyn, nil)
	if err != nil {
		t.Fatal(err)
	}

	err = rawsock.Send(lo, 80, pdu)
	if os.Geteuid() != 0 {
		// Raw sockets need privilege; the refusal must surface as the
		// socket-creation kind.
		if !errors.Is(err, rawsock.ErrSocket) {
			t.Fatalf("unprivileged send: got %v, want ErrSocket", err)
		}
		return
	}
	if err != nil {
		t.Fatal(err)
	}
}
