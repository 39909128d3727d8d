// Package rawsock hands finished PDUs to the kernel through a raw IPv4
// socket opened with IPPROTO_RAW, which implies IP_HDRINCL: the buffer
// already starts with its IP header and the kernel must not prepend
// one.
package rawsock

import (
	"net/netip"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// The two failure kinds, recoverable with errors.Is. The OS cause is
// attached as wrapping context.
var (
	ErrSocket = errors.New("socket creation failed")
	ErrSend   = errors.New("send failed")
)

// Send transmits one PDU to dst in a single datagram. The socket lives
// for exactly this call; nothing is retried. Opening a raw socket
// requires elevated privilege, which surfaces here as ErrSocket.
func Send(dst netip.Addr, dstPort uint16, pdu []byte) error {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_RAW)
	if err != nil {
		return errors.Wrap(ErrSocket, err.Error())
	}
	defer unix.Close(fd)

	sa := &unix.SockaddrInet4{
		Port: int(dstPort),
		Addr: dst.As4(),
	}
	if err := unix.Sendto(fd, pdu, 0, sa); err != nil {
		return errors.Wrap(ErrSend, err.Error())
	}
	return nil
}
