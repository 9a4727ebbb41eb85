//go:build unix

package discovery

import (
	"syscall"

	"golang.org/x/sys/unix"
)

var errAddrInUse error = unix.EADDRINUSE

// setSocketOptions enables address reuse and broadcast before bind.
func setSocketOptions(network, address string, c syscall.RawConn) error {
	var optErr error
	err := c.Control(func(fd uintptr) {
		optErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if optErr != nil {
			return
		}
		optErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return optErr
}
