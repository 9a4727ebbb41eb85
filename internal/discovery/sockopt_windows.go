//go:build windows

package discovery

import (
	"syscall"

	"golang.org/x/sys/windows"
)

var errAddrInUse error = windows.WSAEADDRINUSE

// setSocketOptions enables address reuse and broadcast before bind.
func setSocketOptions(network, address string, c syscall.RawConn) error {
	var optErr error
	err := c.Control(func(fd uintptr) {
		optErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
		if optErr != nil {
			return
		}
		optErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return optErr
}
