package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/bdraco/unifi-discovery/internal/logging"
)

// DiscoveryPort is the well-known UDP port devices listen on.
const DiscoveryPort = 10001

// CreateUDPSocket binds a UDP4 socket for discovery traffic with
// SO_REUSEADDR and SO_BROADCAST set. When the requested port is already
// taken the bind falls back to an OS-assigned ephemeral port; devices
// answer to whatever source port the request came from, so discovery
// still works alongside another scanner on the same host. Any other bind
// failure is returned. The caller owns the socket and must close it.
func CreateUDPSocket(port int) (*net.UDPConn, error) {
	conn, err := listenUDP(port)
	if err == nil {
		return conn, nil
	}
	if !errors.Is(err, errAddrInUse) {
		return nil, fmt.Errorf("bind udp port %d: %w", port, err)
	}

	logging.Warn("discovery port in use, falling back to ephemeral port",
		zap.Int("port", port))
	conn, err = listenUDP(0)
	if err != nil {
		return nil, fmt.Errorf("bind ephemeral udp port: %w", err)
	}
	return conn, nil
}

func listenUDP(port int) (*net.UDPConn, error) {
	lc := net.ListenConfig{Control: setSocketOptions}
	pc, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}
