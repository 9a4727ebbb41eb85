package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bdraco/unifi-discovery/internal/device"
	"github.com/bdraco/unifi-discovery/internal/logging"
	"github.com/bdraco/unifi-discovery/internal/probe"
	"github.com/bdraco/unifi-discovery/internal/protocol"
)

const (
	// DefaultTimeout is the collection window when the caller does not
	// specify one.
	DefaultTimeout = 10 * time.Second

	// DefaultQueueSize bounds the datagram channel between the socket
	// reader and the scan loop.
	DefaultQueueSize = 64

	// maxDatagramSize comfortably exceeds any announcement seen in the wild.
	maxDatagramSize = 8192

	// BroadcastAddr is the sweep-scan destination.
	BroadcastAddr = "255.255.255.255"
)

// ErrInvalidTimeout is returned for a zero or negative collection window.
var ErrInvalidTimeout = errors.New("scan timeout must be positive")

// State tracks a scan's progress through its phases.
type State int32

const (
	StateIdle State = iota
	StateSending
	StateCollecting
	StateProbing
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateCollecting:
		return "collecting"
	case StateProbing:
		return "probing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Config carries everything a scan needs, request payload included; there
// are no package-level mutable defaults.
type Config struct {
	// Port is the discovery port to bind and send to. Defaults to
	// DiscoveryPort.
	Port int

	// RequestPayload is the byte sequence sent to solicit announcements.
	// Defaults to protocol.RequestPayload().
	RequestPayload []byte

	// QueueSize bounds the inbound datagram channel.
	QueueSize int

	// NewProber builds the HTTP prober for a candidate address. Defaults
	// to probe.NewProber.
	NewProber func(address string) *probe.Prober

	// OnDevice, when set, is called from the scan loop the first time a
	// source address is observed. Used by the live CLI view.
	OnDevice func(*device.Device)

	// DisableVendorLookup skips OUI enrichment of the final records.
	DisableVendorLookup bool
}

// Scanner discovers devices by soliciting announcements over UDP and
// enriching each responder through its HTTP management API.
type Scanner struct {
	cfg   Config
	state atomic.Int32
}

// NewScanner creates a scanner, filling config defaults.
func NewScanner(cfg Config) *Scanner {
	if cfg.Port == 0 {
		cfg.Port = DiscoveryPort
	}
	if cfg.RequestPayload == nil {
		cfg.RequestPayload = protocol.RequestPayload()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.NewProber == nil {
		cfg.NewProber = probe.NewProber
	}
	return &Scanner{cfg: cfg}
}

// State returns the scan phase, for observers on other goroutines.
func (s *Scanner) State() State {
	return State(s.state.Load())
}

func (s *Scanner) setState(st State) {
	s.state.Store(int32(st))
	logging.Debug("scan state", zap.Stringer("state", st))
}

// datagram is one inbound packet, handed from the socket reader to the
// scan loop.
type datagram struct {
	payload []byte
	source  *net.UDPAddr
}

// Scan performs one discovery sweep. An empty address broadcasts and
// collects for the full timeout; a non-empty address unicasts to that
// device and may end the window as soon as it answers. Records come back
// in the order their source was first observed. The socket is always
// released before Scan returns.
func (s *Scanner) Scan(ctx context.Context, timeout time.Duration, address string) ([]*device.Device, error) {
	if timeout <= 0 {
		return nil, ErrInvalidTimeout
	}

	s.setState(StateSending)
	conn, err := CreateUDPSocket(s.cfg.Port)
	if err != nil {
		s.setState(StateDone)
		return nil, err
	}
	defer conn.Close()
	defer s.setState(StateDone)

	target := BroadcastAddr
	if address != "" {
		target = address
	}
	dst, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(target, strconv.Itoa(s.cfg.Port)))
	if err != nil {
		return nil, fmt.Errorf("resolve scan target %q: %w", target, err)
	}
	targetIP := dst.IP.String()

	if _, err := conn.WriteToUDP(s.cfg.RequestPayload, dst); err != nil {
		// Devices announce periodically on their own; keep listening.
		logging.Warn("failed to send discovery request",
			zap.Stringer("dst", dst), zap.Error(err))
	}

	datagrams := make(chan datagram, s.cfg.QueueSize)
	go readLoop(conn, datagrams)

	collector := NewCollector()
	s.setState(StateCollecting)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

collect:
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			break collect
		case dg, ok := <-datagrams:
			if !ok {
				break collect
			}
			src := dg.source.IP.String()
			logging.LogDatagram(src, dg.payload)
			ann := protocol.Decode(dg.payload)
			if ann == nil {
				continue
			}
			logging.Debug("announcement decoded",
				zap.String("source", src), zap.Stringer("announcement", ann))
			created := collector.Get(src) == nil
			dev := collector.Apply(src, ann)
			if created && s.cfg.OnDevice != nil {
				s.cfg.OnDevice(dev)
			}
			if address != "" && src == targetIP {
				// The one device we asked for has answered.
				break collect
			}
		}
	}

	s.setState(StateProbing)
	targets := make([]string, 0, collector.Len()+1)
	for _, d := range collector.Devices() {
		targets = append(targets, d.SourceIP)
	}
	httpOnly := -1
	if address != "" && collector.Get(targetIP) == nil {
		// The target never spoke UDP; its management API may still be up.
		httpOnly = len(targets)
		targets = append(targets, targetIP)
	}

	results := make([]probe.Result, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, addr := range targets {
		i, addr := i, addr
		g.Go(func() error {
			results[i] = s.cfg.NewProber(addr).Probe(gctx)
			return nil
		})
	}
	_ = g.Wait()

	for i, addr := range targets {
		if i == httpOnly {
			if results[i].Reachable() {
				results[i].Apply(collector.Ensure(addr))
			}
			continue
		}
		results[i].Apply(collector.Get(addr))
	}

	found := collector.Devices()
	if !s.cfg.DisableVendorLookup {
		for _, d := range found {
			d.EnrichVendor()
		}
	}
	logging.Info("scan complete",
		zap.Int("devices", len(found)), zap.Duration("timeout", timeout))
	return found, nil
}

// readLoop feeds inbound datagrams into the bounded channel until the
// socket is closed. When the scan loop falls behind, datagrams are
// dropped rather than blocking the reader.
func readLoop(conn *net.UDPConn, out chan<- datagram) {
	defer close(out)
	buf := make([]byte, maxDatagramSize)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])
		select {
		case out <- datagram{payload: payload, source: src}:
		default:
			logging.Warn("datagram queue full, dropping packet",
				zap.Stringer("source", src))
		}
	}
}
