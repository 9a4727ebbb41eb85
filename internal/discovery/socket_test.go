package discovery

import (
	"net"
	"runtime"
	"testing"
)

func TestCreateUDPSocket(t *testing.T) {
	const port = 42711

	first, err := CreateUDPSocket(port)
	if err != nil {
		t.Fatalf("CreateUDPSocket: %v", err)
	}
	defer first.Close()

	if got := first.LocalAddr().(*net.UDPAddr).Port; got != port {
		t.Fatalf("first socket bound to port %d, want %d", got, port)
	}
}

func TestCreateUDPSocketFallsBackWhenPortTaken(t *testing.T) {
	if runtime.GOOS == "darwin" {
		// SO_REUSEADDR lets duplicate UDP binds through on macOS, so the
		// second bind never trips the fallback path there.
		t.Skip("duplicate UDP binds succeed on darwin")
	}
	const port = 42712

	first, err := CreateUDPSocket(port)
	if err != nil {
		t.Fatalf("CreateUDPSocket: %v", err)
	}
	defer first.Close()

	second, err := CreateUDPSocket(port)
	if err != nil {
		t.Fatalf("CreateUDPSocket (second): %v", err)
	}
	defer second.Close()

	firstPort := first.LocalAddr().(*net.UDPAddr).Port
	secondPort := second.LocalAddr().(*net.UDPAddr).Port
	if firstPort != port {
		t.Errorf("first socket on port %d, want %d", firstPort, port)
	}
	if secondPort == firstPort {
		t.Errorf("second socket did not fall back, both on port %d", firstPort)
	}
	if secondPort == 0 {
		t.Error("second socket has no bound port")
	}
}
