package testutil

import (
	"net"
	"sync"
	"testing"
)

var (
	portsMu sync.Mutex
	claimed = make(map[int]struct{})
)

// GetRandomPort returns a free TCP port, never handing out the same port
// twice within a test run.
func GetRandomPort(t *testing.T) int {
	t.Helper()
	portsMu.Lock()
	defer portsMu.Unlock()

	for {
		listener, err := net.Listen("tcp", ":0")
		if err != nil {
			t.Fatalf("allocate probe listener: %v", err)
		}
		port := listener.Addr().(*net.TCPAddr).Port
		if err := listener.Close(); err != nil {
			t.Fatalf("close probe listener: %v", err)
		}
		if _, taken := claimed[port]; taken {
			continue
		}
		claimed[port] = struct{}{}
		return port
	}
}
