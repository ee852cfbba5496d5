// Package testutil holds shared helpers for tests: free-port allocation,
// a goroutine-safe log capture buffer, and an upstream gateway stub.
package testutil

import (
	"bytes"
	"sync"
)

// LogBuffer is a bytes.Buffer safe for concurrent writers. Tests hand it
// to log handlers whose output arrives from supervisor goroutines.
type LogBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

// Write implements io.Writer.
func (b *LogBuffer) Write(p []byte) (n int, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

// String returns the accumulated buffer contents.
func (b *LogBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}
