package writers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriterType classifies a log output destination.
type WriterType string

const (
	WriterTypeStdout WriterType = "stdout"
	WriterTypeStderr WriterType = "stderr"
	WriterTypeFile   WriterType = "file"
)

// ParseWriterType determines the writer type from an output string. The
// empty default is stderr, not stdout: in stdio transport mode stdout
// carries protocol frames and must never receive log lines.
func ParseWriterType(output string) WriterType {
	switch output {
	case "", "stderr":
		return WriterTypeStderr
	case "stdout":
		return WriterTypeStdout
	default:
		return WriterTypeFile
	}
}

// CreateWriter resolves an output specification to an io.Writer.
// Supported forms:
//   - "stderr" or "" - os.Stderr
//   - "stdout" - os.Stdout
//   - "file:///path/to/file" or a plain path - appends to the file,
//     creating parent directories as needed
func CreateWriter(output string) (io.Writer, error) {
	switch ParseWriterType(output) {
	case WriterTypeStderr:
		return os.Stderr, nil
	case WriterTypeStdout:
		return os.Stdout, nil
	default:
		path := strings.TrimPrefix(output, "file://")
		if strings.Contains(path, "://") {
			return nil, fmt.Errorf("unsupported output format: %s", output)
		}
		return openAppendFile(path)
	}
}

// openAppendFile opens path for appending, creating parent directories first.
func openAppendFile(path string) (io.Writer, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	return file, nil
}
