package voice

import (
	"context"
	"fmt"
	"os"
)

// FileRecorder is a Recorder that "captures" audio from a WAV file on
// disk. It stands in for a microphone on setups where capture happens
// out of process.
type FileRecorder struct {
	path string
}

// NewFileRecorder creates a recorder reading from path.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

// SetPath changes the file read on the next Stop.
func (r *FileRecorder) SetPath(path string) {
	r.path = path
}

// Start implements Recorder. It verifies the file exists up front so a
// bad path fails the session before processing begins.
func (r *FileRecorder) Start(_ context.Context) error {
	if r.path == "" {
		return fmt.Errorf("no audio file configured")
	}
	if _, err := os.Stat(r.path); err != nil {
		return fmt.Errorf("audio file not readable: %w", err)
	}
	return nil
}

// Stop implements Recorder.
func (r *FileRecorder) Stop(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	return data, nil
}
