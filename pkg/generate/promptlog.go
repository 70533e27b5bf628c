package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// PromptLog appends every prompt sent during a run to an audit file, one
// block per call. A nil PromptLog is a no-op.
type PromptLog struct {
	mu   sync.Mutex
	file *os.File
}

func OpenPromptLog(path string) (*PromptLog, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create prompt log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open prompt log: %w", err)
	}
	return &PromptLog{file: file}, nil
}

func (l *PromptLog) Append(recordId, kind, promptText string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.file, "=== %s %s ===\n%s\n\n", recordId, kind, promptText)
}

func (l *PromptLog) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}
