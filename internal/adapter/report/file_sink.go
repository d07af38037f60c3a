package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/repository"
	"github.com/hanman2016/fine-grained-sentiment/internal/domain/service"
)

// FileSink writes explanation reports as HTML files under a base directory
type FileSink struct {
	baseDir string
}

// NewFileSink creates a sink rooted at baseDir, creating it if necessary
func NewFileSink(baseDir string) (repository.ReportSink, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &FileSink{baseDir: baseDir}, nil
}

// Persist writes the explanation's HTML report under the given name and
// returns the full artifact path
func (s *FileSink) Persist(result service.Explanation, name string) (string, error) {
	path := filepath.Join(s.baseDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report %s: %w", name, err)
	}
	defer f.Close()

	if err := result.WriteHTML(f); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", name, err)
	}

	return path, nil
}
