package reporter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/auditlab-io/tableaudit/pkg/report"
)

// Save renders the report and writes it into dir, creating the directory if
// needed. An empty filename gets a timestamped default; the extension follows
// the format. Returns the path written.
func (r *Reporter) Save(rep *report.Report, dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if filename == "" {
		filename = fmt.Sprintf("data_audit_report_%s", time.Now().Format("20060102_150405"))
	}

	content, err := r.Render(rep)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, filename+r.extension())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

func (r *Reporter) extension() string {
	switch r.format {
	case JSONFormat:
		return ".json"
	case MarkdownFormat:
		return ".md"
	default:
		return ".txt"
	}
}
