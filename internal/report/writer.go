package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kingrea/elicit/internal/elicitation"
)

// Supported file formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

const toolName = "elicit"

// FileWriter writes the finished report to disk in each configured format.
type FileWriter struct {
	dir     string
	formats []string
	session string
	now     func() time.Time
	written []string
}

// WriterOption customizes a FileWriter.
type WriterOption func(*FileWriter)

// WithClock overrides the clock used for file names and metadata.
func WithClock(clock func() time.Time) WriterOption {
	return func(w *FileWriter) {
		if clock != nil {
			w.now = clock
		}
	}
}

// NewFileWriter builds a writer for session rooted at dir.
func NewFileWriter(dir, session string, formats []string, opts ...WriterOption) *FileWriter {
	w := &FileWriter{
		dir:     dir,
		formats: append([]string(nil), formats...),
		session: session,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// RenderReport writes one file per format and remembers the paths.
func (w *FileWriter) RenderReport(entries []elicitation.Entry) error {
	if len(w.formats) == 0 {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("report: ensure dir: %w", err)
	}
	created := w.now().UTC()
	meta := Metadata{
		SessionID:    w.session,
		CreatedAt:    created,
		Stakeholders: Names(entries),
		Tool:         toolName,
	}
	base := created.Format("20060102-150405")
	if short := shortSession(w.session); short != "" {
		base += "-" + short
	}
	w.written = w.written[:0]
	for _, format := range w.formats {
		data, ext, err := w.encode(format, meta, entries)
		if err != nil {
			return err
		}
		path := filepath.Join(w.dir, base+ext)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("report: write %s: %w", path, err)
		}
		w.written = append(w.written, path)
	}
	return nil
}

// Written returns the files produced by the last RenderReport call.
func (w *FileWriter) Written() []string {
	return append([]string(nil), w.written...)
}

func (w *FileWriter) encode(format string, meta Metadata, entries []elicitation.Entry) ([]byte, string, error) {
	switch format {
	case FormatText:
		return []byte(Text(entries) + "\n"), ".txt", nil
	case FormatMarkdown:
		data, err := WriteFrontMatter(meta, []byte(Markdown(entries)))
		return data, ".md", err
	case FormatYAML:
		data, err := YAML(meta, entries)
		return data, ".yaml", err
	default:
		return nil, "", fmt.Errorf("report: unsupported format %q", format)
	}
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
