package report

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Metadata describes a written report.
type Metadata struct {
	SessionID    string
	CreatedAt    time.Time
	Stakeholders []string
	Tool         string
}

// WriteFrontMatter renders metadata + body with YAML fences.
func WriteFrontMatter(meta Metadata, body []byte) ([]byte, error) {
	if meta.SessionID == "" {
		return nil, fmt.Errorf("report: metadata missing session id")
	}
	envelope := elicitEnvelope{}
	envelope.fromMetadata(meta)
	data, err := yaml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("report: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

type elicitEnvelope struct {
	Elicit elicitMetadata `yaml:"elicit"`
}

type elicitMetadata struct {
	Session      string   `yaml:"session"`
	Tool         string   `yaml:"tool,omitempty"`
	Created      string   `yaml:"created"`
	Stakeholders []string `yaml:"stakeholders,omitempty"`
}

func (e *elicitEnvelope) fromMetadata(meta Metadata) {
	e.Elicit.Session = meta.SessionID
	e.Elicit.Tool = meta.Tool
	e.Elicit.Created = meta.CreatedAt.UTC().Format(time.RFC3339)
	e.Elicit.Stakeholders = append([]string(nil), meta.Stakeholders...)
}
