// Package report renders the finished elicitation: one entry per
// stakeholder with its description, requirements and persona.
package report

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/elicit/internal/elicitation"
)

// Text renders entries in the plain layout shown on the results screen.
func Text(entries []elicitation.Entry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		var b strings.Builder
		fmt.Fprintf(&b, "Stakeholder: %s\nDescription: %s\n\n", e.Name, e.Description)
		b.WriteString("Requirements:\n")
		b.WriteString(strings.Join(e.Requirements, "\n"))
		b.WriteString("\n\nPersona:\n")
		b.WriteString(e.Persona)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// Markdown renders entries as a Markdown document body.
func Markdown(entries []elicitation.Entry) string {
	var b strings.Builder
	b.WriteString("# Stakeholder Requirements and Personas\n")
	if len(entries) == 0 {
		b.WriteString("\n_No stakeholders were identified._\n")
		return b.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "\n## %s\n\n", e.Name)
		if e.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", e.Description)
		}
		b.WriteString("### Requirements\n\n")
		if len(e.Requirements) == 0 {
			b.WriteString("_None recorded._\n")
		}
		for _, req := range e.Requirements {
			fmt.Fprintf(&b, "- %s\n", req)
		}
		b.WriteString("\n### Persona\n\n")
		fmt.Fprintf(&b, "%s\n", strings.TrimSpace(e.Persona))
	}
	return b.String()
}

type yamlDocument struct {
	Session      string              `yaml:"session"`
	Created      string              `yaml:"created"`
	Stakeholders []elicitation.Entry `yaml:"stakeholders"`
}

// YAML renders entries with session metadata as a YAML document.
func YAML(meta Metadata, entries []elicitation.Entry) ([]byte, error) {
	if entries == nil {
		entries = []elicitation.Entry{}
	}
	doc := yamlDocument{
		Session:      meta.SessionID,
		Created:      meta.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Stakeholders: entries,
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("report: encode yaml: %w", err)
	}
	return data, nil
}

// Names returns entry names in order.
func Names(entries []elicitation.Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}
