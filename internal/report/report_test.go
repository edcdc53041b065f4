package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/elicit/internal/elicitation"
)

func sampleEntries() []elicitation.Entry {
	return []elicitation.Entry{
		{Name: "Alice", Description: "PM", Requirements: []string{"R1: x", "R2: y"}, Persona: "Alice plans."},
		{Name: "Bob", Description: "Dev", Requirements: []string{}, Persona: "Bob builds."},
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
}

func TestTextLayout(t *testing.T) {
	want := "Stakeholder: Alice\nDescription: PM\n\nRequirements:\nR1: x\nR2: y\n\nPersona:\nAlice plans." +
		"\n\n" +
		"Stakeholder: Bob\nDescription: Dev\n\nRequirements:\n\n\nPersona:\nBob builds."
	assert.Equal(t, want, Text(sampleEntries()))
	assert.Equal(t, "", Text(nil))
}

func TestMarkdownListsEveryStakeholderInOrder(t *testing.T) {
	md := Markdown(sampleEntries())
	alice := strings.Index(md, "## Alice")
	bob := strings.Index(md, "## Bob")
	require.GreaterOrEqual(t, alice, 0)
	assert.Greater(t, bob, alice)
	assert.Contains(t, md, "- R1: x\n- R2: y\n")
	assert.Contains(t, md, "_None recorded._")
	assert.Contains(t, Markdown(nil), "_No stakeholders were identified._")
}

// splitFrontMatter decodes the fenced YAML block at the top of a report.
func splitFrontMatter(t *testing.T, doc []byte) (elicitEnvelope, string) {
	t.Helper()
	text := string(doc)
	require.True(t, strings.HasPrefix(text, "---\n"), "report must start with a front matter fence")
	head, body, ok := strings.Cut(text[4:], "\n---\n")
	require.True(t, ok, "front matter must be closed")
	var envelope elicitEnvelope
	require.NoError(t, yaml.Unmarshal([]byte(head), &envelope))
	return envelope, strings.TrimLeft(body, "\n")
}

func TestWriteFrontMatter(t *testing.T) {
	meta := Metadata{SessionID: "abc-123", CreatedAt: fixedClock(), Stakeholders: []string{"Alice", "Bob"}, Tool: "elicit"}
	doc, err := WriteFrontMatter(meta, []byte("# body\n"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(doc), "---\nelicit:\n"))

	envelope, body := splitFrontMatter(t, doc)
	assert.Equal(t, elicitMetadata{
		Session:      "abc-123",
		Tool:         "elicit",
		Created:      "2024-05-06T07:08:09Z",
		Stakeholders: []string{"Alice", "Bob"},
	}, envelope.Elicit)
	assert.Equal(t, "# body\n", body)

	_, err = WriteFrontMatter(Metadata{}, nil)
	assert.Error(t, err)
}

func TestFileWriterWritesEachFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w := NewFileWriter(dir, "0123456789abcdef", []string{FormatMarkdown, FormatYAML, FormatText}, WithClock(fixedClock))
	require.NoError(t, w.RenderReport(sampleEntries()))

	written := w.Written()
	require.Len(t, written, 3)
	assert.Equal(t, filepath.Join(dir, "20240506-070809-01234567.md"), written[0])
	assert.Equal(t, filepath.Join(dir, "20240506-070809-01234567.yaml"), written[1])
	assert.Equal(t, filepath.Join(dir, "20240506-070809-01234567.txt"), written[2])

	md, err := os.ReadFile(written[0])
	require.NoError(t, err)
	envelope, body := splitFrontMatter(t, md)
	assert.Equal(t, []string{"Alice", "Bob"}, envelope.Elicit.Stakeholders)
	assert.Contains(t, body, "## Alice")

	raw, err := os.ReadFile(written[1])
	require.NoError(t, err)
	var doc yamlDocument
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	assert.Equal(t, "0123456789abcdef", doc.Session)
	require.Len(t, doc.Stakeholders, 2)
	assert.Equal(t, []string{"R1: x", "R2: y"}, doc.Stakeholders[0].Requirements)

	txt, err := os.ReadFile(written[2])
	require.NoError(t, err)
	assert.Equal(t, Text(sampleEntries())+"\n", string(txt))
}

func TestFileWriterWithoutFormatsIsNoOp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w := NewFileWriter(dir, "s", nil)
	require.NoError(t, w.RenderReport(sampleEntries()))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestFileWriterRejectsUnknownFormat(t *testing.T) {
	w := NewFileWriter(t.TempDir(), "s", []string{"pdf"})
	assert.Error(t, w.RenderReport(sampleEntries()))
}
