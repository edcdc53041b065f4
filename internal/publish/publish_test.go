package publish

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipboardPublish(t *testing.T) {
	var copied string
	c := &Clipboard{write: func(s string) error { copied = s; return nil }}
	require.NoError(t, c.Publish("prompt text"))
	assert.Equal(t, "prompt text", copied)
}

func TestClipboardUnsupported(t *testing.T) {
	c := &Clipboard{
		write:       func(string) error { t.Fatal("write must not be called"); return nil },
		unsupported: func() bool { return true },
	}
	assert.ErrorIs(t, c.Publish("x"), ErrClipboardUnavailable)
}

func TestClipboardWriteFailure(t *testing.T) {
	boom := errors.New("xclip exited 1")
	c := &Clipboard{write: func(string) error { return boom }}
	assert.ErrorIs(t, c.Publish("x"), boom)
}

func TestWriterFramesPrompt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Publish("line one\nline two\n"))
	out := buf.String()
	assert.Contains(t, out, "PROMPT (copy everything between the lines)")
	assert.Contains(t, out, rule+"\nline one\nline two\n"+rule+"\n")
}

func TestChainFallsBack(t *testing.T) {
	var buf bytes.Buffer
	failing := &Clipboard{write: func(string) error { return nil }, unsupported: func() bool { return true }}
	require.NoError(t, Chain{failing, NewWriter(&buf)}.Publish("fallback"))
	assert.Contains(t, buf.String(), "fallback")

	err := Chain{failing}.Publish("nowhere")
	assert.ErrorIs(t, err, ErrClipboardUnavailable)
}
