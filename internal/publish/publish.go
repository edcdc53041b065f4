// Package publish hands generated prompts to the operator: on the system
// clipboard when one is reachable, otherwise framed on an output stream.
package publish

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable means no clipboard utility could be found.
var ErrClipboardUnavailable = errors.New("publish: clipboard unavailable")

// Clipboard copies each prompt to the system clipboard.
type Clipboard struct {
	write       func(string) error
	unsupported func() bool
}

// NewClipboard returns a publisher backed by github.com/atotto/clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{
		write:       clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

// Publish copies prompt to the clipboard.
func (c *Clipboard) Publish(prompt string) error {
	if c.unsupported != nil && c.unsupported() {
		return ErrClipboardUnavailable
	}
	if err := c.write(prompt); err != nil {
		return fmt.Errorf("publish: copy to clipboard: %w", err)
	}
	return nil
}

// Writer prints each prompt between rules so it can be selected by hand.
type Writer struct {
	out io.Writer
}

// NewWriter returns a publisher that prints to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

const rule = "----------------------------------------------------------------"

// Publish writes the framed prompt.
func (w *Writer) Publish(prompt string) error {
	_, err := fmt.Fprintf(w.out, "%s\nPROMPT (copy everything between the lines)\n%s\n%s\n%s\n",
		rule, rule, strings.TrimRight(prompt, "\n"), rule)
	if err != nil {
		return fmt.Errorf("publish: write prompt: %w", err)
	}
	return nil
}

// Chain tries each publisher in order until one succeeds.
type Chain []interface{ Publish(string) error }

// Publish returns the joined errors when every publisher fails.
func (c Chain) Publish(prompt string) error {
	var errs []error
	for _, p := range c {
		if p == nil {
			continue
		}
		err := p.Publish(prompt)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
