// Package console runs a session over plain line-oriented streams, for
// pipes, CI transcripts and terminals where the full-screen UI is unwanted.
//
// Because model replies span several lines, one input ends at a line that
// holds only "." (or at end of input).
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kingrea/elicit/internal/elicitation"
	"github.com/kingrea/elicit/internal/report"
	"github.com/kingrea/elicit/internal/session"
)

// Terminator ends one multi-line input.
const Terminator = "."

// Console prints new transcript messages after each submit.
type Console struct {
	in     io.Reader
	out    io.Writer
	driver *session.Driver
	shown  int
}

// New builds a console. Attach it to a driver with Run.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out}
}

// RenderReport prints the final report; it satisfies session.ReportRenderer.
func (c *Console) RenderReport(entries []elicitation.Entry) error {
	_, err := fmt.Fprintf(c.out, "\n==================== FINAL RESULTS ====================\n%s\n", report.Text(entries))
	return err
}

// Run starts the driver and feeds it inputs until the session is done or input ends.
func (c *Console) Run(driver *session.Driver) error {
	c.driver = driver
	if err := driver.Start(); err != nil {
		return err
	}
	c.flush()

	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var block []string
	submit := func() error {
		text := strings.Join(block, "\n")
		block = block[:0]
		err := driver.Submit(text)
		c.flush()
		return err
	}
	for !driver.Done() && scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != Terminator {
			block = append(block, line)
			continue
		}
		if err := submit(); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("console: read input: %w", err)
	}
	if !driver.Done() && len(block) > 0 {
		return submit()
	}
	return nil
}

func (c *Console) flush() {
	msgs := c.driver.Messages()
	for _, msg := range msgs[c.shown:] {
		switch msg.Sender {
		case session.SenderPrompt:
			// the publisher prints or copies prompts itself
		case session.SenderUser:
			// already on the operator's screen
		default:
			fmt.Fprintf(c.out, "%s: %s\n\n", msg.Sender, msg.Text)
		}
	}
	c.shown = len(msgs)
	if !c.driver.Done() && c.driver.Fault() == nil {
		fmt.Fprintf(c.out, "[%s] end your input with a line containing only %q\n> ", c.driver.Mode().FriendlyName(), Terminator)
	}
}
