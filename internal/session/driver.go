// internal/session/driver.go
//
// The driver runs one input-processing cycle per Submit: trim, record the
// text in the transcript, hand it to the workflow machine and carry out the
// effects the machine asks for (notices, prompt publishing, the report).

package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/elicit/internal/elicitation"
	"github.com/kingrea/elicit/internal/logbook"
	"github.com/kingrea/elicit/internal/logging"
	"github.com/kingrea/elicit/internal/workflow"
)

var (
	// ErrStopped is returned by Submit after an internal fault stopped the session.
	ErrStopped = errors.New("session: stopped after internal error")
	// ErrPublishDisabled is returned by a Publisher the operator switched off.
	// The prompt stays in the transcript and no failure is reported.
	ErrPublishDisabled = errors.New("session: publishing disabled")
)

// Publisher hands a prompt to the operator (clipboard, screen, ...).
type Publisher interface {
	Publish(prompt string) error
}

// ReportRenderer receives the finished entries exactly once.
type ReportRenderer interface {
	RenderReport(entries []elicitation.Entry) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(prompt string) error

// Publish calls f.
func (f PublisherFunc) Publish(prompt string) error { return f(prompt) }

// RendererFunc adapts a function to ReportRenderer.
type RendererFunc func(entries []elicitation.Entry) error

// RenderReport calls f.
func (f RendererFunc) RenderReport(entries []elicitation.Entry) error { return f(entries) }

// Sender identifies who produced a transcript message.
type Sender string

const (
	SenderSystem Sender = "System"
	SenderUser   Sender = "User"
	SenderPrompt Sender = "Prompt"
)

// Message is one transcript line.
type Message struct {
	Sender Sender
	Text   string
	At     time.Time
}

const (
	promptCopiedNotice = "--- Prompt copied to clipboard ---"
	promptShownNotice  = "--- Copy the prompt above into the model ---"
	publishFailedFmt   = "Could not publish the prompt (%v). Copy it from the transcript above."
)

// Option customizes a Driver.
type Option func(*Driver)

// WithPublisher sets the prompt publisher.
func WithPublisher(p Publisher) Option {
	return func(d *Driver) {
		if p != nil {
			d.publisher = p
		}
	}
}

// WithReportRenderer adds a report renderer. Renderers run in the order added.
func WithReportRenderer(r ReportRenderer) Option {
	return func(d *Driver) {
		if r != nil {
			d.renderers = append(d.renderers, r)
		}
	}
}

// WithLogbook journals the transcript to lb.
func WithLogbook(lb *logbook.Logbook) Option {
	return func(d *Driver) {
		d.logbook = lb
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithClock overrides message timestamps.
func WithClock(clock func() time.Time) Option {
	return func(d *Driver) {
		if clock != nil {
			d.now = clock
		}
	}
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(d *Driver) {
		if id = strings.TrimSpace(id); id != "" {
			d.id = id
		}
	}
}

// WithMachine drives an existing machine instead of a fresh one.
func WithMachine(m *workflow.Machine) Option {
	return func(d *Driver) {
		if m != nil {
			d.machine = m
		}
	}
}

// Driver owns one elicitation session. It is not safe for concurrent use;
// the operator surface must call Submit serially.
type Driver struct {
	id        string
	machine   *workflow.Machine
	publisher Publisher
	renderers []ReportRenderer
	logbook   *logbook.Logbook
	logger    *logging.Logger
	now       func() time.Time

	messages []Message
	history  []string
	reported bool
	fault    error
}

// New creates a driver for a fresh session.
func New(opts ...Option) *Driver {
	d := &Driver{
		id:        uuid.NewString(),
		machine:   workflow.NewMachine(nil),
		publisher: PublisherFunc(func(string) error { return nil }),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// ID returns the session identifier.
func (d *Driver) ID() string { return d.id }

// Mode returns the workflow mode.
func (d *Driver) Mode() workflow.Mode { return d.machine.Mode() }

// State returns the accumulated session data.
func (d *Driver) State() *elicitation.State { return d.machine.State() }

// Done reports whether the report has been rendered.
func (d *Driver) Done() bool { return d.machine.Mode().IsTerminal() }

// Fault returns the internal error that stopped the session, if any.
func (d *Driver) Fault() error { return d.fault }

// Messages returns a copy of the transcript.
func (d *Driver) Messages() []Message {
	return append([]Message(nil), d.messages...)
}

// History returns every accepted operator input in order.
func (d *Driver) History() []string {
	return append([]string(nil), d.history...)
}

// Start shows the opening question.
func (d *Driver) Start() error {
	d.logInfo("Session %s started", d.id)
	return d.apply(d.machine.Start())
}

// Submit processes one operator input. Blank input is ignored.
func (d *Driver) Submit(raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}
	if d.fault != nil {
		return ErrStopped
	}
	d.say(SenderUser, text)
	d.history = append(d.history, text)

	before := d.machine.Mode()
	effects, err := d.machine.Step(text)
	if err != nil {
		d.fault = err
		d.logError("Session %s stopped in %s: %v", d.id, before, err)
		d.say(SenderSystem, fmt.Sprintf("Internal error, the session cannot continue: %v", err))
		return err
	}
	if after := d.machine.Mode(); after != before {
		d.logInfo("Mode %s -> %s", before, after)
	}
	return d.apply(effects)
}

func (d *Driver) apply(effects []workflow.Effect) error {
	for _, effect := range effects {
		switch effect.Kind {
		case workflow.EffectNotice:
			d.say(SenderSystem, effect.Text)
		case workflow.EffectPublishPrompt:
			d.publish(effect.Text)
		case workflow.EffectRenderReport:
			if err := d.render(effect.Entries); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Driver) publish(prompt string) {
	d.say(SenderPrompt, prompt)
	err := d.publisher.Publish(prompt)
	switch {
	case errors.Is(err, ErrPublishDisabled):
		d.say(SenderSystem, promptShownNotice)
		return
	case err != nil:
		d.logWarn("Publish failed: %v", err)
		d.say(SenderSystem, fmt.Sprintf(publishFailedFmt, err))
		return
	}
	d.say(SenderSystem, promptCopiedNotice)
}

func (d *Driver) render(entries []elicitation.Entry) error {
	if d.reported {
		return nil
	}
	d.reported = true
	d.logInfo("Rendering report with %d stakeholder(s)", len(entries))
	var errs []error
	for _, r := range d.renderers {
		if err := r.RenderReport(entries); err != nil {
			d.logError("Report renderer failed: %v", err)
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("session: render report: %w", err)
	}
	return nil
}

func (d *Driver) say(sender Sender, text string) {
	d.messages = append(d.messages, Message{Sender: sender, Text: text, At: d.now()})
	if d.logbook != nil && sender != SenderPrompt {
		d.logbook.Say(string(sender), text)
	}
}

func (d *Driver) logInfo(format string, args ...any) {
	if d.logbook != nil {
		d.logbook.Info(format, args...)
	}
	d.logger.Printf(format, args...)
}

func (d *Driver) logWarn(format string, args ...any) {
	if d.logbook != nil {
		d.logbook.Warn(format, args...)
	}
	d.logger.Printf("WARN "+format, args...)
}

func (d *Driver) logError(format string, args ...any) {
	if d.logbook != nil {
		d.logbook.Error(format, args...)
	}
	d.logger.Printf("ERROR "+format, args...)
}
