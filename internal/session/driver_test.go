package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/elicit/internal/elicitation"
	"github.com/kingrea/elicit/internal/logbook"
	"github.com/kingrea/elicit/internal/prompts"
	"github.com/kingrea/elicit/internal/workflow"
)

type recorder struct {
	prompts []string
	reports [][]elicitation.Entry
	pubErr  error
}

func (r *recorder) Publish(prompt string) error {
	r.prompts = append(r.prompts, prompt)
	return r.pubErr
}

func (r *recorder) RenderReport(entries []elicitation.Entry) error {
	r.reports = append(r.reports, entries)
	return nil
}

func newDriver(t *testing.T, rec *recorder, opts ...Option) *Driver {
	t.Helper()
	opts = append([]Option{WithPublisher(rec), WithReportRenderer(rec), WithSessionID("test-session")}, opts...)
	d := New(opts...)
	require.NoError(t, d.Start())
	return d
}

func submitAll(t *testing.T, d *Driver, inputs ...string) {
	t.Helper()
	for _, in := range inputs {
		require.NoError(t, d.Submit(in))
	}
}

func intake(t *testing.T, d *Driver) {
	t.Helper()
	for i := range prompts.IntakeQuestions {
		require.NoError(t, d.Submit(fmt.Sprintf("  answer %d  ", i)))
	}
}

func TestStartShowsFirstQuestion(t *testing.T) {
	d := newDriver(t, &recorder{})
	msgs := d.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, SenderSystem, msgs[0].Sender)
	assert.Equal(t, prompts.IntakeQuestions[0], msgs[0].Text)
	assert.Equal(t, "test-session", d.ID())
}

func TestSubmitTrimsAndRecordsHistory(t *testing.T) {
	d := newDriver(t, &recorder{})
	require.NoError(t, d.Submit("  a chat tool \n"))
	assert.Equal(t, []string{"a chat tool"}, d.History())
	assert.Equal(t, "a chat tool", d.State().Answers[0].Answer)
	msgs := d.Messages()
	assert.Equal(t, Message{Sender: SenderUser, Text: "a chat tool", At: msgs[1].At}, msgs[1])
}

func TestBlankSubmitIsIgnored(t *testing.T) {
	rec := &recorder{}
	d := newDriver(t, rec)
	intake(t, d)
	before := len(d.Messages())
	for _, blank := range []string{"", "   ", "\n\t\n"} {
		require.NoError(t, d.Submit(blank))
	}
	assert.Len(t, d.Messages(), before)
	assert.Len(t, rec.prompts, 1)
	assert.Equal(t, workflow.ModeAwaitingDescription, d.Mode())
	assert.Len(t, d.History(), len(prompts.IntakeQuestions))
}

func TestEndToEndSession(t *testing.T) {
	rec := &recorder{}
	d := newDriver(t, rec)
	intake(t, d)
	submitAll(t, d,
		"System description from the model",
		"Alice: PM\nBob: Dev\nNotALine",
		"yes",
		"Carol: QA",
		"no",
		// Alice, with an extra requirement
		"R1: x", "yes", "R2: y", "Alice persona",
		// Bob
		"R3: z", "no", "Bob persona",
		// Carol
		"nothing structured", "no", "Carol persona",
	)

	assert.True(t, d.Done())
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, d.State().List)
	require.Len(t, rec.reports, 1)
	entries := rec.reports[0]
	require.Len(t, entries, 3)
	assert.Equal(t, elicitation.Entry{Name: "Alice", Description: "PM", Requirements: []string{"R1: x", "R2: y"}, Persona: "Alice persona"}, entries[0])
	assert.Equal(t, []string{"R3: z"}, entries[1].Requirements)
	assert.Empty(t, entries[2].Requirements)

	// 1 system description + 1 stakeholder + 3 requirements + 3 personas
	require.Len(t, rec.prompts, 8)
	assert.Equal(t, prompts.Stakeholders(), rec.prompts[1])
	assert.Equal(t, prompts.Requirements("Alice", "PM"), rec.prompts[2])
	assert.Equal(t, prompts.Persona("Alice", []string{"R1: x", "R2: y"}), rec.prompts[3])
	assert.Equal(t, prompts.Requirements("Carol", "QA"), rec.prompts[6])

	require.NoError(t, d.Submit("after the end"))
	assert.Len(t, rec.reports, 1)
	assert.Equal(t, workflow.ModeDone, d.Mode())
}

func TestPublishFailureIsReportedNotFatal(t *testing.T) {
	rec := &recorder{pubErr: errors.New("no clipboard")}
	d := newDriver(t, rec)
	intake(t, d)

	msgs := d.Messages()
	last := msgs[len(msgs)-2]
	assert.Equal(t, SenderSystem, last.Sender)
	assert.Contains(t, last.Text, "no clipboard")
	assert.Equal(t, SenderPrompt, msgs[len(msgs)-3].Sender)
	assert.Equal(t, workflow.ModeAwaitingDescription, d.Mode())
}

func TestDisabledPublisherIsNotAFailure(t *testing.T) {
	book, err := logbook.New(filepath.Join(t.TempDir(), "transcript.log"))
	require.NoError(t, err)
	rec := &recorder{pubErr: ErrPublishDisabled}
	d := newDriver(t, rec, WithLogbook(book))
	intake(t, d)

	msgs := d.Messages()
	assert.Equal(t, SenderPrompt, msgs[len(msgs)-3].Sender)
	assert.Equal(t, promptShownNotice, msgs[len(msgs)-2].Text)
	for _, msg := range msgs {
		assert.NotContains(t, msg.Text, "Could not publish")
	}
	lines, _ := book.Tail(50)
	for _, line := range lines {
		assert.NotContains(t, line, " WARN ")
	}
	assert.Equal(t, workflow.ModeAwaitingDescription, d.Mode())
}

func TestInternalFaultStopsSession(t *testing.T) {
	st := elicitation.NewState()
	require.NoError(t, st.FinalizeStakeholders())
	d := New(WithMachine(workflow.Resume(workflow.ModePersonaForCurrent, st)))

	err := d.Submit("persona for nobody")
	require.ErrorIs(t, err, elicitation.ErrCursorOutOfRange)
	assert.Error(t, d.Fault())
	assert.ErrorIs(t, d.Submit("again"), ErrStopped)
	assert.Len(t, d.History(), 1)
}

func TestRendererErrorsAreReturned(t *testing.T) {
	st := elicitation.NewState()
	require.NoError(t, st.ReplaceStakeholders(nil))
	d := New(
		WithMachine(workflow.Resume(workflow.ModeConfirmExtraStakeholders, st)),
		WithReportRenderer(RendererFunc(func([]elicitation.Entry) error { return errors.New("disk full") })),
	)
	err := d.Submit("no")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, d.Done())
}

func TestTranscriptIsJournaled(t *testing.T) {
	book, err := logbook.New(filepath.Join(t.TempDir(), "transcript.log"))
	require.NoError(t, err)
	d := newDriver(t, &recorder{}, WithLogbook(book))
	require.NoError(t, d.Submit("first answer"))

	lines, _ := book.Tail(20)
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "Session test-session started")
	assert.Contains(t, joined, "User: first answer")
	assert.Contains(t, joined, "System: "+prompts.IntakeQuestions[1])
}
