package workflow

import (
	"fmt"
	"strings"

	"github.com/kingrea/elicit/internal/elicitation"
	"github.com/kingrea/elicit/internal/prompts"
)

// EffectKind tells the driver what to do with an Effect.
type EffectKind int

const (
	// EffectNotice is a system line shown to the operator.
	EffectNotice EffectKind = iota
	// EffectPublishPrompt carries prompt text for the external model.
	EffectPublishPrompt
	// EffectRenderReport carries the final per-stakeholder entries.
	EffectRenderReport
)

// Effect is a side effect requested by a transition. The machine never performs them itself.
type Effect struct {
	Kind    EffectKind
	Text    string
	Entries []elicitation.Entry
}

func notice(format string, args ...any) Effect {
	return Effect{Kind: EffectNotice, Text: fmt.Sprintf(format, args...)}
}

func publish(prompt string) Effect {
	return Effect{Kind: EffectPublishPrompt, Text: prompt}
}

const (
	pasteDescriptionNotice  = "Paste this in the LLM input field and chat until it understands the system. Once ready, paste the LLM's response here to continue."
	pasteReplyNotice        = "Paste this in the LLM input field and return its response here to continue."
	askExtraStakeholders    = "Would you like to add any additional stakeholders? (yes/no)"
	askStakeholderLines     = "Please add stakeholders in the format 'Name: Description'"
	askExtraRequirements    = "Would you like to add additional requirements? (yes/no)"
	askRequirementLines     = "List additional requirements in 'Requirement Name: Description' format."
	stakeholdersIdentified  = "--- Stakeholders Identified ---"
	stakeholdersAdded       = "--- %d stakeholder(s) added ---"
	requirementsIdentified  = "--- Requirements for '%s' Identified ---"
	requirementsAdded       = "--- Additional requirements added ---"
	requirementPromptNotice = "--- Requirement prompt for '%s' copied ---"
	personaPromptNotice     = "--- Persona prompt for '%s' copied ---"
	reportNotice            = "--- Elicitation complete: %d stakeholder(s) ---"
)

// Start returns the effects shown before any input: the first intake question.
func Start(st *elicitation.State) []Effect {
	return askQuestion(st)
}

// Transition applies one operator input to the session and returns the next
// mode with the effects the driver must perform. Whitespace-only input and
// input in the terminal mode change nothing. An error means the session data
// and the mode disagree; the caller should stop the session.
func Transition(mode Mode, st *elicitation.State, input string) (Mode, []Effect, error) {
	input = strings.TrimSpace(input)
	if input == "" || mode.IsTerminal() {
		return mode, nil, nil
	}
	switch mode {
	case ModeIntake:
		return intake(st, input)
	case ModeAwaitingDescription:
		if err := st.SetSystemDescription(input); err != nil {
			return mode, nil, err
		}
		return ModeAwaitingStakeholders, []Effect{publish(prompts.Stakeholders()), notice(pasteReplyNotice)}, nil
	case ModeAwaitingStakeholders:
		if err := st.ReplaceStakeholders(elicitation.ParseEntries(input)); err != nil {
			return mode, nil, err
		}
		return ModeConfirmExtraStakeholders, []Effect{notice(stakeholdersIdentified), notice(askExtraStakeholders)}, nil
	case ModeConfirmExtraStakeholders:
		if isYes(input) {
			return ModeAddStakeholders, []Effect{notice(askStakeholderLines)}, nil
		}
		if err := st.FinalizeStakeholders(); err != nil {
			return mode, nil, err
		}
		return nextStakeholder(st)
	case ModeAddStakeholders:
		pairs := elicitation.ParseEntries(input)
		if err := st.MergeStakeholders(pairs); err != nil {
			return mode, nil, err
		}
		return ModeConfirmExtraStakeholders, []Effect{notice(stakeholdersAdded, len(pairs)), notice(askExtraStakeholders)}, nil
	case ModeRequirementsForCurrent:
		name, err := st.Current()
		if err != nil {
			return mode, nil, err
		}
		if err := st.SetRequirements(elicitation.ParseRequirementLines(input)); err != nil {
			return mode, nil, err
		}
		return ModeConfirmExtraRequirements, []Effect{notice(requirementsIdentified, name), notice(askExtraRequirements)}, nil
	case ModeConfirmExtraRequirements:
		if isYes(input) {
			return ModeAddRequirements, []Effect{notice(askRequirementLines)}, nil
		}
		return personaPrompt(st, nil)
	case ModeAddRequirements:
		if err := st.AppendRequirements(elicitation.ParseRequirementLines(input)); err != nil {
			return mode, nil, err
		}
		return personaPrompt(st, []Effect{notice(requirementsAdded)})
	case ModePersonaForCurrent:
		if err := st.SetPersona(input); err != nil {
			return mode, nil, err
		}
		if err := st.Advance(); err != nil {
			return mode, nil, err
		}
		return nextStakeholder(st)
	}
	return mode, nil, nil
}

func intake(st *elicitation.State, input string) (Mode, []Effect, error) {
	idx := len(st.Answers)
	if idx >= len(prompts.IntakeQuestions) {
		return ModeIntake, nil, fmt.Errorf("workflow: intake answer %d beyond %d questions", idx+1, len(prompts.IntakeQuestions))
	}
	st.RecordAnswer(prompts.IntakeQuestions[idx], input)
	if len(st.Answers) < len(prompts.IntakeQuestions) {
		return ModeIntake, askQuestion(st), nil
	}
	return ModeAwaitingDescription, []Effect{
		publish(prompts.SystemDescription(st.Answers)),
		notice(pasteDescriptionNotice),
	}, nil
}

func askQuestion(st *elicitation.State) []Effect {
	idx := len(st.Answers)
	if idx >= len(prompts.IntakeQuestions) {
		return nil
	}
	return []Effect{{Kind: EffectNotice, Text: prompts.IntakeQuestions[idx]}}
}

// nextStakeholder publishes the requirements prompt for the stakeholder under
// the cursor, or finishes the session when the list is exhausted.
func nextStakeholder(st *elicitation.State) (Mode, []Effect, error) {
	if !st.Remaining() {
		entries := st.Entries()
		return ModeDone, []Effect{
			notice(reportNotice, len(entries)),
			{Kind: EffectRenderReport, Entries: entries},
		}, nil
	}
	name, desc, err := st.CurrentDescription()
	if err != nil {
		return ModeDone, nil, err
	}
	return ModeRequirementsForCurrent, []Effect{
		publish(prompts.Requirements(name, desc)),
		notice(requirementPromptNotice, name),
	}, nil
}

func personaPrompt(st *elicitation.State, effects []Effect) (Mode, []Effect, error) {
	name, reqs, err := st.CurrentRequirements()
	if err != nil {
		return ModeConfirmExtraRequirements, nil, err
	}
	effects = append(effects, publish(prompts.Persona(name, reqs)), notice(personaPromptNotice, name))
	return ModePersonaForCurrent, effects, nil
}

func isYes(input string) bool {
	return strings.ToLower(strings.TrimSpace(input)) == "yes"
}

// Machine pairs a mode with the session it mutates.
type Machine struct {
	mode  Mode
	state *elicitation.State
}

// NewMachine starts a machine in intake mode. A nil state starts an empty session.
func NewMachine(st *elicitation.State) *Machine {
	if st == nil {
		st = elicitation.NewState()
	}
	return &Machine{mode: ModeIntake, state: st}
}

// Resume builds a machine at an arbitrary mode, mostly for tests.
func Resume(mode Mode, st *elicitation.State) *Machine {
	m := NewMachine(st)
	m.mode = mode
	return m
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// State returns the session data.
func (m *Machine) State() *elicitation.State {
	return m.state
}

// Start returns the opening effects for the current mode.
func (m *Machine) Start() []Effect {
	if m.mode != ModeIntake {
		return nil
	}
	return Start(m.state)
}

// Step applies one input. On error the mode is left unchanged.
func (m *Machine) Step(input string) ([]Effect, error) {
	next, effects, err := Transition(m.mode, m.state, input)
	if err != nil {
		return nil, fmt.Errorf("workflow: %s: %w", m.mode, err)
	}
	m.mode = next
	return effects, nil
}
