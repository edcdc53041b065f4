// internal/workflow/mode.go
//
// Modes of the elicitation workflow. The mode decides how the next operator
// input is read: an intake answer, a pasted model reply, a yes/no choice or
// extra lines typed by the operator.

package workflow

// Mode is the current state of the elicitation workflow.
type Mode int

const (
	ModeIntake Mode = iota
	ModeAwaitingDescription
	ModeAwaitingStakeholders
	ModeConfirmExtraStakeholders
	ModeAddStakeholders
	ModeRequirementsForCurrent
	ModeConfirmExtraRequirements
	ModeAddRequirements
	ModePersonaForCurrent
	ModeDone
)

// String returns a stable identifier for logs.
func (m Mode) String() string {
	switch m {
	case ModeIntake:
		return "intake"
	case ModeAwaitingDescription:
		return "awaiting-description"
	case ModeAwaitingStakeholders:
		return "awaiting-stakeholders"
	case ModeConfirmExtraStakeholders:
		return "confirm-extra-stakeholders"
	case ModeAddStakeholders:
		return "add-stakeholders"
	case ModeRequirementsForCurrent:
		return "requirements"
	case ModeConfirmExtraRequirements:
		return "confirm-extra-requirements"
	case ModeAddRequirements:
		return "add-requirements"
	case ModePersonaForCurrent:
		return "persona"
	case ModeDone:
		return "done"
	default:
		return "unknown"
	}
}

// FriendlyName returns a short label for the status bar.
func (m Mode) FriendlyName() string {
	switch m {
	case ModeIntake:
		return "Intake Questions"
	case ModeAwaitingDescription:
		return "Waiting for System Description"
	case ModeAwaitingStakeholders:
		return "Waiting for Stakeholders"
	case ModeConfirmExtraStakeholders:
		return "Add Stakeholders? (yes/no)"
	case ModeAddStakeholders:
		return "Adding Stakeholders"
	case ModeRequirementsForCurrent:
		return "Waiting for Requirements"
	case ModeConfirmExtraRequirements:
		return "Add Requirements? (yes/no)"
	case ModeAddRequirements:
		return "Adding Requirements"
	case ModePersonaForCurrent:
		return "Waiting for Persona"
	case ModeDone:
		return "Complete"
	default:
		return m.String()
	}
}

// IsTerminal reports whether the mode accepts no further input.
func (m Mode) IsTerminal() bool {
	return m == ModeDone
}

// PerStakeholder reports whether the mode works on the stakeholder under the cursor.
func (m Mode) PerStakeholder() bool {
	switch m {
	case ModeRequirementsForCurrent, ModeConfirmExtraRequirements, ModeAddRequirements, ModePersonaForCurrent:
		return true
	}
	return false
}
