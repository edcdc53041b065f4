// internal/prompts/prompts.go
//
// Builds the exact prompt text the operator pastes into the external model.
// Every builder is pure: same inputs, same bytes out.

package prompts

import (
	"fmt"
	"strings"

	"github.com/kingrea/elicit/internal/elicitation"
)

// IntakeQuestions are asked one at a time before the first prompt is built.
var IntakeQuestions = []string{
	"Describe the basic idea of the system.",
	"What is the purpose of your system?",
	"Who are the target users of your system?",
	"What external systems does the target system interact or integrate with?",
	"How does the user interact with the system?",
	"What technology is the system built with?",
	"Define the system boundaries.",
	"Are there any challenges or areas where the system should focus on?",
}

const systemDescriptionHeader = "You are a requirements engineer. Based on the provided details, write a " +
	"comprehensive system description using the NABC framework (Need, Approach, Benefit, Competition). " +
	"Clearly define the target audience's primary needs, the specific approach the system will take, " +
	"the measurable benefits it will deliver, and a summary of any competing solutions. " +
	"Ensure clarity and conciseness in the description."

const stakeholderPrompt = "Based on the system description, list all potential stakeholders relevant to " +
	"the system's success, using the format 'Name: Description'."

const requirementsTemplate = "For '%s: %s', list requirements specific to this stakeholder's needs or " +
	"interactions with the system. Use the format 'Requirement Name: Description.' Focus on clear, " +
	"actionable needs that directly support this stakeholder's role or goals. Write the requirements testable."

const personaTemplate = "Create a detailed, role-specific persona for '%s' based on the requirements listed:\n%s\n" +
	"Avoid writing requirements for the system inside the persona. Focus instead on the stakeholder's " +
	"background, primary motivations, goals, and pain points."

// SystemDescription wraps the intake answers with the NABC instruction header.
// An empty answer list still yields the header.
func SystemDescription(answers []elicitation.Answer) string {
	pairs := make([]string, 0, len(answers))
	for _, a := range answers {
		pairs = append(pairs, a.Question+"\n"+a.Answer)
	}
	return systemDescriptionHeader + "\n\n" + strings.Join(pairs, "\n")
}

// Stakeholders returns the stakeholder discovery prompt.
func Stakeholders() string {
	return stakeholderPrompt
}

// Requirements asks for testable requirements for one stakeholder.
func Requirements(name, description string) string {
	return fmt.Sprintf(requirementsTemplate, name, description)
}

// Persona asks for a narrative persona grounded in the stakeholder's requirements.
func Persona(name string, requirements []string) string {
	return fmt.Sprintf(personaTemplate, name, strings.Join(requirements, "\n"))
}
