// Package elicitation holds the data accumulated during one elicitation
// session: intake answers, the system description, stakeholders and the
// per-stakeholder requirements and personas.
package elicitation

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRecorded means a write-once field was written twice.
	ErrAlreadyRecorded = errors.New("elicitation: value already recorded")
	// ErrNotFinalized means a per-stakeholder accessor ran before the list was derived.
	ErrNotFinalized = errors.New("elicitation: stakeholder list not finalized")
	// ErrFinalized means the stakeholder map was changed after the list was derived.
	ErrFinalized = errors.New("elicitation: stakeholder list already finalized")
	// ErrCursorOutOfRange means the cursor points past the stakeholder list.
	ErrCursorOutOfRange = errors.New("elicitation: cursor out of range")
)

// Answer is one intake question with the operator's reply.
type Answer struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Entry is the final per-stakeholder record handed to report renderers.
type Entry struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Requirements []string `yaml:"requirements"`
	Persona      string   `yaml:"persona"`
}

// StakeholderMap maps names to descriptions and remembers insertion order.
type StakeholderMap struct {
	order []string
	desc  map[string]string
}

// Set adds or overwrites a stakeholder. Overwrites keep the original position.
func (m *StakeholderMap) Set(name, description string) {
	if m.desc == nil {
		m.desc = make(map[string]string)
	}
	if _, ok := m.desc[name]; !ok {
		m.order = append(m.order, name)
	}
	m.desc[name] = description
}

// Get returns the description for name.
func (m *StakeholderMap) Get(name string) (string, bool) {
	d, ok := m.desc[name]
	return d, ok
}

// Names returns stakeholder names in insertion order.
func (m *StakeholderMap) Names() []string {
	return append([]string(nil), m.order...)
}

// Len reports the number of stakeholders.
func (m *StakeholderMap) Len() int {
	return len(m.order)
}

// State is the whole session. The workflow machine owns and mutates it.
type State struct {
	Answers           []Answer
	SystemDescription string
	Stakeholders      StakeholderMap
	List              []string
	Requirements      map[string][]string
	Personas          map[string]string
	Cursor            int

	descriptionSet bool
	finalized      bool
}

// NewState returns an empty session.
func NewState() *State {
	return &State{
		Requirements: make(map[string][]string),
		Personas:     make(map[string]string),
	}
}

// RecordAnswer appends an intake answer.
func (s *State) RecordAnswer(question, answer string) {
	s.Answers = append(s.Answers, Answer{Question: question, Answer: answer})
}

// SetSystemDescription stores the model's synthesized description once.
func (s *State) SetSystemDescription(text string) error {
	if s.descriptionSet {
		return fmt.Errorf("system description: %w", ErrAlreadyRecorded)
	}
	s.SystemDescription = text
	s.descriptionSet = true
	return nil
}

// ReplaceStakeholders discards any previous map and loads pairs.
func (s *State) ReplaceStakeholders(pairs []Pair) error {
	if s.finalized {
		return ErrFinalized
	}
	s.Stakeholders = StakeholderMap{}
	for _, p := range pairs {
		s.Stakeholders.Set(p.Name, p.Description)
	}
	return nil
}

// MergeStakeholders unions pairs into the map; a repeated name wins over the earlier description.
func (s *State) MergeStakeholders(pairs []Pair) error {
	if s.finalized {
		return ErrFinalized
	}
	for _, p := range pairs {
		s.Stakeholders.Set(p.Name, p.Description)
	}
	return nil
}

// FinalizeStakeholders freezes the iteration order and resets the cursor.
func (s *State) FinalizeStakeholders() error {
	if s.finalized {
		return ErrFinalized
	}
	s.List = s.Stakeholders.Names()
	s.Cursor = 0
	s.finalized = true
	return nil
}

// Finalized reports whether the stakeholder list has been derived.
func (s *State) Finalized() bool {
	return s.finalized
}

// Remaining reports whether the cursor still points at a stakeholder.
func (s *State) Remaining() bool {
	return s.finalized && s.Cursor < len(s.List)
}

// Current returns the stakeholder under the cursor.
func (s *State) Current() (string, error) {
	if !s.finalized {
		return "", ErrNotFinalized
	}
	if s.Cursor < 0 || s.Cursor >= len(s.List) {
		return "", fmt.Errorf("%w: %d of %d", ErrCursorOutOfRange, s.Cursor, len(s.List))
	}
	return s.List[s.Cursor], nil
}

// CurrentDescription returns the description of the stakeholder under the cursor.
func (s *State) CurrentDescription() (string, string, error) {
	name, err := s.Current()
	if err != nil {
		return "", "", err
	}
	desc, _ := s.Stakeholders.Get(name)
	return name, desc, nil
}

// SetRequirements records the requirement lines of the current stakeholder.
func (s *State) SetRequirements(lines []string) error {
	name, err := s.Current()
	if err != nil {
		return err
	}
	if _, ok := s.Requirements[name]; ok {
		return fmt.Errorf("requirements for %q: %w", name, ErrAlreadyRecorded)
	}
	s.Requirements[name] = append([]string{}, lines...)
	return nil
}

// AppendRequirements extends the current stakeholder's requirement lines.
func (s *State) AppendRequirements(lines []string) error {
	name, err := s.Current()
	if err != nil {
		return err
	}
	s.Requirements[name] = append(s.Requirements[name], lines...)
	return nil
}

// CurrentRequirements returns a copy of the current stakeholder's requirement lines.
func (s *State) CurrentRequirements() (string, []string, error) {
	name, err := s.Current()
	if err != nil {
		return "", nil, err
	}
	return name, append([]string(nil), s.Requirements[name]...), nil
}

// SetPersona records the current stakeholder's persona.
func (s *State) SetPersona(text string) error {
	name, err := s.Current()
	if err != nil {
		return err
	}
	if _, ok := s.Personas[name]; ok {
		return fmt.Errorf("persona for %q: %w", name, ErrAlreadyRecorded)
	}
	s.Personas[name] = text
	return nil
}

// Advance moves the cursor to the next stakeholder.
func (s *State) Advance() error {
	if !s.finalized {
		return ErrNotFinalized
	}
	if s.Cursor >= len(s.List) {
		return fmt.Errorf("%w: %d of %d", ErrCursorOutOfRange, s.Cursor, len(s.List))
	}
	s.Cursor++
	return nil
}

// Entries joins stakeholders, requirements and personas in list order.
func (s *State) Entries() []Entry {
	entries := make([]Entry, 0, len(s.List))
	for _, name := range s.List {
		desc, _ := s.Stakeholders.Get(name)
		entries = append(entries, Entry{
			Name:         name,
			Description:  desc,
			Requirements: append([]string{}, s.Requirements[name]...),
			Persona:      s.Personas[name],
		})
	}
	return entries
}
