// internal/tui/app.go
//
// This is the terminal chat UI for elicit.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the App below, which owns the session driver
// 2. Update: operator keys become Submit calls on the driver
// 3. View: transcript, input box, progress panel and log tail
//
// Once the workflow finishes the App switches to the results screen.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/kingrea/elicit/internal/config"
	"github.com/kingrea/elicit/internal/elicitation"
	"github.com/kingrea/elicit/internal/logbook"
	"github.com/kingrea/elicit/internal/logging"
	"github.com/kingrea/elicit/internal/prompts"
	"github.com/kingrea/elicit/internal/publish"
	"github.com/kingrea/elicit/internal/report"
	"github.com/kingrea/elicit/internal/session"
	"github.com/kingrea/elicit/internal/workflow"
)

// appState represents which screen we're on
type appState int

const (
	stateChat    appState = iota // Transcript + input box
	stateResults                 // Final report
)

const (
	inputHeight  = 5
	logTailLines = 6
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	systemStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0")).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("#5B8DEF")).PaddingLeft(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithPublisher overrides how prompts are handed to the operator.
func WithPublisher(p session.Publisher) AppOption {
	return func(a *App) {
		if p != nil {
			a.publisher = p
		}
	}
}

// WithSessionID fixes the session identifier (tests).
func WithSessionID(id string) AppOption {
	return func(a *App) {
		if id = strings.TrimSpace(id); id != "" {
			a.sessionID = id
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state     appState
	config    *config.Config
	driver    *session.Driver
	logbook   *logbook.Logbook
	logger    *logging.Logger
	writer    *report.FileWriter
	publisher session.Publisher
	sessionID string

	// UI components
	input      textarea.Model
	transcript viewport.Model
	results    viewport.Model
	statusMsg  string
	err        error

	entries []elicitation.Entry

	width      int
	height     int
	leftWidth  int
	rightWidth int
}

// NewApp creates a new App bound to the project configuration and starts the session.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tui: config is required")
	}
	a := &App{
		state:     stateChat,
		config:    cfg,
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.publisher == nil {
		a.publisher = defaultPublisher(cfg)
	}
	if cfg.TranscriptEnabled() {
		if lb, err := logbook.New(cfg.TranscriptPath(), logbook.WithSession(a.sessionID)); err == nil {
			a.logbook = lb
		}
	}
	if logger, err := logging.New(cfg.ProjectDir); err == nil {
		a.logger = logger
	}
	a.writer = report.NewFileWriter(cfg.ReportDir(), a.sessionID, cfg.ReportFormats())

	a.input = newInput()
	a.transcript = viewport.New(80, 16)
	a.results = viewport.New(80, 20)

	a.driver = session.New(
		session.WithSessionID(a.sessionID),
		session.WithPublisher(a.publisher),
		session.WithReportRenderer(a.writer),
		session.WithReportRenderer(a),
		session.WithLogbook(a.logbook),
		session.WithLogger(a.logger),
	)
	if err := a.driver.Start(); err != nil {
		return nil, err
	}
	a.statusMsg = "Answer the intake questions to begin."
	a.resize()
	return a, nil
}

func newInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Type an answer or paste the model's reply…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()
	return ta
}

func defaultPublisher(cfg *config.Config) session.Publisher {
	if !cfg.ClipboardEnabled() {
		return session.PublisherFunc(func(string) error { return session.ErrPublishDisabled })
	}
	return publish.NewClipboard()
}

// Close releases log files.
func (a *App) Close() error {
	if a.logger != nil {
		return a.logger.Close()
	}
	return nil
}

// Driver exposes the session driver.
func (a *App) Driver() *session.Driver {
	return a.driver
}

// RenderReport switches to the results screen; it satisfies session.ReportRenderer.
func (a *App) RenderReport(entries []elicitation.Entry) error {
	a.entries = entries
	a.state = stateResults
	a.input.Blur()
	a.results.SetContent(a.renderResults(max(20, a.results.Width)))
	a.results.GotoTop()
	if written := a.writer.Written(); len(written) > 0 {
		names := make([]string, 0, len(written))
		for _, path := range written {
			names = append(names, filepath.Base(path))
		}
		a.statusMsg = fmt.Sprintf("Report saved to %s (%s)", a.config.ReportDir(), strings.Join(names, ", "))
	} else {
		a.statusMsg = "Elicitation complete."
	}
	return nil
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc", "q":
			if a.state == stateResults {
				return a, tea.Quit
			}
		case "enter":
			if a.state == stateChat {
				a.submit()
				return a, nil
			}
		case "pgup", "pgdown":
			if a.state == stateChat {
				var cmd tea.Cmd
				a.transcript, cmd = a.transcript.Update(msg)
				return a, cmd
			}
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case stateChat:
		a.input, cmd = a.input.Update(msg)
	case stateResults:
		a.results, cmd = a.results.Update(msg)
	}
	return a, cmd
}

// submit hands the input box to the driver. Blank input leaves everything as is.
func (a *App) submit() {
	value := a.input.Value()
	if strings.TrimSpace(value) == "" {
		return
	}
	a.input.Reset()
	err := a.driver.Submit(value)
	a.err = err
	if err != nil {
		a.statusMsg = fmt.Sprintf("Error: %v", err)
	} else if a.state == stateChat {
		a.statusMsg = a.modeHint()
	}
	a.refreshTranscript()
}

func (a *App) modeHint() string {
	switch a.driver.Mode() {
	case workflow.ModeAwaitingDescription, workflow.ModeAwaitingStakeholders,
		workflow.ModeRequirementsForCurrent, workflow.ModePersonaForCurrent:
		return "Paste the prompt into your model, then paste its reply here."
	case workflow.ModeConfirmExtraStakeholders, workflow.ModeConfirmExtraRequirements:
		return "Type yes to add more, anything else to continue."
	case workflow.ModeAddStakeholders:
		return "One stakeholder per line: Name: Description"
	case workflow.ModeAddRequirements:
		return "One requirement per line: Requirement Name: Description"
	default:
		return ""
	}
}

func (a *App) resize() {
	width := a.width
	if width <= 0 {
		width = 100
	}
	height := a.height
	if height <= 0 {
		height = 32
	}
	a.rightWidth = max(30, width/4)
	a.leftWidth = width - a.rightWidth - 4
	if a.leftWidth < 40 {
		a.leftWidth = width - 2
		a.rightWidth = 0
	}
	inner := max(20, a.leftWidth-4)
	a.input.SetWidth(inner)
	a.transcript.Width = inner
	a.transcript.Height = max(5, height-inputHeight-logTailLines-12)
	a.results.Width = max(20, width-6)
	a.results.Height = max(5, height-8)
	a.refreshTranscript()
	if a.state == stateResults {
		a.results.SetContent(a.renderResults(a.results.Width))
	}
}

func (a *App) refreshTranscript() {
	width := max(20, a.transcript.Width)
	msgs := a.driver.Messages()
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, renderMessage(msg, width))
	}
	a.transcript.SetContent(strings.Join(blocks, "\n\n"))
	a.transcript.GotoBottom()
}

func renderMessage(msg session.Message, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	switch msg.Sender {
	case session.SenderUser:
		return userStyle.Render("User:") + "\n" + wrap.Render(msg.Text)
	case session.SenderPrompt:
		return mutedStyle.Render("Prompt for the model:") + "\n" + promptStyle.Width(max(10, width-2)).Render(msg.Text)
	default:
		return systemStyle.Render("System:") + " " + wrap.Render(msg.Text)
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	header := headerStyle.Render("⬡ ELICIT · requirements & personas")
	var body string
	switch a.state {
	case stateResults:
		body = boxStyle.Width(max(20, a.width-2)).Render(a.results.View())
	default:
		left := lipgloss.JoinVertical(lipgloss.Left,
			a.transcript.View(),
			"",
			a.input.View(),
		)
		leftBox := boxStyle.Width(max(20, a.leftWidth)).Render(left)
		if a.rightWidth > 0 {
			rightBox := boxStyle.Width(max(20, a.rightWidth)).Render(a.renderProgressPanel(a.rightWidth - 4))
			body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
		} else {
			body = leftBox
		}
	}
	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" && a.state == stateChat {
		sections = append(sections, logPanel)
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

func (a *App) renderFooter() string {
	status := mutedStyle.Render(a.statusMsg)
	if a.err != nil {
		status = errorStyle.Render(a.statusMsg)
	}
	hint := "Enter → send    Alt+Enter → new line    PgUp/PgDn → scroll    Ctrl+C → quit"
	if a.state == stateResults {
		hint = "↑/↓ → scroll    q → quit"
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, mutedStyle.Render(hint))
}

func (a *App) renderProgressPanel(width int) string {
	st := a.driver.State()
	mode := a.driver.Mode()
	lines := []string{
		sectionStyle.Render("Progress"),
		fmt.Sprintf("Mode: %s", mode.FriendlyName()),
	}
	if mode == workflow.ModeIntake {
		lines = append(lines, fmt.Sprintf("Question %d/%d", len(st.Answers)+1, len(prompts.IntakeQuestions)))
	}
	names := st.List
	if !st.Finalized() {
		names = st.Stakeholders.Names()
	}
	lines = append(lines, "", sectionStyle.Render(fmt.Sprintf("Stakeholders (%d)", len(names))))
	if len(names) == 0 {
		lines = append(lines, mutedStyle.Render("None identified yet."))
	}
	for idx, name := range names {
		switch {
		case st.Finalized() && idx < st.Cursor:
			lines = append(lines, doneStyle.Render("✓ "+name))
		case st.Finalized() && idx == st.Cursor && mode.PerStakeholder():
			lines = append(lines, activeStyle.Render("▸ "+name))
		default:
			lines = append(lines, "  "+name)
		}
	}
	return lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(lines, "\n"))
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logTailLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := sectionStyle.Render(fmt.Sprintf("LOG · %s (%d)", fileName, total))
	width := max(20, a.width-6)
	for i, line := range lines {
		if runes := []rune(line); len(runes) > width {
			lines[i] = string(runes[:width-1]) + "…"
		}
	}
	body := mutedStyle.Render(strings.Join(lines, "\n"))
	return boxStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}
