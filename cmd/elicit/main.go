// cmd/elicit/main.go
//
// This is the entry point for the elicit CLI.
// When you run `elicit` from any directory, this is what executes.
//
// Flow:
// 1. Create .elicit/ in the project directory and load its config
// 2. On an interactive terminal, launch the full-screen TUI
// 3. Otherwise (or with --plain) run the line-oriented console session

package main

import (
	"fmt"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kingrea/elicit/internal/config"
	"github.com/kingrea/elicit/internal/console"
	"github.com/kingrea/elicit/internal/logbook"
	"github.com/kingrea/elicit/internal/logging"
	"github.com/kingrea/elicit/internal/publish"
	"github.com/kingrea/elicit/internal/report"
	"github.com/kingrea/elicit/internal/session"
	"github.com/kingrea/elicit/internal/tui"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "elicit"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		projectDir  string
		plain       bool
		noClipboard bool
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Guided requirements and persona elicitation",
		Long: `Elicit walks you through describing a software system, then builds
prompts for your language model to identify stakeholders, list their
requirements and write a persona for each one.

Paste each prompt into the model and paste its reply back. The finished
report is written to .elicit/reports/.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectDir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				projectDir = cwd
			}
			return run(projectDir, plain, noClipboard)
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project", "p", "", "Project directory (default: current directory)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Use the line-oriented console instead of the full-screen UI")
	cmd.Flags().BoolVar(&noClipboard, "no-clipboard", false, "Print prompts instead of copying them to the clipboard")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(projectDir string, plain, noClipboard bool) error {
	if err := config.InitElicitDir(projectDir); err != nil {
		return fmt.Errorf("initialize %s directory: %w", config.ElicitDir, err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if noClipboard {
		cfg.DisableClipboard()
	}

	if plain || !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runConsole(cfg)
	}

	app, err := tui.NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	// tea.WithAltScreen uses the alternate screen buffer (like vim does)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	printReportLocation(cfg, app.Driver())
	return nil
}

func runConsole(cfg *config.Config) error {
	var chain publish.Chain
	if cfg.ClipboardEnabled() {
		chain = append(chain, publish.NewClipboard())
	}
	chain = append(chain, publish.NewWriter(os.Stdout))

	logger, err := logging.New(cfg.ProjectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	sessionID := uuid.NewString()
	c := console.New(os.Stdin, os.Stdout)
	writer := report.NewFileWriter(cfg.ReportDir(), sessionID, cfg.ReportFormats())
	opts := []session.Option{
		session.WithSessionID(sessionID),
		session.WithPublisher(chain),
		session.WithReportRenderer(c),
		session.WithReportRenderer(writer),
		session.WithLogger(logger),
	}
	if cfg.TranscriptEnabled() {
		if book, err := logbook.New(cfg.TranscriptPath(), logbook.WithSession(sessionID)); err == nil {
			opts = append(opts, session.WithLogbook(book))
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if err := c.Run(session.New(opts...)); err != nil {
		return err
	}
	for _, path := range writer.Written() {
		fmt.Printf("Report written to %s\n", path)
	}
	return nil
}

func printReportLocation(cfg *config.Config, driver *session.Driver) {
	if driver == nil || !driver.Done() {
		return
	}
	fmt.Printf("Elicitation complete. Reports are in %s\n", cfg.ReportDir())
}
