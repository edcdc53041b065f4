// internal/config/config.go
//
// This package handles configuration and the .elicit directory structure.
// Every project that runs elicit gets a .elicit/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ElicitDir is the name of the directory we create in each project
	ElicitDir = ".elicit"

	defaultReportDir = "reports"
)

// Report formats written by the file renderer.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

const defaultProjectConfigYAML = `# elicit project configuration
version: 1

# Copy each generated prompt to the system clipboard. When the clipboard is
# unavailable the prompt is printed in the transcript instead.
clipboard:
  enabled: true

# Where finished elicitation reports are written, relative to .elicit/.
# Supported formats: text, markdown, yaml.
report:
  dir: reports
  formats:
    - markdown
    - yaml

# Journal every message of the session to .elicit/logs/transcript.log.
transcript:
  enabled: true
`

// ClipboardConfig controls prompt publishing.
type ClipboardConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ReportConfig controls report export.
type ReportConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// TranscriptConfig controls the session journal.
type TranscriptConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ProjectConfig models .elicit/config.yaml.
type ProjectConfig struct {
	Version    int              `yaml:"version"`
	Clipboard  ClipboardConfig  `yaml:"clipboard"`
	Report     ReportConfig     `yaml:"report"`
	Transcript TranscriptConfig `yaml:"transcript"`
}

// Config holds the runtime configuration for elicit.
type Config struct {
	// ProjectDir is the directory where the operator ran `elicit` from
	ProjectDir string

	// ElicitProjectDir is ProjectDir/.elicit
	ElicitProjectDir string

	Project ProjectConfig
}

// InitElicitDir creates the .elicit directory structure in the given project directory.
//
// Structure created:
// .elicit/
// ├── config.yaml
// ├── logs/      <- elicit.log and transcript.log
// └── reports/   <- finished elicitation reports
func InitElicitDir(projectDir string) error {
	elicitDir := filepath.Join(projectDir, ElicitDir)

	dirs := []string{
		filepath.Join(elicitDir, "logs"),
		filepath.Join(elicitDir, defaultReportDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(elicitDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:       projectDir,
		ElicitProjectDir: filepath.Join(projectDir, ElicitDir),
		Project:          defaultProjectConfig(),
	}
	cfg.Project.normalize(cfg.ElicitProjectDir)

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.ElicitProjectDir, "logs")
}

// TranscriptPath returns the session journal path
func (c *Config) TranscriptPath() string {
	return filepath.Join(c.LogsDir(), "transcript.log")
}

// ReportDir returns the absolute directory reports are written to
func (c *Config) ReportDir() string {
	return c.Project.Report.Dir
}

// ReportFormats returns the normalized report formats.
func (c *Config) ReportFormats() []string {
	return append([]string(nil), c.Project.Report.Formats...)
}

// ClipboardEnabled reports whether prompts should be copied to the clipboard.
func (c *Config) ClipboardEnabled() bool {
	return c.Project.Clipboard.Enabled
}

// TranscriptEnabled reports whether the session journal is written.
func (c *Config) TranscriptEnabled() bool {
	return c.Project.Transcript.Enabled
}

// DisableClipboard turns off clipboard publishing for this run only.
func (c *Config) DisableClipboard() {
	c.Project.Clipboard.Enabled = false
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.ElicitProjectDir, "config.yaml")
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ElicitProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:   1,
		Clipboard: ClipboardConfig{Enabled: true},
		Report: ReportConfig{
			Dir:     defaultReportDir,
			Formats: []string{FormatMarkdown, FormatYAML},
		},
		Transcript: TranscriptConfig{Enabled: true},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Report.Dir) == "" {
		pc.Report.Dir = defaultReportDir
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Report.Dir = resolvePath(base, pc.Report.Dir)
	var formats []string
	for _, f := range pc.Report.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || contains(formats, f) {
			continue
		}
		formats = append(formats, f)
	}
	pc.Report.Formats = formats
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	for i, f := range pc.Report.Formats {
		switch f {
		case FormatText, FormatMarkdown, FormatYAML:
		default:
			return fmt.Errorf("report.formats[%d]: unknown format %q (want text, markdown or yaml)", i, f)
		}
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
