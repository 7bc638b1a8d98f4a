// Package clipboard copies links to the system clipboard, falling back to
// platform tools when the native clipboard is unavailable.
package clipboard

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mediamingle/mingle/internal/config"
)

// CopiedMsg reports the outcome of a Copy command
type CopiedMsg struct {
	Label string
	Err   error
}

// Service writes text to the system clipboard
type Service struct {
	command string
	logger  *slog.Logger

	// overridable in tests
	native func(string) error
	lookup func(string) (string, error)
}

// New creates a clipboard service. A configured command always wins over the
// native clipboard.
func New(cfg config.ClipboardConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		command: strings.TrimSpace(cfg.Command),
		logger:  logger,
		native:  clipboard.WriteAll,
		lookup:  exec.LookPath,
	}
}

// Write copies text, trying the configured command, then the native
// clipboard, then whatever platform tool is installed
func (s *Service) Write(ctx context.Context, text string) error {
	if s.command != "" {
		return s.run(ctx, parseCommand(s.command), text)
	}

	err := s.native(text)
	if err == nil {
		s.logger.Debug("copied to clipboard", "length", len(text))
		return nil
	}
	s.logger.Warn("native clipboard failed, trying fallback", "error", err)

	parts, ferr := s.fallback()
	if ferr != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return s.run(ctx, parts, text)
}

// Copy wraps Write in a tea.Cmd that reports a CopiedMsg
func (s *Service) Copy(text, label string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Label: label, Err: s.Write(context.Background(), text)}
	}
}

func (s *Service) run(ctx context.Context, parts []string, text string) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid clipboard command %q", s.command)
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(text)

	s.logger.Debug("running clipboard command", "command", parts[0], "length", len(text))
	if out, err := cmd.CombinedOutput(); err != nil {
		s.logger.Error("clipboard command failed", "command", parts[0], "error", err, "output", strings.TrimSpace(string(out)))
		return fmt.Errorf("clipboard command %s: %w", parts[0], err)
	}
	return nil
}

// fallback picks a platform clipboard tool
func (s *Service) fallback() ([]string, error) {
	switch runtime.GOOS {
	case "darwin":
		return []string{"pbcopy"}, nil
	case "windows":
		return []string{"clip.exe"}, nil
	case "linux":
		if isWSL() {
			return []string{"clip.exe"}, nil
		}
		for _, candidate := range [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		} {
			if _, err := s.lookup(candidate[0]); err == nil {
				return candidate, nil
			}
		}
		return nil, fmt.Errorf("no clipboard tool found (install wl-clipboard, xclip or xsel)")
	default:
		return nil, fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
}

// parseCommand splits a command line, respecting single and double quotes
func parseCommand(command string) []string {
	var parts []string
	var current strings.Builder
	var quote rune
	inQuotes := false

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for _, r := range command {
		switch {
		case (r == '\'' || r == '"') && !inQuotes:
			inQuotes = true
			quote = r
		case inQuotes && r == quote:
			inQuotes = false
		case r == ' ' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return parts
}

func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}
