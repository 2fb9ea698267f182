package selector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bonjoski/oppick/pkg/process"
)

const DefaultLauncher = "rofi"

// ErrCancelled is returned when the user dismisses the selector without
// choosing anything.
var ErrCancelled = errors.New("selection cancelled")

// Launcher picks an option through an external dmenu-style launcher that
// prints the zero-based index of the chosen line.
type Launcher struct {
	Command string
	Runner  process.Runner
}

func NewLauncher(command string, runner process.Runner) *Launcher {
	if command == "" {
		command = DefaultLauncher
	}
	return &Launcher{Command: command, Runner: runner}
}

func (l *Launcher) ChooseIndex(ctx context.Context, prompt string, options []string) (int, error) {
	args := []string{"-dmenu", "-i", "-p", prompt, "-format", "i"}
	stdin := strings.NewReader(strings.Join(options, "\n") + "\n")

	out, err := l.Runner.Run(ctx, l.Command, args, stdin)
	if err != nil {
		var exitErr *process.ExitError
		if errors.As(err, &exitErr) {
			return 0, ErrCancelled
		}
		return 0, fmt.Errorf("launch selector: %w", err)
	}

	return ParseIndex(string(out), len(options))
}

// ParseIndex parses the launcher's output as an index into n options.
// Blank output means the user cancelled.
func ParseIndex(out string, n int) (int, error) {
	s := strings.TrimSpace(out)
	if s == "" {
		return 0, ErrCancelled
	}

	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid selection %q: not an index", s)
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("invalid selection %d: out of range for %d items", idx, n)
	}
	return idx, nil
}
