package oppick

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/bonjoski/oppick/pkg/process"
)

const (
	MethodStderr  = "stderr"
	MethodDesktop = "desktop"

	notificationTitle = "oppick"
)

// Notifier reports diagnostics to the user
type Notifier struct {
	config *Config
	Stderr io.Writer
	Runner process.Runner
	GOOS   string
}

// NewNotifier creates a new notifier with the given config
func NewNotifier(config *Config, runner process.Runner) *Notifier {
	return &Notifier{
		config: config,
		Stderr: os.Stderr,
		Runner: runner,
		GOOS:   runtime.GOOS,
	}
}

// Notify reports err as a single-line diagnostic. The desktop method also
// raises a desktop notification, for launchers started without a terminal.
func (n *Notifier) Notify(ctx context.Context, err error) {
	if err == nil {
		return
	}
	message := n.formatMessage(err)
	n.notifyStderr(message)

	if n.config.Notifications.Method == MethodDesktop {
		n.notifyDesktop(ctx, message)
	}
}

func (n *Notifier) formatMessage(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

func (n *Notifier) notifyStderr(message string) {
	fmt.Fprintln(n.Stderr, message)
}

func (n *Notifier) notifyDesktop(ctx context.Context, message string) {
	if n.Runner == nil {
		return
	}
	var name string
	var args []string
	switch n.GOOS {
	case "darwin":
		// Use %q to safely escape the message for AppleScript, preventing injection
		name = "osascript"
		args = []string{"-e", fmt.Sprintf(`display notification %q with title %q`, message, notificationTitle)}
	default:
		name = "notify-send"
		args = []string{"--app-name", notificationTitle, notificationTitle, message}
	}
	_, _ = n.Runner.Run(ctx, name, args, nil) // Ignore errors
}
