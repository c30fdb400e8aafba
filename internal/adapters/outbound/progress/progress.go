// Package progress shows evaluation progress on stderr when a terminal is
// attached and stays silent otherwise.
package progress

import (
	"io"
	"os"

	"github.com/migrakit/migrakit/internal/domain"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI.
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// BarManager implements domain.ProgressManager with progress bars.
type BarManager struct {
	writer io.Writer
	tasks  []*progressbar.ProgressBar
}

// New returns a bar manager when enabled in an interactive environment and a
// no-op manager otherwise.
func New(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return NewBarManager(os.Stderr)
	}
	return NoOp{}
}

// NewBarManager draws bars on w regardless of the environment.
func NewBarManager(w io.Writer) *BarManager {
	return &BarManager{writer: w}
}

func (pm *BarManager) StartTask(description string, total int) domain.TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	pm.tasks = append(pm.tasks, bar)
	return &barTask{bar: bar}
}

func (pm *BarManager) IsInteractive() bool { return true }

// Close finishes every bar still running.
func (pm *BarManager) Close() {
	for _, bar := range pm.tasks {
		_ = bar.Finish()
	}
	pm.tasks = nil
}

type barTask struct {
	bar *progressbar.ProgressBar
}

func (t *barTask) Increment(n int)             { _ = t.bar.Add(n) }
func (t *barTask) Describe(description string) { t.bar.Describe(description) }
func (t *barTask) Complete()                   { _ = t.bar.Finish() }

// NoOp implements domain.ProgressManager without output.
type NoOp struct{}

func (NoOp) StartTask(string, int) domain.TaskProgress { return noopTask{} }
func (NoOp) IsInteractive() bool                       { return false }
func (NoOp) Close()                                    {}

type noopTask struct{}

func (noopTask) Increment(int)   {}
func (noopTask) Describe(string) {}
func (noopTask) Complete()       {}
