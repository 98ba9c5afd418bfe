package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// RoleProgress prints one line per role state change. Parallel roles report
// from several goroutines, so writes are serialized.
type RoleProgress struct {
	mu     sync.Mutex
	w      io.Writer
	styles *OutputStyles
	total  int
	done   int
}

// NewRoleProgress creates a progress printer for a plan of total roles.
func NewRoleProgress(w io.Writer, total int) *RoleProgress {
	CheckNoColor()
	return &RoleProgress{w: w, styles: NewOutputStyles(), total: total}
}

// Report prints the state change of roleID. Status is one of "started",
// "succeeded" or "failed".
func (p *RoleProgress) Report(roleID, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var style lipgloss.Style
	switch status {
	case "succeeded":
		p.done++
		style = p.styles.Success
	case "failed":
		p.done++
		style = p.styles.Error
	default:
		style = p.styles.Info
	}

	line := fmt.Sprintf("%s %s %s", RoleStatusIcon(status), Title(roleID), status)
	counter := p.styles.Dim.Render(fmt.Sprintf("[%d/%d]", p.done, p.total))
	_, _ = fmt.Fprintln(p.w, counter+" "+style.Render(line))
}

// Done returns how many roles have finished.
func (p *RoleProgress) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
