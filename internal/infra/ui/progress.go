// Where: internal/infra/ui/progress.go
// What: Single-line progress indicator for reconcile runs.
// Why: Show live counts on a terminal without flooding piped output.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/poruru/esb-concurrency/internal/usecase/concurrency"
)

// Progress renders at most one ephemeral line at a time.
// On a terminal the line is rewritten in place; otherwise each message is a plain line.
type Progress struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	line        string
	current     *progressLine
}

// NewProgress returns a Progress writing to out.
func NewProgress(out io.Writer, interactive bool) *Progress {
	return &Progress{out: out, interactive: interactive}
}

// Create draws msg and returns a handle that erases it.
func (p *Progress) Create(msg string) concurrency.ProgressHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	handle := &progressLine{owner: p}
	if p.interactive {
		fmt.Fprintf(p.out, "\r%s", msg)
		p.line = msg
		p.current = handle
	} else {
		fmt.Fprintln(p.out, msg)
	}
	return handle
}

// Logger wraps next so each log line erases the live progress line first
// and redraws it afterwards. Both share the progress lock.
func (p *Progress) Logger(next concurrency.Logger) concurrency.Logger {
	return progressLogger{progress: p, next: next}
}

func (p *Progress) around(write func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.interactive || p.line == "" {
		write()
		return
	}
	p.erase()
	write()
	fmt.Fprintf(p.out, "\r%s", p.line)
}

// erase blanks the live line; callers hold p.mu.
func (p *Progress) erase() {
	fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(" ", len(p.line)))
}

type progressLine struct {
	owner   *Progress
	removed bool
}

func (l *progressLine) Remove() {
	p := l.owner
	p.mu.Lock()
	defer p.mu.Unlock()
	if l.removed {
		return
	}
	l.removed = true
	if p.current != l {
		return
	}
	if p.line != "" {
		p.erase()
	}
	p.line = ""
	p.current = nil
}

type progressLogger struct {
	progress *Progress
	next     concurrency.Logger
}

func (l progressLogger) Info(msg string) {
	l.progress.around(func() { l.next.Info(msg) })
}

func (l progressLogger) Error(msg string) {
	l.progress.around(func() { l.next.Error(msg) })
}
