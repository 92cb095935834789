// Where: internal/usecase/concurrency/run_state.go
// What: Progress counters and timer owned by one scheduler run.
// Why: Tasks report through a single handle instead of rebuilding shared state ad hoc.
package concurrency

import (
	"fmt"
	"sync"
	"time"
)

type runState struct {
	mu        sync.Mutex
	sink      ProgressSink
	handle    ProgressHandle
	label     string
	total     int
	completed int
	failed    int
	started   time.Time
	now       func() time.Time
}

func newRunState(sink ProgressSink, label string, total int, now func() time.Time) *runState {
	if sink == nil {
		sink = nopProgress{}
	}
	if now == nil {
		now = time.Now
	}
	state := &runState{
		sink:    sink,
		label:   label,
		total:   total,
		started: now(),
		now:     now,
	}
	state.handle = sink.Create(state.message())
	return state
}

// advance counts one finished task and replaces the status line.
func (s *runState) advance(failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
	if failed {
		s.failed++
	}
	if s.handle != nil {
		s.handle.Remove()
	}
	s.handle = s.sink.Create(s.message())
}

// close removes the status line; safe to call more than once.
func (s *runState) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		s.handle.Remove()
		s.handle = nil
	}
}

func (s *runState) elapsed() time.Duration {
	return s.now().Sub(s.started)
}

func (s *runState) message() string {
	msg := fmt.Sprintf("%s: %d/%d (%ds)", s.label, s.completed, s.total, int(s.elapsed().Seconds()))
	if s.failed > 0 {
		msg += fmt.Sprintf(", %d failed", s.failed)
	}
	return msg
}
