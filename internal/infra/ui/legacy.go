// Where: internal/infra/ui/legacy.go
// What: UserInterface strategies for console and plain output.
// Why: Let the reconcile use case log without knowing how the terminal renders.
package ui

import (
	"fmt"
	"io"
	"sync"
)

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// UserInterface exposes high-level output helpers used by commands and usecases.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Success(msg string)
	Block(emoji, title string, rows []KeyValue)
}

// NewConsoleUI returns a UserInterface with emoji prefixes.
func NewConsoleUI(out io.Writer, emoji bool) UserInterface {
	return consoleUI{console: NewWithEmoji(out, emoji)}
}

// NewLegacyUI returns a UserInterface that writes bare lines.
// Used for piped output and error reporting.
func NewLegacyUI(out io.Writer) UserInterface {
	return &legacyUI{
		out:     out,
		console: NewWithEmoji(out, false),
	}
}

type consoleUI struct {
	console *Console
}

func (c consoleUI) Info(msg string) {
	c.console.Info(msg)
}

func (c consoleUI) Warn(msg string) {
	c.console.Warn(msg)
}

func (c consoleUI) Error(msg string) {
	c.console.Error(msg)
}

func (c consoleUI) Success(msg string) {
	c.console.Success(msg)
}

func (c consoleUI) Block(emoji, title string, rows []KeyValue) {
	writeBlock(c.console, emoji, title, rows)
}

type legacyUI struct {
	mu      sync.Mutex
	out     io.Writer
	console *Console
}

func (l *legacyUI) Info(msg string) {
	l.println(msg)
}

func (l *legacyUI) Warn(msg string) {
	l.println(msg)
}

func (l *legacyUI) Error(msg string) {
	l.println(msg)
}

func (l *legacyUI) Success(msg string) {
	l.println(msg)
}

func (l *legacyUI) Block(emoji, title string, rows []KeyValue) {
	writeBlock(l.console, emoji, title, rows)
}

func (l *legacyUI) println(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, msg)
}

func writeBlock(console *Console, emoji, title string, rows []KeyValue) {
	console.BlockStart(emoji, title)
	for _, kv := range rows {
		console.Item(kv.Key, kv.Value)
	}
	console.BlockEnd()
}
