// Where: internal/infra/ui/console.go
// What: Console output helpers for consistent CLI UX.
// Why: Standardize emojis, indentation, and structure across commands.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console provides helper methods for formatted output.
// Writes are serialized so reconcile workers can share one console.
type Console struct {
	Out          io.Writer
	EmojiEnabled bool

	mu sync.Mutex
}

// NewWithEmoji creates a new Console with explicit emoji settings.
func NewWithEmoji(out io.Writer, enabled bool) *Console {
	return &Console{Out: out, EmojiEnabled: enabled}
}

// Header prints a section header with an emoji.
// Example: 📦 Provisioned concurrency.
func (c *Console) Header(emoji, title string) {
	c.printf("%s%s\n", c.emojiPrefix(emoji), title)
}

// BlockStart starts a logical block with a blank line before the header.
func (c *Console) BlockStart(emoji, title string) {
	c.printf("\n")
	c.Header(emoji, title)
}

// BlockEnd ends a logical block.
func (c *Console) BlockEnd() {
	c.printf("\n")
}

// Item prints a key-value item with indentation.
// Example:    Key: Value.
func (c *Console) Item(key string, value any) {
	c.printf("   %-30s %v\n", key+":", value)
}

// Success prints a success message with a checkmark.
func (c *Console) Success(msg string) {
	c.printf("%s%s\n", c.prefixOr("✅", "[ok] "), msg)
}

// Info prints an info message.
func (c *Console) Info(msg string) {
	c.printf("%s\n", msg)
}

// Warn prints a warning message with an emoji.
func (c *Console) Warn(msg string) {
	c.printf("%s%s\n", c.prefixOr("⚠️", "[warn] "), msg)
}

// Error prints an error message with an emoji.
func (c *Console) Error(msg string) {
	c.printf("%s%s\n", c.prefixOr("❌", "[error] "), msg)
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Console) prefixOr(emoji, fallback string) string {
	if prefix := c.emojiPrefix(emoji); prefix != "" {
		return prefix
	}
	return fallback
}

func (c *Console) emojiPrefix(emoji string) string {
	if !c.EmojiEnabled || strings.TrimSpace(emoji) == "" {
		return ""
	}
	return emoji + " "
}
