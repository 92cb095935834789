// Where: internal/infra/ui/ui_test.go
// What: Tests for console strategies and the progress line.
// Why: Keep prefixes and erase sequences stable for users and scripts.
package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleUIPrefixes(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleUI(&buf, true)
	out.Success("done")
	out.Error("boom")
	out.Warn("careful")

	got := buf.String()
	for _, want := range []string{"✅ done", "❌ boom", "⚠️ careful"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output, got %q", want, got)
		}
	}
}

func TestConsoleUIWithoutEmojiUsesTextPrefixes(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleUI(&buf, false)
	out.Error("boom")
	out.Success("done")

	if got := buf.String(); got != "[error] boom\n[ok] done\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestLegacyUIWritesBareLines(t *testing.T) {
	var buf bytes.Buffer
	out := NewLegacyUI(&buf)
	out.Info("one")
	out.Error("two")

	if got := buf.String(); got != "one\ntwo\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestBlockRendersRows(t *testing.T) {
	var buf bytes.Buffer
	out := NewLegacyUI(&buf)
	out.Block("📦", "orders", []KeyValue{{Key: "Version", Value: "3"}})

	got := buf.String()
	if !strings.Contains(got, "orders") || !strings.Contains(got, "Version:") || !strings.Contains(got, "3") {
		t.Fatalf("unexpected block: %q", got)
	}
}

func TestProgressInteractiveErasesLine(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgress(&buf, true)
	handle := progress.Create("apply: 0/2")
	handle.Remove()
	handle.Remove()

	want := "\rapply: 0/2\r" + strings.Repeat(" ", len("apply: 0/2")) + "\r"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestProgressLoggerClearsLiveLine(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgress(&buf, true)
	log := progress.Logger(NewLegacyUI(&buf))

	log.Info("before")
	handle := progress.Create("apply: 0/2")
	log.Error("orders failed")
	handle.Remove()
	log.Info("after")

	blank := "\r" + strings.Repeat(" ", len("apply: 0/2")) + "\r"
	want := "before\n" +
		"\rapply: 0/2" +
		blank + "orders failed\n" + "\rapply: 0/2" +
		blank +
		"after\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", got, want)
	}
}

func TestProgressStaleHandleKeepsNewerLine(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgress(&buf, true)
	first := progress.Create("apply: 0/2")
	progress.Create("apply: 1/2")
	first.Remove()

	if got := buf.String(); got != "\rapply: 0/2\rapply: 1/2" {
		t.Fatalf("stale handle erased the live line: %q", got)
	}
}

func TestProgressPlainWritesLines(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgress(&buf, false)
	progress.Create("apply: 0/1").Remove()
	progress.Create("apply: 1/1").Remove()

	if got := buf.String(); got != "apply: 0/1\napply: 1/1\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}
