package logging

import "testing"

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus", ""} {
		l := New(level)
		if l == nil || l.Logger == nil {
			t.Fatalf("New(%q) returned nil logger", level)
		}
	}
}

func TestNewText(t *testing.T) {
	l := NewText("debug")
	if l == nil || l.Logger == nil {
		t.Fatal("NewText returned nil logger")
	}
	l.Debug("text logger works", "key", "value")
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default returned nil")
	}
}
