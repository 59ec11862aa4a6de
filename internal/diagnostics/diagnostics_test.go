package diagnostics

import "testing"

func TestNewLogger_CLIModeWritesWithoutPanic(t *testing.T) {
	l := NewLogger(false)
	l.Printf("hello %s", "world")
	l.Errorf("boom %d", 42)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewLogger_ServerModeCreatesLogFile(t *testing.T) {
	l := NewLogger(true)
	defer l.Close()

	if l.LogPath() == "" {
		t.Fatal("expected a non-empty log path in server mode")
	}
	l.Printf("indexing started")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Printf("no panic")
	l.Errorf("no panic")
	if err := l.Close(); err != nil {
		t.Fatalf("Close on nil logger: %v", err)
	}
	if l.LogPath() != "" {
		t.Fatal("expected empty log path from nil logger")
	}
}
