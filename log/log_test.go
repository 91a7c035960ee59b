package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_Module(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON(&buf, slog.LevelDebug)
	l.Module("msm").Info("table built", "window", 7)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, buf.String())
	}
	if entry["module"] != "msm" {
		t.Fatalf("module = %v, want %q", entry["module"], "msm")
	}
	if v, ok := entry["window"].(float64); !ok || v != 7 {
		t.Fatalf("window = %v, want 7", entry["window"])
	}
}

func TestLogger_ModuleChain(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON(&buf, slog.LevelDebug).Module("srs").With("k", 4)
	l.Info("stage done")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["module"] != "srs" {
		t.Fatalf("module = %v, want %q", entry["module"], "srs")
	}
	if v, ok := entry["k"].(float64); !ok || v != 4 {
		t.Fatalf("k = %v, want 4", entry["k"])
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level  slog.Level
		logFn  func(l *Logger)
		expect bool
	}{
		{slog.LevelInfo, func(l *Logger) { l.Debug("nope") }, false},
		{slog.LevelInfo, func(l *Logger) { l.Info("yes") }, true},
		{slog.LevelWarn, func(l *Logger) { l.Info("nope") }, false},
		{slog.LevelWarn, func(l *Logger) { l.Error("yes") }, true},
		{slog.LevelDebug, func(l *Logger) { l.Debug("yes") }, true},
	}
	for i, tt := range tests {
		var buf bytes.Buffer
		tt.logFn(NewText(&buf, tt.level))
		if got := buf.Len() > 0; got != tt.expect {
			t.Errorf("test %d: output=%v, want %v (buf=%s)", i, got, tt.expect, buf.String())
		}
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelError},
		{1, slog.LevelError},
		{2, slog.LevelWarn},
		{3, slog.LevelInfo},
		{4, slog.LevelDebug},
		{5, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic and must not write anywhere observable.
	Discard().Error("dropped")
}

func TestDefaultLogger(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	l := NewText(&buf, slog.LevelDebug)
	SetDefault(l)
	Debug("d")
	Info("i", "k", "v")
	Warn("w")
	Error("e")
	out := buf.String()
	for _, msg := range []string{"msg=d", "msg=i", "k=v", "msg=w", "msg=e"} {
		if !strings.Contains(out, msg) {
			t.Errorf("missing %q in output: %s", msg, out)
		}
	}

	SetDefault(nil)
	if Default() != l {
		t.Fatal("SetDefault(nil) replaced the logger")
	}
}
