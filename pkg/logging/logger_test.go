package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()

	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to parse log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{" debug ", DebugLevel},
		{"Info", InfoLevel},
		{"warning", WarnLevel},
		{"WARN", WarnLevel},
		{"error", ErrorLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ATLAS_LOG_LEVEL", "")
	if got := LevelFromEnv(); got != ErrorLevel {
		t.Errorf("Expected LOG_LEVEL fallback, got %v", got)
	}

	t.Setenv("ATLAS_LOG_LEVEL", "debug")
	if got := LevelFromEnv(); got != DebugLevel {
		t.Errorf("Expected ATLAS_LOG_LEVEL to win, got %v", got)
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"Int", Int("count", 42), "count", 42},
		{"Float64", Float64("modularity", 0.42), "modularity", 0.42},
		{"Bool", Bool("joint", true), "joint", true},
		{"Duration", Duration("timeout", 5*time.Second), "timeout", "5s"},
		{"Error", Error(errors.New("boom")), "error", "boom"},
		{"ErrorNil", Error(nil), "error", nil},
		{"Graph", Graph("wiki"), "graph", "wiki"},
		{"Stage", Stage("layout"), "stage", "layout"},
		{"Node", Node("caffeine"), "node", "caffeine"},
		{"Attribute", Attribute("categories"), "attribute", "categories"},
		{"RunID", RunID("r-1"), "run_id", "r-1"},
		{"Seed", Seed(7), "seed", uint64(7)},
		{"Count", Count(3), "count", 3},
		{"Path", Path("/tmp/x"), "path", "/tmp/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s = %+v, want {Key:%s Value:%v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("graph built", Graph("wiki"), Int("nodes", 12))

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != "INFO" || e.Message != "graph built" {
		t.Errorf("Unexpected entry %+v", e)
	}
	if e.Fields["graph"] != "wiki" {
		t.Errorf("Expected graph=wiki, got %v", e.Fields["graph"])
	}
	// JSON numbers decode as float64
	if e.Fields["nodes"] != float64(12) {
		t.Errorf("Expected nodes=12, got %v", e.Fields["nodes"])
	}
	if _, err := time.Parse(time.RFC3339Nano, e.Time); err != nil {
		t.Errorf("Bad timestamp %q: %v", e.Time, err)
	}
}

func TestJSONLogger_ComponentPromoted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel).With(Component("ingest"))

	logger.Info("posts loaded")

	entries := decodeEntries(t, &buf)
	if entries[0].Component != "ingest" {
		t.Errorf("Expected component ingest, got %q", entries[0].Component)
	}
	if _, ok := entries[0].Fields["component"]; ok {
		t.Error("component should not be repeated inside fields")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("Unexpected levels %s, %s", entries[0].Level, entries[1].Level)
	}

	logger.SetLevel(DebugLevel)
	if logger.GetLevel() != DebugLevel {
		t.Errorf("SetLevel did not stick")
	}
	logger.Debug("now shown")
	if got := len(decodeEntries(t, &buf)); got != 3 {
		t.Errorf("Expected 3 entries after SetLevel, got %d", got)
	}
}

func TestJSONLogger_WithDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, InfoLevel)
	child := parent.With(RunID("abc"))

	child.Info("child")
	parent.Info("parent")

	entries := decodeEntries(t, &buf)
	if entries[0].Fields["run_id"] != "abc" {
		t.Errorf("Child lost pre-set field: %+v", entries[0])
	}
	if entries[1].Fields != nil {
		t.Errorf("Parent picked up child fields: %+v", entries[1].Fields)
	}
}

func TestTimedOperation_End(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	timer := StartTimer(logger, "layout computed", Graph("reddit"))
	elapsed := timer.End(Count(5))
	if elapsed < 0 {
		t.Errorf("Negative elapsed %v", elapsed)
	}

	e := decodeEntries(t, &buf)[0]
	for _, key := range []string{"graph", "count", "latency"} {
		if _, ok := e.Fields[key]; !ok {
			t.Errorf("Missing field %q in %+v", key, e.Fields)
		}
	}
}

func TestTimedOperation_EndError(t *testing.T) {
	var buf bytes.Buffer
	timer := StartTimer(NewJSONLogger(&buf, InfoLevel), "cache put")
	timer.EndError(errors.New("disk full"))

	e := decodeEntries(t, &buf)[0]
	if e.Level != "ERROR" || e.Fields["error"] != "disk full" {
		t.Errorf("Unexpected entry %+v", e)
	}
}

func TestStartTimer_NilLogger(t *testing.T) {
	// must not panic
	StartTimer(nil, "noop").End()
}

func TestDefaultLoggerOverride(t *testing.T) {
	var buf bytes.Buffer
	original := DefaultLogger()
	t.Cleanup(func() { SetDefaultLogger(original) })

	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))

	Debug("d")
	Info("i")
	Warn("w")
	ErrorLog("e")
	With(Stage("stats")).Info("scoped")

	entries := decodeEntries(t, &buf)
	if len(entries) != 5 {
		t.Fatalf("Expected 5 entries, got %d", len(entries))
	}
	if entries[4].Fields["stage"] != "stats" {
		t.Errorf("Expected stage field on scoped entry, got %+v", entries[4])
	}
}
