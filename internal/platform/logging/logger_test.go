package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestLogger_WritesKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONTo(&buf, LevelInfo)

	logger.Info("trophy evaluated", "year", 2024, "error", errors.New("boom"), "dangling")

	var line map[string]any
	if err := sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if line["msg"] != "trophy evaluated" {
		t.Fatalf("unexpected msg: %v", line["msg"])
	}
	if line["level"] != "info" {
		t.Fatalf("unexpected level: %v", line["level"])
	}
	if got, _ := line["year"].(float64); got != 2024 {
		t.Fatalf("unexpected year: %v", line["year"])
	}
	if line["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", line["error"])
	}
	if _, ok := line["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
	if caller, _ := line["caller"].(string); !strings.HasPrefix(caller, "logging/logger_test.go") {
		t.Fatalf("caller should point at the call site, got %q", caller)
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONTo(&buf, LevelWarn)

	logger.InfoContext(context.Background(), "skipped")
	logger.Debug("skipped too")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	logger.Warn("kept")
	if !strings.Contains(buf.String(), `"msg":"kept"`) {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("does not panic")
	logger.With("k", "v").Warn("still fine")
}

func TestLogger_MirrorReceivesEnabledRecords(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	var buf bytes.Buffer
	logger := NewJSONTo(&buf, LevelWarn)
	logger.Info("filtered")
	logger.WarnContext(context.Background(), "trophy evaluation rejected", "year", 2024)

	if len(got) != 1 || got[0] != "warn:trophy evaluation rejected" {
		t.Fatalf("unexpected mirrored records: %v", got)
	}
}
