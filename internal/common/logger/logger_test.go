package logger

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func newBufferedLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &Logger{
		level:       level,
		out:         log.New(buf, "", 0),
		serviceName: "test",
	}, buf
}

func TestWithFields_IncludesTraceIDFromContext(t *testing.T) {
	l, buf := newBufferedLogger(DEBUG)

	ctx := context.WithValue(context.Background(), TraceIDKey, "abc123")
	l.WithFields(ctx, Fields{"action": "login"}).Info("request handled")

	line := buf.String()
	if !strings.Contains(line, "trace_id=abc123") {
		t.Errorf("expected trace_id in log line, got %q", line)
	}
	if !strings.Contains(line, "action=login") {
		t.Errorf("expected fields in log line, got %q", line)
	}
	if !strings.Contains(line, "request handled") {
		t.Errorf("expected message in log line, got %q", line)
	}
}

func TestWithFields_NilContextOmitsTraceID(t *testing.T) {
	l, buf := newBufferedLogger(DEBUG)

	l.WithFields(nil, Fields{"action": "sweep"}).Info("done")

	if strings.Contains(buf.String(), "trace_id") {
		t.Errorf("unexpected trace_id in log line: %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferedLogger(WARNING)

	l.Debug("hidden")
	l.Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("expected below-threshold lines suppressed, got %q", buf.String())
	}

	l.Warn("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected warning emitted, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{" ERROR ", ERROR},
		{"warn", WARNING},
		{"nonsense", INFO},
		{"", INFO},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
