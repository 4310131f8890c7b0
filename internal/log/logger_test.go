package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	return logger, &buf
}

func TestLoggerTagsComponent(t *testing.T) {
	logger, buf := newBufferLogger(ComponentWorker)

	logger.Info("pass started", "count", 3)

	out := buf.String()
	if !strings.Contains(out, FieldComponent+"="+ComponentWorker) {
		t.Fatalf("output %q missing component field", out)
	}
	if !strings.Contains(out, "count=3") {
		t.Fatalf("output %q missing caller attribute", out)
	}
}

func TestLoggerDefaultsToAppComponent(t *testing.T) {
	logger, buf := newBufferLogger("")

	logger.Warn("config fallback")

	if out := buf.String(); !strings.Contains(out, FieldComponent+"="+ComponentApp) {
		t.Fatalf("output %q missing default component", out)
	}
}

func TestWithComponentOverrides(t *testing.T) {
	logger, buf := newBufferLogger(ComponentApp)

	logger.WithComponent(ComponentBackend).Error("open failed")

	out := buf.String()
	if !strings.Contains(out, FieldComponent+"="+ComponentBackend) {
		t.Fatalf("output %q missing overridden component", out)
	}
	if got := logger.Component(); got != ComponentApp {
		t.Fatalf("original logger component = %q, want %q", got, ComponentApp)
	}
}
