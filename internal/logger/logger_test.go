package logger

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestInit(t *testing.T) {
	logger := Init("test-service", slog.LevelInfo)
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestRunID_RoundTrip(t *testing.T) {
	ctx := context.Background()

	// No run ID set
	if rid := RunID(ctx); rid != "" {
		t.Errorf("expected empty run id, got %q", rid)
	}

	// Set and retrieve
	ctx = WithRunID(ctx, "test-run-123")
	if rid := RunID(ctx); rid != "test-run-123" {
		t.Errorf("expected 'test-run-123', got %q", rid)
	}
}

func TestGenerateRunID(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 123456789, time.UTC)
	rid := GenerateRunID("1d", ts)

	if rid == "" {
		t.Fatal("expected non-empty run id")
	}
	if !strings.HasPrefix(rid, "1d-") {
		t.Errorf("expected run id to start with '1d-', got %s", rid)
	}
	// Verify it contains the nano timestamp
	if !strings.Contains(rid, "123456789") {
		t.Errorf("expected run id to contain nanoseconds, got %s", rid)
	}
}

func TestLogWithRun(t *testing.T) {
	ctx := context.Background()

	// No run ID
	attrs := LogWithRun(ctx)
	if attrs != nil {
		t.Errorf("expected nil attrs when no run id, got %v", attrs)
	}

	// With run ID
	ctx = WithRunID(ctx, "abc-123")
	attrs = LogWithRun(ctx)
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attr, got %d", len(attrs))
	}
}
