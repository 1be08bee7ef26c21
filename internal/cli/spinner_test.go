package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"
)

func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = prev })
	return &buf
}

func TestSpinnerNotTerminal(t *testing.T) {
	buf := captureStatus(t)

	s := newSpinner(context.Background(), "Rendering with Graphviz...")
	if s.animate {
		t.Fatal("spinner animates on a buffer")
	}
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if strings.Count(out, "Rendering with Graphviz...") != 1 {
		t.Errorf("message should be printed exactly once:\n%q", out)
	}
	for _, f := range spinnerFrames {
		if strings.Contains(out, f) {
			t.Errorf("frame %q written to a non-terminal", f)
		}
	}
}

func TestSpinnerCancelled(t *testing.T) {
	captureStatus(t)

	s := newSpinner(context.Background(), "done normally")
	s.Start()
	s.Stop()
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s = newSpinner(ctx, "timed out")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	if !s.Cancelled() {
		t.Error("Spinner should report the caller's timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureStatus(t)

	s := newSpinner(context.Background(), "idempotent")
	s.Stop() // before Start
	s = newSpinner(context.Background(), "idempotent")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerAnimatedStop(t *testing.T) {
	buf := captureStatus(t)

	s := newSpinner(context.Background(), "drawing")
	s.animate = true
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "drawing") || !regexp.MustCompile(`\d+\.\ds`).MatchString(out) {
		t.Errorf("animated output missing message or elapsed time:\n%q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("Stop should clear the line, got %q", out)
	}
}

func TestSpinnerStopMessages(t *testing.T) {
	buf := captureStatus(t)

	s := newSpinner(context.Background(), "working")
	s.Start()
	s.StopWithSuccess("Rendered SVG")

	s = newSpinner(context.Background(), "working")
	s.Start()
	s.StopWithError("Render failed")

	out := buf.String()
	if !regexp.MustCompile(`Rendered SVG .*\(\d+(\.\d+)?(ns|µs|ms|s)\)`).MatchString(out) {
		t.Errorf("success line missing elapsed time:\n%q", out)
	}
	if !strings.Contains(out, "Render failed") {
		t.Errorf("output %q missing error message", out)
	}
}
