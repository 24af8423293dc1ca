package media

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFFProbeDuration(t *testing.T) {
	probe := NewFFProbe("ffprobe", time.Second)
	probe.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		wantArgs := []string{"-v", "error", "-show_entries", "format=duration", "-of", "json", "/tmp/video.mp4"}
		if len(args) != len(wantArgs) {
			t.Fatalf("unexpected args length: got %d want %d", len(args), len(wantArgs))
		}
		for i, arg := range wantArgs {
			if args[i] != arg {
				t.Fatalf("unexpected arg at %d: got %q want %q", i, args[i], arg)
			}
		}
		return []byte(`{"format":{"duration":"93.417"}}`), nil
	}

	duration, err := probe.Duration(context.Background(), "/tmp/video.mp4")
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if duration != 93.417 {
		t.Fatalf("unexpected duration %v", duration)
	}
}

func TestFFProbeDurationMissingField(t *testing.T) {
	probe := NewFFProbe("ffprobe", time.Second)
	probe.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return []byte(`{"format":{}}`), nil
	}

	if _, err := probe.Duration(context.Background(), "/tmp/video.mp4"); err == nil {
		t.Fatal("expected error for missing duration")
	}
}

func TestFFProbeDurationCommandFailure(t *testing.T) {
	probe := NewFFProbe("ffprobe", time.Second)
	probe.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}

	if _, err := probe.Duration(context.Background(), "/tmp/video.mp4"); err == nil {
		t.Fatal("expected error when ffprobe fails")
	}
}

func TestFFProbeDefaults(t *testing.T) {
	probe := NewFFProbe("  ", 0)
	if probe.Binary != "ffprobe" {
		t.Fatalf("expected default binary, got %q", probe.Binary)
	}
	if probe.Timeout <= 0 {
		t.Fatalf("expected positive default timeout, got %v", probe.Timeout)
	}
}
