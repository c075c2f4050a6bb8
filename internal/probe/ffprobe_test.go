package probe

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"
)

// skipIfNoFFmpeg skips the test if ffmpeg or ffprobe is not available.
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH, skipping test")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH, skipping test")
	}
}

// createTestVideo creates a simple test video using ffmpeg.
func createTestVideo(t *testing.T, path string, duration float64) {
	t.Helper()

	cmd := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=blue:s=64x64:d=%.1f", duration),
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=44100:cl=mono:d=%.1f", duration),
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-c:a", "aac",
		"-shortest",
		path,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to create test video: %v\noutput: %s", err, output)
	}
}

func TestNewFFprobe(t *testing.T) {
	t.Run("default path", func(t *testing.T) {
		p := NewFFprobe("")
		if p.ffprobePath != "ffprobe" {
			t.Errorf("expected default path 'ffprobe', got %q", p.ffprobePath)
		}
	})

	t.Run("custom path", func(t *testing.T) {
		p := NewFFprobe("/usr/local/bin/ffprobe")
		if p.ffprobePath != "/usr/local/bin/ffprobe" {
			t.Errorf("expected custom path, got %q", p.ffprobePath)
		}
	})
}

func TestDuration(t *testing.T) {
	skipIfNoFFmpeg(t)

	tmpDir := t.TempDir()
	p := NewFFprobe("")
	ctx := context.Background()

	t.Run("returns duration of generated video", func(t *testing.T) {
		path := filepath.Join(tmpDir, "two_seconds.mp4")
		createTestVideo(t, path, 2.0)

		d, err := p.Duration(ctx, path)
		if err != nil {
			t.Fatalf("Duration() error = %v", err)
		}
		if d < 1.5 || d > 2.5 {
			t.Errorf("expected duration near 2s, got %.2f", d)
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		_, err := p.Duration(ctx, filepath.Join(tmpDir, "does_not_exist.mp4"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("cancelled context returns error", func(t *testing.T) {
		path := filepath.Join(tmpDir, "cancel.mp4")
		createTestVideo(t, path, 1.0)

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Duration(cancelled, path)
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}

func TestInfo(t *testing.T) {
	skipIfNoFFmpeg(t)

	tmpDir := t.TempDir()
	p := NewFFprobe("")
	ctx := context.Background()

	path := filepath.Join(tmpDir, "info.mp4")
	createTestVideo(t, path, 1.0)

	info, err := p.Info(ctx, path)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}

	if info.Format.FormatName == "" {
		t.Error("expected a format name")
	}
	if len(info.Streams) < 2 {
		t.Fatalf("expected video and audio streams, got %d", len(info.Streams))
	}

	var hasVideo, hasAudio bool
	for _, s := range info.Streams {
		switch s.CodecType {
		case "video":
			hasVideo = true
			if s.Width != 64 || s.Height != 64 {
				t.Errorf("expected 64x64 video, got %dx%d", s.Width, s.Height)
			}
		case "audio":
			hasAudio = true
		}
	}
	if !hasVideo || !hasAudio {
		t.Errorf("expected both stream types, video=%v audio=%v", hasVideo, hasAudio)
	}
}
