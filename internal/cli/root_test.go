package cli

import (
	"testing"

	"github.com/kkstools/videoconv/internal/config"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	t.Run("registers all subcommands", func(t *testing.T) {
		want := []string{"convert", "batch", "info", "check"}
		for _, name := range want {
			found := false
			for _, c := range root.Commands() {
				if c.Name() == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("subcommand %q not registered", name)
			}
		}
	})

	t.Run("declares persistent flags", func(t *testing.T) {
		for _, name := range []string{"quality", "force", "upload", "ext", "ffmpeg", "ffprobe", "no-progress"} {
			if root.PersistentFlags().Lookup(name) == nil {
				t.Errorf("persistent flag %q not declared", name)
			}
		}
	})

	t.Run("quality has shorthand", func(t *testing.T) {
		f := root.PersistentFlags().Lookup("quality")
		if f == nil || f.Shorthand != "q" {
			t.Errorf("quality shorthand = %v, want q", f)
		}
	})
}

func TestValidateQualityFlag(t *testing.T) {
	t.Cleanup(func() { flagQuality = "" })

	tests := []struct {
		name    string
		quality string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"known preset", "high", false},
		{"mixed case preset", "Low", false},
		{"unknown preset", "ultra", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagQuality = tt.quality
			err := validateQualityFlag()
			if (err != nil) != tt.wantErr {
				t.Errorf("validateQualityFlag() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	t.Cleanup(func() {
		flagFFmpeg = ""
		flagQuality = ""
		flagExt = ""
	})

	cfg := &config.Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		SourceExt:   ".rmvb",
		Quality:     "medium",
	}

	t.Run("empty flags leave config untouched", func(t *testing.T) {
		flagFFmpeg = ""
		flagQuality = ""
		applyFlagOverrides(cfg)
		if cfg.FFmpegPath != "ffmpeg" || cfg.Quality != "medium" {
			t.Errorf("config changed by empty flags: %+v", cfg)
		}
	})

	t.Run("set flags override config", func(t *testing.T) {
		flagFFmpeg = "/opt/ffmpeg/bin/ffmpeg"
		flagQuality = "high"
		flagExt = ".avi"
		applyFlagOverrides(cfg)
		if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
			t.Errorf("FFmpegPath = %q", cfg.FFmpegPath)
		}
		if cfg.Quality != "high" {
			t.Errorf("Quality = %q", cfg.Quality)
		}
		if cfg.SourceExt != ".avi" {
			t.Errorf("SourceExt = %q", cfg.SourceExt)
		}
	})
}

func TestProgressPrinterDisabled(t *testing.T) {
	p := newProgressPrinter(true)
	p.StartFile("a.rmvb")
	p.Update(50, "converting")
	p.Update(-1, "converting")
	p.Finish()
	if p.bar != nil {
		t.Error("disabled printer created a bar")
	}
}
