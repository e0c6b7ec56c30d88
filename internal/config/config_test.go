package config

import (
	"reflect"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Upload.MaxBytes != 10*1024*1024 {
		t.Errorf("MaxBytes = %d, want 10 MiB", cfg.Upload.MaxBytes)
	}
	if cfg.Store.Backend != BackendVolume {
		t.Errorf("Backend = %q, want %q", cfg.Store.Backend, BackendVolume)
	}
	if cfg.Store.VolumeDir != "/video-store" {
		t.Errorf("VolumeDir = %q, want /video-store", cfg.Store.VolumeDir)
	}
	if cfg.Tools.FFmpegPath != "ffmpeg" || cfg.Tools.FFprobePath != "ffprobe" {
		t.Errorf("tool paths = %q, %q", cfg.Tools.FFmpegPath, cfg.Tools.FFprobePath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("STORE_BACKEND", "s3")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendS3 {
		t.Errorf("Backend = %q, want s3", cfg.Store.Backend)
	}
	if cfg.Upload.MaxBytes != 1024 {
		t.Errorf("MaxBytes = %d, want 1024", cfg.Upload.MaxBytes)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "carrier-pigeon")

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown store backend")
	}
}

func TestCORSConfig_Origins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"default wildcard", "*", []string{"*"}},
		{"single origin", "https://app.example.com", []string{"https://app.example.com"}},
		{
			"multiple origins with whitespace",
			" https://a.example.com , https://b.example.com ",
			[]string{"https://a.example.com", "https://b.example.com"},
		},
		{"empty entries ignored", "https://a.example.com,,https://b.example.com,", []string{"https://a.example.com", "https://b.example.com"}},
		{"only blanks falls back to wildcard", " , , ", []string{"*"}},
		{"empty string falls back to wildcard", "", []string{"*"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CORSConfig{AllowedOrigins: tt.raw}
			if got := c.Origins(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Origins() = %v, want %v", got, tt.want)
			}
		})
	}
}
