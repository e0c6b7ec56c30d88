package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store backend names accepted in STORE_BACKEND.
const (
	BackendVolume = "volume"
	BackendS3     = "s3"
)

type Config struct {
	Server ServerConfig
	Upload UploadConfig
	Tools  ToolsConfig
	Store  StoreConfig
	MinIO  MinIOConfig
	CORS   CORSConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"60s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type UploadConfig struct {
	// MaxBytes caps an upload's cumulative size. Exceeding it fails
	// the request with 413; uploads are never truncated.
	MaxBytes int64 `envconfig:"UPLOAD_MAX_BYTES" default:"10485760"`
	// TempDir holds per-request scratch space.
	TempDir string `envconfig:"UPLOAD_TEMP_DIR" default:"/tmp/styleframe"`
}

type ToolsConfig struct {
	FFmpegPath  string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	FFprobePath string `envconfig:"FFPROBE_PATH" default:"ffprobe"`
}

type StoreConfig struct {
	// Backend selects the artifact store: "volume" or "s3".
	Backend string `envconfig:"STORE_BACKEND" default:"volume"`
	// VolumeDir is the volume store's root directory.
	VolumeDir string `envconfig:"STORE_VOLUME_DIR" default:"/video-store"`
}

func (c StoreConfig) Validate() error {
	switch c.Backend {
	case BackendVolume, BackendS3:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", c.Backend)
	}
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"videos"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type CORSConfig struct {
	// AllowedOrigins is a comma-separated list of origins allowed to
	// call the API cross-origin. "*" (the default) means unrestricted.
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

// Origins returns the cleaned origin list: entries trimmed, blanks
// dropped. An input of only blanks falls back to "*" so the service
// never starts with an empty (deny-all) CORS policy by accident.
func (c CORSConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
