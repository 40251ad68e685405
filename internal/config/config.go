// Package config loads reddrive settings: built-in defaults, overlaid by an
// optional YAML file, overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Reddit RedditConfig `yaml:"reddit"`
	Media  MediaConfig  `yaml:"media"`
	Drive  DriveConfig  `yaml:"drive"`
	OTel   OTelConfig   `yaml:"otel"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type RedditConfig struct {
	HTTPTimeout     Duration `yaml:"http_timeout"`
	UserAgent       string   `yaml:"user_agent"`
	RequestInterval Duration `yaml:"request_interval"`
}

type MediaConfig struct {
	HTTPTimeout   Duration `yaml:"http_timeout"`
	RetryAttempts int      `yaml:"retry_attempts"`
	RetryDelay    Duration `yaml:"retry_delay"`
	ChunkSize     int      `yaml:"chunk_size"`
}

type DriveConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
}

type OTelConfig struct {
	Enabled     bool              `yaml:"enabled"`
	ServiceName string            `yaml:"service_name"`
	Endpoint    string            `yaml:"endpoint"`
	Protocol    string            `yaml:"protocol"` // "grpc" or "http/protobuf"
	Headers     map[string]string `yaml:"headers"`
	Insecure    bool              `yaml:"insecure"`
	SampleRatio float64           `yaml:"sample_ratio"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Reddit: RedditConfig{
			HTTPTimeout:     Duration(30 * time.Second),
			RequestInterval: Duration(2 * time.Second),
		},
		Media: MediaConfig{
			HTTPTimeout:   Duration(60 * time.Second),
			RetryAttempts: 3,
			RetryDelay:    Duration(200 * time.Millisecond),
			ChunkSize:     10,
		},
		OTel: OTelConfig{
			ServiceName: "reddrive",
			Protocol:    "http/protobuf",
			SampleRatio: 1,
		},
	}
}

// Load builds the configuration. path may be empty or point at a YAML file; a
// missing file at the default path is fine, an unreadable or malformed one is
// an error.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = envString("SERVER_ADDR", cfg.Server.Addr)

	cfg.Reddit.HTTPTimeout = envDuration("REDDIT_HTTP_TIMEOUT", cfg.Reddit.HTTPTimeout)
	cfg.Reddit.UserAgent = envString("REDDIT_USER_AGENT", cfg.Reddit.UserAgent)
	cfg.Reddit.RequestInterval = envDuration("REDDIT_REQUEST_INTERVAL", cfg.Reddit.RequestInterval)

	cfg.Media.HTTPTimeout = envDuration("MEDIA_HTTP_TIMEOUT", cfg.Media.HTTPTimeout)
	cfg.Media.RetryAttempts = envInt("MEDIA_RETRY_ATTEMPTS", cfg.Media.RetryAttempts)
	cfg.Media.RetryDelay = envDuration("MEDIA_RETRY_DELAY", cfg.Media.RetryDelay)
	cfg.Media.ChunkSize = envInt("MEDIA_CHUNK_SIZE", cfg.Media.ChunkSize)

	cfg.Drive.ClientID = envString("GOOGLE_DRIVE_CLIENT_ID", cfg.Drive.ClientID)
	cfg.Drive.ClientSecret = envString("GOOGLE_DRIVE_CLIENT_SECRET", cfg.Drive.ClientSecret)
	cfg.Drive.RefreshToken = envString("GOOGLE_DRIVE_REFRESH_TOKEN", cfg.Drive.RefreshToken)

	cfg.OTel.Enabled = envBool("OTEL_ENABLED", cfg.OTel.Enabled)
	cfg.OTel.ServiceName = envString("OTEL_SERVICE_NAME", cfg.OTel.ServiceName)
	cfg.OTel.Endpoint = envString("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTel.Endpoint)
	cfg.OTel.Protocol = envString("OTEL_EXPORTER_OTLP_PROTOCOL", cfg.OTel.Protocol)
	cfg.OTel.Insecure = envBool("OTEL_EXPORTER_OTLP_INSECURE", cfg.OTel.Insecure)
	if headers := parseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")); headers != nil {
		cfg.OTel.Headers = headers
	}
	cfg.OTel.SampleRatio = envFloat("OTEL_SAMPLE_RATIO", cfg.OTel.SampleRatio)
}
