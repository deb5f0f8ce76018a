package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServiceRequestsBaseURL = "https://maps2.dcgis.dc.gov/dcgis/rest/services/DCGIS_DATA/ServiceRequests/MapServer"
	DefaultServicesCatalogURL     = "https://dc311api.herokuapp.com/v2/services.json"
	DefaultPublicBaseURL          = "https://api.dc311rn.com"
	DefaultLocationVerifierURL    = "https://citizenatlas.dc.gov/newwebservices/locationverifier.asmx/findLocation2"
)

type Config struct {
	// Server
	ServerPort   string        `yaml:"server_port"`
	ServerHost   string        `yaml:"server_host"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Upstream
	UpstreamTimeout        time.Duration `yaml:"upstream_timeout"`
	ServiceRequestsBaseURL string        `yaml:"service_requests_base_url"`
	ServicesCatalogURL     string        `yaml:"services_catalog_url"`

	// Public links
	PublicBaseURL       string `yaml:"public_base_url"`
	LocationVerifierURL string `yaml:"location_verifier_url"`
	SourceCodeURL       string `yaml:"source_code_url"`

	CORSAllowedOrigin string `yaml:"cors_allowed_origin"`
}

func Default() *Config {
	return &Config{
		ServerPort:   "8080",
		ServerHost:   "0.0.0.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,

		UpstreamTimeout:        10 * time.Second,
		ServiceRequestsBaseURL: DefaultServiceRequestsBaseURL,
		ServicesCatalogURL:     DefaultServicesCatalogURL,

		PublicBaseURL:       DefaultPublicBaseURL,
		LocationVerifierURL: DefaultLocationVerifierURL,
		SourceCodeURL:       "https://github.com/adunkman/api.dc311rn.com",

		CORSAllowedOrigin: "*",
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and finally environment variables.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.ServerHost = getEnv("SERVER_HOST", cfg.ServerHost)
	cfg.ReadTimeout = getDuration("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getDuration("WRITE_TIMEOUT", cfg.WriteTimeout)

	cfg.UpstreamTimeout = getDuration("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	cfg.ServiceRequestsBaseURL = getEnv("SERVICE_REQUESTS_BASE_URL", cfg.ServiceRequestsBaseURL)
	cfg.ServicesCatalogURL = getEnv("SERVICES_CATALOG_URL", cfg.ServicesCatalogURL)

	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", cfg.PublicBaseURL)
	cfg.LocationVerifierURL = getEnv("LOCATION_VERIFIER_URL", cfg.LocationVerifierURL)
	cfg.SourceCodeURL = getEnv("SOURCE_CODE_URL", cfg.SourceCodeURL)

	cfg.CORSAllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", cfg.CORSAllowedOrigin)

	if cfg.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("upstream timeout must be positive, got %s", cfg.UpstreamTimeout)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(content, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
