package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxFileSize != 52428800 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 52428800)
	}
	if cfg.Upload.MaxRows != 1000000 {
		t.Errorf("Upload.MaxRows = %d, want %d", cfg.Upload.MaxRows, 1000000)
	}
	if cfg.Upload.MaxColumns != 1000 {
		t.Errorf("Upload.MaxColumns = %d, want %d", cfg.Upload.MaxColumns, 1000)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, 2*time.Hour)
	}
	if cfg.Session.SweepInterval != 5*time.Minute {
		t.Errorf("Session.SweepInterval = %v, want %v", cfg.Session.SweepInterval, 5*time.Minute)
	}
	if !cfg.Rate.Enabled {
		t.Error("Rate.Enabled = false, want true")
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("UPLOAD_MAX_FILE_SIZE", "1048576")
	os.Setenv("SESSION_TTL", "30m")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("UPLOAD_MAX_FILE_SIZE")
		os.Unsetenv("SESSION_TTL")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxFileSize != 1048576 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 1048576)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, 30*time.Minute)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		envVar  string
		value   string
		wantErr string
	}{
		{"invalid port", "SERVER_PORT", "notaport", "invalid"},
		{"port out of range", "SERVER_PORT", "99999", "must be 1-65535"},
		{"invalid duration", "SESSION_TTL", "xyz", "invalid"},
		{"negative file size", "UPLOAD_MAX_FILE_SIZE", "-1", "must be positive"},
		{"bad log level", "LOG_LEVEL", "verbose", "must be one of"},
		{"bad log format", "LOG_FORMAT", "xml", "must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.envVar, tt.value)
			defer os.Unsetenv(tt.envVar)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() with %s=%q succeeded, want error", tt.envVar, tt.value)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"", 9090, ":9090"},
		{"localhost", 80, "localhost:80"},
	}

	for _, tt := range tests {
		sc := ServerConfig{Host: tt.host, Port: tt.port}
		if got := sc.Addr(); got != tt.want {
			t.Errorf("Addr() with host=%q port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestValidate_RateLimitDisabled(t *testing.T) {
	os.Setenv("RATE_LIMIT_ENABLED", "false")
	os.Setenv("RATE_LIMIT_REQUESTS_PER_MINUTE", "0")
	defer func() {
		os.Unsetenv("RATE_LIMIT_ENABLED")
		os.Unsetenv("RATE_LIMIT_REQUESTS_PER_MINUTE")
	}()

	// Zero limit is fine when the limiter is off
	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestConfigString_NoSecrets(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s := cfg.String()
	if !strings.Contains(s, "Server") || !strings.Contains(s, "Logging") {
		t.Errorf("String() = %q, missing expected sections", s)
	}
}
