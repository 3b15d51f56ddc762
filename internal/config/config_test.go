package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: t.TempDir()},
		Server: ServerConfig{
			Name:         "Watchlog Server",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Search: SearchConfig{
			Debounce:       300 * time.Millisecond,
			MinQueryLength: 2,
			PageSize:       25,
			RateRPS:        5,
			RateBurst:      10,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.App.Environment = "qa" },
			wantSub: "invalid environment",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logger.Level = "verbose" },
			wantSub: "invalid log level",
		},
		{
			name:    "empty data path",
			mutate:  func(c *Config) { c.Data.BasePath = "" },
			wantSub: "data base path",
		},
		{
			name:    "zero min query length",
			mutate:  func(c *Config) { c.Search.MinQueryLength = 0 },
			wantSub: "min query length",
		},
		{
			name:    "zero page size",
			mutate:  func(c *Config) { c.Search.PageSize = 0 },
			wantSub: "page size",
		},
		{
			name:    "watch path without user",
			mutate:  func(c *Config) { c.Import.WatchPath = "/imports" },
			wantSub: "watch user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Validate() = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := validConfig(t)
	base := cfg.Data.BasePath

	if got := cfg.DatabasePath(); got != filepath.Join(base, "watchlog.db") {
		t.Errorf("DatabasePath() = %q", got)
	}
	if got := cfg.SearchPath(); got != filepath.Join(base, "search") {
		t.Errorf("SearchPath() = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	if err != nil || got != "/default/path" {
		t.Fatalf("expandPath empty = %q, %v", got, err)
	}

	got, err = expandPath("/already/abs", "")
	if err != nil || got != "/already/abs" {
		t.Fatalf("expandPath abs = %q, %v", got, err)
	}

	got, err = expandPath("~/watchlog", "")
	if err != nil {
		t.Fatalf("expandPath tilde: %v", err)
	}
	if strings.HasPrefix(got, "~") || !filepath.IsAbs(got) {
		t.Errorf("expandPath tilde = %q, want expanded absolute path", got)
	}
}
