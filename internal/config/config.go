package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Groq    GroqConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8090,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Groq: GroqConfig{
			Model:   "llama-3.3-70b-versatile",
			BaseURL: "https://api.groq.com/openai/v1",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional JSON file at
// $XDG_CONFIG_HOME/pulseboard/config.json, then applies environment variable
// overrides (PULSEBOARD_*, plus GROQ_API_KEY for the credential).
//
// A missing Groq API key is not an error here: the summarize endpoint
// reports it at call time.
func Load() (Config, error) {
	cfg := defaults()

	if err := applyFile(&cfg, configPath()); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	return cfg, nil
}

// fileConfig is the on-disk JSON shape; all fields are optional.
type fileConfig struct {
	Port        *int    `json:"port"`
	DataDir     *string `json:"data_dir"`
	GroqAPIKey  *string `json:"groq_api_key"`
	GroqModel   *string `json:"groq_model"`
	GroqBaseURL *string `json:"groq_base_url"`
	LogLevel    *string `json:"log_level"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.Port != nil {
		cfg.Server.Port = *fc.Port
	}
	if fc.DataDir != nil {
		cfg.Storage.DataDir = *fc.DataDir
	}
	if fc.GroqAPIKey != nil {
		cfg.Groq.APIKey = *fc.GroqAPIKey
	}
	if fc.GroqModel != nil {
		cfg.Groq.Model = *fc.GroqModel
	}
	if fc.GroqBaseURL != nil {
		cfg.Groq.BaseURL = *fc.GroqBaseURL
	}
	if fc.LogLevel != nil {
		cfg.Log.Level = *fc.LogLevel
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PULSEBOARD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PULSEBOARD_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("PULSEBOARD_GROQ_MODEL"); v != "" {
		cfg.Groq.Model = v
	}
	if v := os.Getenv("PULSEBOARD_GROQ_BASE_URL"); v != "" {
		cfg.Groq.BaseURL = v
	}
	if v := os.Getenv("PULSEBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PULSEBOARD_GROQ_API_KEY"); v != "" {
		cfg.Groq.APIKey = v
	} else if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.Groq.APIKey = v
	}
}

func configPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "pulseboard", "config.json")
}

func defaultDataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "pulseboard-data"
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "pulseboard")
}
