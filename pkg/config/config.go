package config

import (
	"encoding/json"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/yassinebkr/openclaw/pkg/logger"
)

type LogConfig struct {
	Level string `json:"level" env:"OPENCLAW_LOG_LEVEL"`
	File  string `json:"file" env:"OPENCLAW_LOG_FILE"`
}

type HooksConfig struct {
	// DispatchEnabled is the kill switch for after_tool_call dispatch.
	// Off means the dispatcher resolves no runner and every call takes
	// the zero-cost path.
	DispatchEnabled bool `json:"dispatch_enabled" env:"OPENCLAW_HOOKS_DISPATCH_ENABLED"`
}

type ToolsConfig struct {
	MaxArgBytes    int `json:"max_arg_bytes" env:"OPENCLAW_TOOLS_MAX_ARG_BYTES"`         // 0 = unlimited
	MaxCallsPerMin int `json:"max_calls_per_min" env:"OPENCLAW_TOOLS_MAX_CALLS_PER_MIN"` // 0 = unlimited
}

type Config struct {
	Log   LogConfig   `json:"log"`
	Hooks HooksConfig `json:"hooks"`
	Tools ToolsConfig `json:"tools"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "INFO",
		},
		Hooks: HooksConfig{
			DispatchEnabled: true,
		},
		Tools: ToolsConfig{
			MaxArgBytes:    0,
			MaxCallsPerMin: 0,
		},
	}
}

// LoadConfig reads the JSON config at path (missing file = defaults)
// and applies environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Apply pushes the logging settings into the process-wide logger.
func (c *Config) Apply() error {
	logger.SetLevel(logger.ParseLevel(c.Log.Level))
	if c.Log.File != "" {
		return logger.EnableFileLogging(c.Log.File)
	}
	return nil
}
