// Package config loads server settings from defaults, an optional YAML
// file, CHESS_* environment variables and command line flags, each layer
// overriding the one before.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benbeisheim/chess-backend/internal/model"
)

type Config struct {
	Addr         string        `yaml:"addr"`
	AllowOrigins string        `yaml:"allow_origins"`
	BottomColor  string        `yaml:"bottom_color"`
	LayoutFile   string        `yaml:"layout_file"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
	GameTTL      time.Duration `yaml:"game_ttl"`
}

func Default() Config {
	return Config{
		Addr:         ":3000",
		AllowOrigins: "http://localhost:5173",
		BottomColor:  "white",
		LogLevel:     "info",
		LogFormat:    "text",
		GameTTL:      2 * time.Hour,
	}
}

// Load builds the configuration for args (without the program name).
func Load(args []string) (Config, error) {
	cfg := Default()

	var (
		flagCfg    Config
		configFile string
	)
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&configFile, "config", getenv("CHESS_CONFIG", ""), "path to a YAML config file")
	fs.StringVar(&flagCfg.Addr, "addr", "", "listen address")
	fs.StringVar(&flagCfg.AllowOrigins, "allow-origins", "", "comma separated CORS origins")
	fs.StringVar(&flagCfg.BottomColor, "bottom", "", "color drawn on the bottom rows by default (white|black)")
	fs.StringVar(&flagCfg.LayoutFile, "layout", "", "YAML file with a custom starting layout")
	fs.StringVar(&flagCfg.LogLevel, "log-level", "", "debug|info|warn|error")
	fs.StringVar(&flagCfg.LogFormat, "log-format", "", "text|json")
	fs.DurationVar(&flagCfg.GameTTL, "game-ttl", 0, "drop games idle for longer than this (0 keeps them forever)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if configFile != "" {
		b, err := os.ReadFile(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("'%s': %v", configFile, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("'%s': %v", configFile, err)
		}
	}

	cfg.Addr = getenv("CHESS_ADDR", cfg.Addr)
	cfg.AllowOrigins = getenv("CHESS_ALLOW_ORIGINS", cfg.AllowOrigins)
	cfg.BottomColor = getenv("CHESS_BOTTOM_COLOR", cfg.BottomColor)
	cfg.LayoutFile = getenv("CHESS_LAYOUT_FILE", cfg.LayoutFile)
	cfg.LogLevel = getenv("CHESS_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("CHESS_LOG_FORMAT", cfg.LogFormat)
	if v := os.Getenv("CHESS_GAME_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("CHESS_GAME_TTL: %v", err)
		}
		cfg.GameTTL = d
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = flagCfg.Addr
		case "allow-origins":
			cfg.AllowOrigins = flagCfg.AllowOrigins
		case "bottom":
			cfg.BottomColor = flagCfg.BottomColor
		case "layout":
			cfg.LayoutFile = flagCfg.LayoutFile
		case "log-level":
			cfg.LogLevel = flagCfg.LogLevel
		case "log-format":
			cfg.LogFormat = flagCfg.LogFormat
		case "game-ttl":
			cfg.GameTTL = flagCfg.GameTTL
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if _, err := model.ParseColor(c.BottomColor); err != nil {
		return fmt.Errorf("bottom_color: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q: want text or json", c.LogFormat)
	}
	if c.GameTTL < 0 {
		return fmt.Errorf("game_ttl must not be negative, got %s", c.GameTTL)
	}
	return nil
}

// Bottom is the parsed BottomColor. Only call it on a validated Config.
func (c Config) Bottom() model.Color {
	color, _ := model.ParseColor(c.BottomColor)
	return color
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
