package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/hcaim/ai-footprint/internal/apperr"
	"github.com/hcaim/ai-footprint/internal/greencheck"
)

const (
	envPrefix       = "AI_FOOTPRINT"
	configName      = ".ai-footprint"
	defaultLevel    = "info"
	configDirName   = "ai-footprint"
	envFileName     = ".env"
	keyLogLevel     = "log_level"
	keyDataDir      = "data_dir"
	keyGreenOn      = "greencheck.enabled"
	keyGreenURL     = "greencheck.base_url"
	keyGreenTimeout = "greencheck.timeout"
)

// Config is the resolved CLI configuration.
type Config struct {
	LogLevel   string           `mapstructure:"log_level"`
	DataDir    string           `mapstructure:"data_dir"`
	GreenCheck GreenCheckConfig `mapstructure:"greencheck"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// GreenCheckConfig configures the green hosting lookup.
type GreenCheckConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyLogLevel, defaultLevel)
	v.SetDefault(keyDataDir, "")
	v.SetDefault(keyGreenOn, false)
	v.SetDefault(keyGreenURL, greencheck.DefaultBaseURL)
	v.SetDefault(keyGreenTimeout, greencheck.DefaultTimeout)
}

// envFilePaths lists the .env locations in priority order.
func envFilePaths() []string {
	paths := []string{envFileName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", configDirName, envFileName))
	}
	return paths
}

// loadEnvFile loads the first .env file found. Variables already set win.
func loadEnvFile(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

// loadConfig reads cfgFile (or the default search path), the environment and
// any flags already bound to v.
func loadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(configName)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath("./config")
	}

	err := v.ReadInConfig()
	notFound := viper.ConfigFileNotFoundError{}
	switch {
	case err != nil && cfgFile == "" && errors.As(err, &notFound):
		// The config file is optional.
	case err != nil:
		return Config{}, apperr.Wrap(err, "failed to read config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, apperr.Wrap(err, "invalid config")
	}
	cfg.File = v.ConfigFileUsed()

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	if cfg.GreenCheck.Timeout < 0 {
		return Config{}, apperr.Userf("invalid greencheck.timeout %s", cfg.GreenCheck.Timeout)
	}
	return cfg, nil
}

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = defaultLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, apperr.Userf("invalid --log-level %q (expected trace|debug|info|warn|error|disabled)", s)
	}
	return level, nil
}

// newLogger builds the console logger used by every command.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("app", "ai-footprint").Logger(), nil
}
