package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Experiment ExperimentConfig `mapstructure:"experiment"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port          string `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// GeminiConfig holds the remote personalization endpoint settings. An
// empty API key disables the remote strategy entirely.
type GeminiConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryBase  time.Duration `mapstructure:"retry_base"`
}

// ExperimentConfig holds study-protocol settings.
type ExperimentConfig struct {
	DefaultMode        string        `mapstructure:"default_mode"`
	SurveyPath         string        `mapstructure:"survey_path"`
	ControlDelay       time.Duration `mapstructure:"control_delay"`
	PostSurveyDebounce time.Duration `mapstructure:"post_survey_debounce"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "change-me-before-running-a-study")

	// Logging defaults
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-2.5-pro")
	v.SetDefault("gemini.timeout", "60s")
	v.SetDefault("gemini.max_retries", 5)
	v.SetDefault("gemini.retry_base", "500ms")

	// Experiment defaults
	v.SetDefault("experiment.default_mode", "experimental")
	v.SetDefault("experiment.survey_path", "config/survey.yaml")
	v.SetDefault("experiment.control_delay", "5s")
	v.SetDefault("experiment.post_survey_debounce", "500ms")
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("ADAPTUI") // e.g., ADAPTUI_GEMINI_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the config into our global Conf variable
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
