package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dileep-u-k/weather-chat/internal/llm"
	"github.com/dileep-u-k/weather-chat/internal/weather"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// AppConfig holds everything read at startup: secrets and endpoints from the
// environment, tuning knobs from an optional YAML file.
type AppConfig struct {
	GoogleAPIKey  string `envconfig:"GOOGLE_API_KEY"`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	WeatherAPIKey string `envconfig:"WEATHER_API_KEY"`
	WeatherAPIURL string `envconfig:"WEATHER_API_URL" default:"https://api.openweathermap.org/data/2.5/weather"`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	Port          string `envconfig:"PORT" default:"3000"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	GinMode       string `envconfig:"GIN_MODE"`
	ConfigFile    string `envconfig:"CONFIG_FILE" default:"config.yaml"`

	Tuning Tuning `ignored:"true"`

	// DotenvLoaded reports whether a .env file was found.
	DotenvLoaded bool `ignored:"true"`
	// TuningLoaded reports whether ConfigFile existed.
	TuningLoaded bool `ignored:"true"`
}

// Tuning is the shape of the optional YAML file.
type Tuning struct {
	Weather struct {
		CacheTTL       time.Duration `yaml:"cache_ttl"`
		MaxRetries     int           `yaml:"max_retries"`
		InitialBackoff time.Duration `yaml:"initial_backoff"`
		HTTPTimeout    time.Duration `yaml:"http_timeout"`
	} `yaml:"weather"`
	Model struct {
		MaxOutputTokens int `yaml:"max_output_tokens"`
	} `yaml:"model"`
}

func defaultTuning() Tuning {
	var t Tuning
	t.Weather.CacheTTL = weather.DefaultCacheTTL
	t.Weather.MaxRetries = weather.DefaultMaxRetries
	t.Weather.InitialBackoff = weather.DefaultInitialBackoff
	t.Weather.HTTPTimeout = weather.DefaultHTTPTimeout
	t.Model.MaxOutputTokens = llm.DefaultMaxOutputTokens
	return t
}

// LoadConfig reads .env (outside release mode), the environment and the
// tuning file. Missing credentials are an error.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// In release mode configuration comes straight from the environment.
	if os.Getenv("GIN_MODE") != gin.ReleaseMode {
		cfg.DotenvLoaded = godotenv.Load() == nil
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if cfg.GoogleAPIKey == "" {
		cfg.GoogleAPIKey = cfg.GeminiAPIKey
	}
	if cfg.GoogleAPIKey == "" {
		return nil, errors.New("GOOGLE_API_KEY (or GEMINI_API_KEY) environment variable is not set")
	}
	if cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHER_API_KEY environment variable is not set")
	}

	tuning, loaded, err := loadTuning(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.Tuning = tuning
	cfg.TuningLoaded = loaded
	return cfg, nil
}

// loadTuning overlays the YAML file, if present, on the defaults.
func loadTuning(path string) (Tuning, bool, error) {
	tuning := defaultTuning()
	if path == "" {
		return tuning, false, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return tuning, false, nil
	}
	if err != nil {
		return tuning, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &tuning); err != nil {
		return tuning, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if tuning.Weather.MaxRetries < 0 {
		return tuning, false, fmt.Errorf("%s: weather.max_retries must not be negative", path)
	}
	return tuning, true, nil
}

func (c *AppConfig) weatherConfig() weather.Config {
	retries := c.Tuning.Weather.MaxRetries
	if retries == 0 {
		// weather.Config reads zero as "use the default".
		retries = -1
	}
	return weather.Config{
		BaseURL:        c.WeatherAPIURL,
		APIKey:         c.WeatherAPIKey,
		MaxRetries:     retries,
		InitialBackoff: c.Tuning.Weather.InitialBackoff,
		HTTPTimeout:    c.Tuning.Weather.HTTPTimeout,
	}
}

func (c *AppConfig) geminiConfig() llm.GeminiConfig {
	return llm.GeminiConfig{
		APIKey:          c.GoogleAPIKey,
		ModelID:         c.GeminiModel,
		MaxOutputTokens: c.Tuning.Model.MaxOutputTokens,
	}
}
