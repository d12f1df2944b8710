package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PlaceholderAPIKey is the value shipped in sample configs. It counts as "not configured".
const PlaceholderAPIKey = "your_gemini_api_key_here"

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	LLM       LLMConfig
	Upload    UploadConfig
	Quiz      QuizConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig

	// File is the absolute path of the config file that was read, if any.
	File string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimitMB  int
	StaticDir    string // served at "/" when set
}

type LoggerConfig struct {
	Level  string
	Env    string
	Output string // "stdout" or "stderr"
}

// LLMConfig configures the quiz generation backend.
type LLMConfig struct {
	Provider        string
	APIKey          string
	Model           string
	BaseURL         string
	APIVersion      string
	OllamaServerURL string
	OllamaModel     string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
	MaxConcurrent   int64
	MaxRetries      int
}

// CredentialConfigured reports whether the provider can be called.
// Ollama runs without a credential; Gemini needs a real API key.
func (c LLMConfig) CredentialConfigured() bool {
	if c.Provider == ProviderOllama {
		return true
	}
	return APIKeyConfigured(c.APIKey)
}

// APIKeyConfigured treats empty and placeholder keys as missing.
func APIKeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderAPIKey
}

type UploadConfig struct {
	Dir       string
	MaxSizeMB int
}

type QuizConfig struct {
	StrictValidation bool
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 90)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.body_limit_mb", 20)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.output", "stdout")

	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("llm.api_version", "v1beta")
	v.SetDefault("llm.ollama_server_url", "http://localhost:11434")
	v.SetDefault("llm.ollama_model", "qwen3:0.6b")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_output_tokens", 2048)
	v.SetDefault("llm.timeout", 60)
	v.SetDefault("llm.max_concurrent", 8)
	v.SetDefault("llm.max_retries", 0)

	v.SetDefault("upload.dir", "")
	v.SetDefault("upload.max_size_mb", 20)

	v.SetDefault("quiz.strict_validation", false)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.requests_per_minute", 0)
}

// LoadConfig reads config.yaml (optional) and the process environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"llm.api_key":    "GEMINI_API_KEY",
		"llm.provider":   "LLM_PROVIDER",
		"server.port":    "PORT",
		"redis.address":  "REDIS_ADDRESS",
		"redis.password": "REDIS_PASSWORD",
		"upload.dir":     "UPLOAD_DIR",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	if configFile := v.ConfigFileUsed(); configFile != "" {
		if absPath, err := filepath.Abs(configFile); err == nil {
			configFile = absPath
		}
		cfg.File = configFile
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			IdleTimeout:  time.Duration(v.GetInt("server.idle_timeout")) * time.Second,
			BodyLimitMB:  v.GetInt("server.body_limit_mb"),
			StaticDir:    v.GetString("server.static_dir"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Env:    v.GetString("logger.env"),
			Output: v.GetString("logger.output"),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			APIKey:          strings.TrimSpace(v.GetString("llm.api_key")),
			Model:           v.GetString("llm.model"),
			BaseURL:         strings.TrimRight(v.GetString("llm.base_url"), "/"),
			APIVersion:      strings.Trim(v.GetString("llm.api_version"), "/"),
			OllamaServerURL: v.GetString("llm.ollama_server_url"),
			OllamaModel:     v.GetString("llm.ollama_model"),
			Temperature:     v.GetFloat64("llm.temperature"),
			MaxOutputTokens: v.GetInt("llm.max_output_tokens"),
			Timeout:         time.Duration(v.GetInt("llm.timeout")) * time.Second,
			MaxConcurrent:   v.GetInt64("llm.max_concurrent"),
			MaxRetries:      v.GetInt("llm.max_retries"),
		},
		Upload: UploadConfig{
			Dir:       v.GetString("upload.dir"),
			MaxSizeMB: v.GetInt("upload.max_size_mb"),
		},
		Quiz: QuizConfig{
			StrictValidation: v.GetBool("quiz.strict_validation"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: v.GetInt("rate_limit.requests_per_minute"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("unsupported llm provider %q (want %q or %q)", c.LLM.Provider, ProviderGemini, ProviderOllama)
	}
	if c.LLM.Provider == ProviderGemini && c.LLM.Model == "" {
		return fmt.Errorf("llm.model cannot be empty")
	}
	if c.LLM.Provider == ProviderOllama && c.LLM.OllamaModel == "" {
		return fmt.Errorf("llm.ollama_model cannot be empty")
	}
	if c.LLM.MaxOutputTokens <= 0 {
		return fmt.Errorf("llm.max_output_tokens must be positive, got %d", c.LLM.MaxOutputTokens)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	if c.LLM.MaxConcurrent <= 0 {
		return fmt.Errorf("llm.max_concurrent must be positive, got %d", c.LLM.MaxConcurrent)
	}
	if c.LLM.MaxRetries < 0 || c.LLM.MaxRetries > 3 {
		return fmt.Errorf("llm.max_retries must be between 0 and 3, got %d", c.LLM.MaxRetries)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}
	return nil
}
