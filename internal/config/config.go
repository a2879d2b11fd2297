package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Whisper  WhisperConfig  `yaml:"whisper"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelDir   string `yaml:"model_dir"`
	ModelSize  string `yaml:"model_size"` // tiny, base, small, medium, large
	Language   string `yaml:"language"`   // empty means auto-detect
	Threads    int    `yaml:"threads"`
	UseGPU     bool   `yaml:"use_gpu"`
	TimeoutSec int    `yaml:"timeout_seconds"`
}

type AnalysisConfig struct {
	Provider           string       `yaml:"provider"` // local, cloud, basic
	MinTranscriptChars int          `yaml:"min_transcript_chars"`
	Ollama             OllamaConfig `yaml:"ollama"`
	Gemini             GeminiConfig `yaml:"gemini"`
}

type OllamaConfig struct {
	Host       string `yaml:"host"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_seconds"`
}

type GeminiConfig struct {
	APIKey     string `yaml:"api_key"` // usually supplied via GEMINI_API_KEY
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_seconds"`
}

type PathsConfig struct {
	Watch string `yaml:"watch"`
	Temp  string `yaml:"temp"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Load reads the YAML configuration file, applies environment overrides
// and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// applyEnv lets environment variables override file values. The API key in
// particular is expected to come from the environment, not the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini().APIKey = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.Analysis.Ollama.Host = v
	}
	if v := os.Getenv("MEETSCRIBE_PROVIDER"); v != "" {
		c.Analysis.Provider = v
	}
	if v := os.Getenv("MEETSCRIBE_MODEL_SIZE"); v != "" {
		c.Whisper.ModelSize = v
	}
	if v := os.Getenv("MEETSCRIBE_WHISPER_BIN"); v != "" {
		c.Whisper.BinaryPath = v
	}
}

// Gemini returns the cloud provider section.
func (c *Config) Gemini() *GeminiConfig {
	return &c.Analysis.Gemini
}

// WhisperTimeout returns the transcription wall-clock bound.
func (c *Config) WhisperTimeout() time.Duration {
	return time.Duration(c.Whisper.TimeoutSec) * time.Second
}

// OllamaTimeout returns the local provider request timeout. It is kept
// shorter than the cloud timeout since the local service is interactive.
func (c *Config) OllamaTimeout() time.Duration {
	return time.Duration(c.Analysis.Ollama.TimeoutSec) * time.Second
}

// GeminiTimeout returns the cloud provider request timeout.
func (c *Config) GeminiTimeout() time.Duration {
	return time.Duration(c.Analysis.Gemini.TimeoutSec) * time.Second
}

func (c *Config) Validate() error {
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.ModelDir == "" {
		c.Whisper.ModelDir = "models"
	}
	if c.Whisper.ModelSize == "" {
		c.Whisper.ModelSize = "base"
	}
	switch c.Whisper.ModelSize {
	case "tiny", "base", "small", "medium", "large":
	default:
		return fmt.Errorf("whisper.model_size must be one of tiny, base, small, medium, large; got %q", c.Whisper.ModelSize)
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Whisper.TimeoutSec == 0 {
		c.Whisper.TimeoutSec = 600
	}

	if c.Analysis.Provider == "" {
		c.Analysis.Provider = "basic"
	}
	switch c.Analysis.Provider {
	case "local", "cloud", "basic":
	default:
		return fmt.Errorf("analysis.provider must be one of local, cloud, basic; got %q", c.Analysis.Provider)
	}
	if c.Analysis.MinTranscriptChars == 0 {
		c.Analysis.MinTranscriptChars = 80
	}
	if c.Analysis.Ollama.Host == "" {
		c.Analysis.Ollama.Host = "http://127.0.0.1:11434"
	}
	if c.Analysis.Ollama.Model == "" {
		c.Analysis.Ollama.Model = "llama3.2"
	}
	if c.Analysis.Ollama.TimeoutSec == 0 {
		c.Analysis.Ollama.TimeoutSec = 30
	}
	if c.Analysis.Gemini.Model == "" {
		c.Analysis.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Analysis.Gemini.TimeoutSec == 0 {
		c.Analysis.Gemini.TimeoutSec = 120
	}
	if c.Analysis.Ollama.TimeoutSec >= c.Analysis.Gemini.TimeoutSec {
		return fmt.Errorf("analysis.ollama.timeout_seconds (%d) must be shorter than analysis.gemini.timeout_seconds (%d)",
			c.Analysis.Ollama.TimeoutSec, c.Analysis.Gemini.TimeoutSec)
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		c.Metrics.Address = "127.0.0.1:9099"
	}

	return nil
}
