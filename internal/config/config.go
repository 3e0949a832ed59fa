package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for the YAML config when --config is unset.
const DefaultPath = "agent.yaml"

// EnvFiles are loaded (if present) before environment overrides are applied.
// Variables already set in the process environment win.
var EnvFiles = []string{".env.local", ".env"}

// Config holds all agent runtime configuration.
type Config struct {
	// DataDir holds JSON content files and persisted records.
	DataDir string `yaml:"data_dir"`

	// Companies maps persona name to the company it speaks for.
	Companies map[string]string `yaml:"companies"`

	LLM     LLMConfig     `yaml:"llm"`
	Voice   VoiceConfig   `yaml:"voice"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "shared-data",
		Companies: map[string]string{
			"tutor":      "Physics Wallah",
			"barista":    "Brewtopia Coffee",
			"wellness":   "Mindful Days",
			"sdr":        "Lumen Payments",
			"fraud":      "Meridian Bank",
			"gamemaster": "Emberfall Tales",
			"shop":       "Zepto",
			"improv":     "Improv Battle",
		},

		LLM: LLMConfig{
			Provider:      "gemini",
			Model:         "gemini-2.5-flash",
			Timeout:       "60s",
			MaxToolRounds: 8,
		},

		Voice: VoiceConfig{
			TTS: TTSConfig{
				Provider:   "murf",
				Voice:      "en-US-matthew",
				Style:      "Promo",
				TextPacing: true,
			},
			STT: STTConfig{
				Provider: "deepgram",
				Model:    "nova-3",
			},
			VAD: VADConfig{
				Provider:            "silero",
				ActivationThreshold: 0.5,
				MinSilence:          "550ms",
			},
		},

		Store: StoreConfig{
			FraudBackend: "sqlite",
			SQLitePath:   "fraud_cases.db",
			RedisAddr:    "localhost:6379",
			RedisPrefix:  "agent",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Dir:    "logs",
		},

		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9464",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file is not an error: defaults plus environment are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	loadEnvFiles(filepath.Dir(path))
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// loadEnvFiles reads dotenv files next to the config file and in the
// working directory. Missing files are ignored.
func loadEnvFiles(dir string) {
	seen := make(map[string]bool)
	for _, base := range []string{dir, "."} {
		for _, name := range EnvFiles {
			path := filepath.Join(base, name)
			if seen[path] {
				continue
			}
			seen[path] = true
			if _, err := os.Stat(path); err == nil {
				_ = godotenv.Load(path)
			}
		}
	}
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("AGENT_LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if key := os.Getenv("MURF_API_KEY"); key != "" {
		c.Voice.TTS.APIKey = key
	}
	if key := os.Getenv("DEEPGRAM_API_KEY"); key != "" {
		c.Voice.STT.APIKey = key
	}

	if dir := os.Getenv("AGENT_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if backend := os.Getenv("AGENT_FRAUD_BACKEND"); backend != "" {
		c.Store.FraudBackend = strings.ToLower(backend)
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Store.RedisAddr = addr
	}
	if level := os.Getenv("AGENT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// Company returns the company a persona speaks for, or the persona name.
func (c *Config) Company(persona string) string {
	if name, ok := c.Companies[persona]; ok && name != "" {
		return name
	}
	return persona
}

// DataPath joins name onto the data directory.
func (c *Config) DataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// ValidProviders lists supported LLM providers.
var ValidProviders = []string{"gemini"}

// ValidFraudBackends lists supported fraud case stores.
var ValidFraudBackends = []string{"sqlite", "redis", "memory"}

// Validate validates the configuration.
// A missing API key is not an error: the LLM capability is simply disabled.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if !slices.Contains(ValidProviders, c.LLM.Provider) {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}
	if c.LLM.MaxToolRounds < 1 {
		return fmt.Errorf("llm.max_tool_rounds must be at least 1")
	}
	if !slices.Contains(ValidFraudBackends, c.Store.FraudBackend) {
		return fmt.Errorf("invalid fraud backend: %s (valid: %v)", c.Store.FraudBackend, ValidFraudBackends)
	}
	if c.Voice.VAD.ActivationThreshold < 0 || c.Voice.VAD.ActivationThreshold > 1 {
		return fmt.Errorf("voice.vad.activation_threshold must be within [0,1]")
	}
	return nil
}
