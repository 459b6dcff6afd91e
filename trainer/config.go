// Package trainer wires collection, loss computation, optimization and
// evaluation into the training loop.
package trainer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Gimmyalex/logicrl/core"
)

// Config holds every training-run knob. Values come from an optional YAML
// file with environment-variable overrides on top.
type Config struct {
	RunSeed   int64    `yaml:"run_seed"`
	GroupSize int      `yaml:"group_size"`
	Domains   []string `yaml:"domains"`

	Curriculum string `yaml:"curriculum"` // "static" or "adaptive"

	ClipFraction     float64 `yaml:"clip_fraction"`
	AdvantageEpsilon float64 `yaml:"advantage_epsilon"`

	BatchGroups       int `yaml:"batch_groups"`
	TargetBatchTokens int `yaml:"target_batch_tokens"`
	MaxBatches        int `yaml:"max_batches"`
	Workers           int `yaml:"workers"`

	EvalInterval       int     `yaml:"eval_interval"` // batches between evaluation passes
	HoldoutSizePerTask int     `yaml:"holdout_size_per_task"`
	PlateauPatience    int     `yaml:"plateau_patience"`
	PlateauThreshold   float64 `yaml:"plateau_threshold"`

	ArtifactsDir   string `yaml:"artifacts_dir"`
	TokenEncoder   string `yaml:"token_encoder"`
	OracleWASMPath string `yaml:"oracle_wasm_path"` // optional syntax oracle module

	PolicyMode    string  `yaml:"policy_mode"` // "mock" or "openai"
	PolicyBaseURL string  `yaml:"policy_base_url"`
	PolicyModel   string  `yaml:"policy_model"`
	PolicyRPS     float64 `yaml:"policy_rps"`
	PolicyBurst   int     `yaml:"policy_burst"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	MetricsAddr string `yaml:"metrics_addr"`

	TracingEndpoint string `yaml:"tracing_endpoint"`
}

// DefaultConfig returns a runnable configuration with the mock policy.
func DefaultConfig() Config {
	return Config{
		RunSeed:            1,
		GroupSize:          8,
		Domains:            []string{"syllogism", "propositional", "agreement", "movement"},
		Curriculum:         "static",
		ClipFraction:       0.2,
		AdvantageEpsilon:   1e-8,
		BatchGroups:        16,
		TargetBatchTokens:  0,
		MaxBatches:         200,
		Workers:            4,
		EvalInterval:       5,
		HoldoutSizePerTask: 20,
		PlateauPatience:    4,
		PlateauThreshold:   0.01,
		ArtifactsDir:       "./artifacts",
		TokenEncoder:       "cl100k_base",
		PolicyMode:         "mock",
		PolicyRPS:          10,
		PolicyBurst:        20,
		LogLevel:           "info",
		LogFormat:          "json",
		MetricsAddr:        ":9090",
	}
}

// LoadConfig reads the YAML file at path (when non-empty) over the defaults,
// then applies environment overrides, then validates.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.RunSeed = getEnvInt64("TRAINER_RUN_SEED", c.RunSeed)
	c.GroupSize = getEnvInt("TRAINER_GROUP_SIZE", c.GroupSize)
	if v := os.Getenv("TRAINER_DOMAINS"); v != "" {
		c.Domains = parseCommaSeparated(v)
	}
	c.Curriculum = getEnv("TRAINER_CURRICULUM", c.Curriculum)
	c.BatchGroups = getEnvInt("TRAINER_BATCH_GROUPS", c.BatchGroups)
	c.MaxBatches = getEnvInt("TRAINER_MAX_BATCHES", c.MaxBatches)
	c.EvalInterval = getEnvInt("TRAINER_EVAL_INTERVAL", c.EvalInterval)
	c.HoldoutSizePerTask = getEnvInt("TRAINER_HOLDOUT_SIZE", c.HoldoutSizePerTask)
	c.ArtifactsDir = getEnv("TRAINER_ARTIFACTS_DIR", c.ArtifactsDir)
	c.OracleWASMPath = getEnv("TRAINER_ORACLE_WASM_PATH", c.OracleWASMPath)
	c.PolicyMode = getEnv("TRAINER_POLICY_MODE", c.PolicyMode)
	c.PolicyBaseURL = getEnv("TRAINER_POLICY_BASE_URL", c.PolicyBaseURL)
	c.PolicyModel = getEnv("TRAINER_POLICY_MODEL", c.PolicyModel)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.MetricsAddr = getEnv("TRAINER_METRICS_ADDR", c.MetricsAddr)
	c.TracingEndpoint = getEnv("TRAINER_TRACING_ENDPOINT", c.TracingEndpoint)
}

// Validate rejects configurations the training loop cannot run with.
func (c Config) Validate() error {
	if c.GroupSize < 2 {
		return fmt.Errorf("group_size must be at least 2: %w", core.ErrGroupTooSmall)
	}
	if len(c.Domains) == 0 {
		return fmt.Errorf("at least one domain required")
	}
	for _, d := range c.Domains {
		if !core.Domain(d).Valid() {
			return fmt.Errorf("unknown domain %q", d)
		}
	}
	if c.Curriculum != "static" && c.Curriculum != "adaptive" {
		return fmt.Errorf("curriculum must be static or adaptive, got %q", c.Curriculum)
	}
	if c.ClipFraction <= 0 || c.ClipFraction >= 1 {
		return fmt.Errorf("clip_fraction must be in (0,1), got %v", c.ClipFraction)
	}
	if c.BatchGroups < 1 {
		return fmt.Errorf("batch_groups must be positive")
	}
	if c.EvalInterval < 1 {
		return fmt.Errorf("eval_interval must be positive")
	}
	if c.HoldoutSizePerTask < 1 {
		return fmt.Errorf("holdout_size_per_task must be positive")
	}
	if c.PlateauPatience < 2 {
		return fmt.Errorf("plateau_patience must be at least 2")
	}
	if c.PlateauThreshold < 0 {
		return fmt.Errorf("plateau_threshold must be non-negative")
	}
	return nil
}

// DomainList converts the configured domain names.
func (c Config) DomainList() []core.Domain {
	out := make([]core.Domain, len(c.Domains))
	for i, d := range c.Domains {
		out[i] = core.Domain(d)
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
