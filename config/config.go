package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodMac/pydiagram-lens/core"
	"gopkg.in/yaml.v3"
)

// FileName 项目根目录下的配置文件名
const FileName = ".pydiagram.yaml"

// Config holds all configuration for the analyzer.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AnalysisConfig holds extraction configuration.
type AnalysisConfig struct {
	Language           string   `yaml:"language"`
	BaseModule         string   `yaml:"base_module"` // 为空时取扫描根目录名
	Includes           []string `yaml:"includes"`
	Excludes           []string `yaml:"excludes"`
	Gitignore          bool     `yaml:"gitignore"` // 读取根目录的 .gitignore 作为额外排除
	Jobs               int      `yaml:"jobs"`
	FailFast           bool     `yaml:"fail_fast"`
	DedupeAssociations bool     `yaml:"dedupe_associations"`
	FilterLevel        string   `yaml:"filter_level"` // raw, balanced, pure
	CacheSize          int      `yaml:"cache_size"`   // 0 表示关闭
}

// OutputConfig holds export configuration.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // json, jsonl, yaml, mermaid
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Language:    string(core.LangPython),
			Includes:    []string{"**/*.py", "**/*.pyi"},
			Excludes:    []string{"**/__pycache__/**", "**/.git/**", "**/.venv/**", "**/venv/**", "**/.tox/**", "**/node_modules/**"},
			Gitignore:   true,
			Jobs:        4,
			FilterLevel: "raw",
			CacheSize:   256,
		},
		Output: OutputConfig{
			Dir:    "./output",
			Format: "json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// LoadFromDir loads configuration from a directory (looks for .pydiagram.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	if core.Language(c.Analysis.Language) != core.LangPython {
		return fmt.Errorf("unsupported language: %q", c.Analysis.Language)
	}
	if c.Analysis.Jobs <= 0 {
		return fmt.Errorf("analysis.jobs must be positive, got %d", c.Analysis.Jobs)
	}
	if c.Analysis.CacheSize < 0 {
		return fmt.Errorf("analysis.cache_size must not be negative, got %d", c.Analysis.CacheSize)
	}
	if _, err := core.ParseFilterLevel(c.Analysis.FilterLevel); err != nil {
		return err
	}
	switch c.Output.Format {
	case "json", "jsonl", "yaml", "mermaid":
	default:
		return fmt.Errorf("unknown output format: %q", c.Output.Format)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// FilterLevel 解析后的过滤等级
func (c *Config) FilterLevel() core.FilterLevel {
	level, _ := core.ParseFilterLevel(c.Analysis.FilterLevel)
	return level
}

// LogLevel 把 logging.level 转为 slog 等级
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Logging.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}
