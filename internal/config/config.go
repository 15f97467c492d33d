package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Captions    CaptionsConfig    `yaml:"captions"`
	Diagrams    DiagramsConfig    `yaml:"diagrams"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Mermaid     MermaidConfig     `yaml:"mermaid"`
	Store       StoreConfig       `yaml:"store"`
	Report      ReportConfig      `yaml:"report"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type CaptionsConfig struct {
	GroupSize     int     `yaml:"group_size"`
	MaxLines      int     `yaml:"max_lines"`
	LineWidth     int     `yaml:"line_width"`
	TrailingHoldS float64 `yaml:"trailing_hold_s"`
	MinHighlightS float64 `yaml:"min_highlight_s"`
}

type DiagramsConfig struct {
	Keywords           []string `yaml:"keywords"` // empty means the built-in vocabulary
	LookaheadWords     int      `yaml:"lookahead_words"`
	MergeWindowS       float64  `yaml:"merge_window_s"`
	MinDurationS       float64  `yaml:"min_duration_s"`
	MaxWindows         int      `yaml:"max_windows"`
	GenerationTimeoutS int      `yaml:"generation_timeout_s"`
	MaxConcurrent      int      `yaml:"max_concurrent"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

type MermaidConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type ReportConfig struct {
	Storyboard bool `yaml:"storyboard"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}

	if c.Captions.GroupSize == 0 {
		c.Captions.GroupSize = 5
	}
	if c.Captions.MaxLines == 0 {
		c.Captions.MaxLines = 2
	}
	if c.Captions.LineWidth == 0 {
		c.Captions.LineWidth = 32
	}
	if c.Captions.TrailingHoldS == 0 {
		c.Captions.TrailingHoldS = 1.5
	}
	if c.Captions.MinHighlightS == 0 {
		c.Captions.MinHighlightS = 0.05
	}

	if c.Diagrams.LookaheadWords == 0 {
		c.Diagrams.LookaheadWords = 5
	}
	if c.Diagrams.MergeWindowS == 0 {
		c.Diagrams.MergeWindowS = 2.0
	}
	if c.Diagrams.MinDurationS == 0 {
		c.Diagrams.MinDurationS = 3.0
	}
	if c.Diagrams.MaxWindows == 0 {
		c.Diagrams.MaxWindows = 4
	}
	if c.Diagrams.GenerationTimeoutS == 0 {
		c.Diagrams.GenerationTimeoutS = 120
	}
	if c.Diagrams.MaxConcurrent == 0 {
		c.Diagrams.MaxConcurrent = 2
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Mermaid.BinaryPath == "" {
		c.Mermaid.BinaryPath = "mmdc"
	}
	if c.Store.Path == "" {
		c.Store.Path = "data/rendersync.db"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
