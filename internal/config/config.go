package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Crawler  CrawlerConfig `yaml:"crawler"`
	EmbedLLM LLMConfig     `yaml:"embedding"`
	Store    StoreConfig   `yaml:"store"`
}

type CrawlerConfig struct {
	StartURL     string  `yaml:"start_url"`
	MaxDepth     int     `yaml:"max_depth"`
	MaxPages     int     `yaml:"max_pages"`
	DelaySeconds float64 `yaml:"delay_seconds"`
	UserAgent    string  `yaml:"user_agent"`
	OutputFile   string  `yaml:"output_file"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

type StoreConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Collection  string `yaml:"collection"`
	PostgresDSN string `yaml:"postgres_dsn"`
	Debug       bool   `yaml:"debug"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Crawler: CrawlerConfig{
			StartURL:     "https://www.stanford.edu/",
			MaxDepth:     2,
			MaxPages:     10,
			DelaySeconds: 1.0,
			OutputFile:   "website.json",
		},
		EmbedLLM: LLMConfig{
			Provider: "ollama",
			BaseURL:  "http://localhost:11434",
			Model:    "nomic-embed-text",
		},
		Store: StoreConfig{
			Backend:    "chromem",
			Path:       "./chromem_storage",
			Collection: "web_content_vectors",
		},
	}
}

// LoadConfig reads the yaml config at path. A missing file yields the
// defaults; fields left zero in the file are filled from the defaults too.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Crawler.StartURL == "" {
		cfg.Crawler.StartURL = def.Crawler.StartURL
	}
	if cfg.Crawler.MaxDepth == 0 {
		cfg.Crawler.MaxDepth = def.Crawler.MaxDepth
	}
	if cfg.Crawler.MaxPages == 0 {
		cfg.Crawler.MaxPages = def.Crawler.MaxPages
	}
	if cfg.Crawler.DelaySeconds == 0 {
		cfg.Crawler.DelaySeconds = def.Crawler.DelaySeconds
	}
	if cfg.Crawler.OutputFile == "" {
		cfg.Crawler.OutputFile = def.Crawler.OutputFile
	}
	if cfg.EmbedLLM.Provider == "" {
		cfg.EmbedLLM.Provider = def.EmbedLLM.Provider
	}
	if cfg.EmbedLLM.BaseURL == "" {
		cfg.EmbedLLM.BaseURL = def.EmbedLLM.BaseURL
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = def.EmbedLLM.Model
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = def.Store.Backend
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = def.Store.Path
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = def.Store.Collection
	}
}
