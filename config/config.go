// Package config 管理服务配置：YAML 文件加载、默认值与环境变量覆盖。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务配置根结构。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Scryfall ScryfallConfig `yaml:"scryfall"`
	Cache    CacheConfig    `yaml:"cache"`
	Fonts    FontConfig     `yaml:"fonts"`
	Labels   LabelConfig    `yaml:"labels"`
	Overlay  OverlayConfig  `yaml:"overlay"`
}

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Port        int    `yaml:"port"`
	BindAddress string `yaml:"bind_address"`
}

// ScryfallConfig 上游客户端配置。
type ScryfallConfig struct {
	BaseURL          string `yaml:"base_url"`
	SymbologyURL     string `yaml:"symbology_url"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	RetryAttempts    int    `yaml:"retry_attempts"`
	RateLimitDelayMS int    `yaml:"rate_limit_delay_ms"`
	MinSetSize       int    `yaml:"min_set_size"`
}

// Timeout 单次上游请求超时。
func (c ScryfallConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RateLimitDelay 相邻上游请求的最小间隔。
func (c ScryfallConfig) RateLimitDelay() time.Duration {
	return time.Duration(c.RateLimitDelayMS) * time.Millisecond
}

// CacheConfig 内存缓存与符号文件缓存配置。
type CacheConfig struct {
	TTLSeconds      int    `yaml:"ttl_seconds"`
	MaxEntries      int    `yaml:"max_entries"`
	DrawingCapacity int    `yaml:"drawing_capacity"`
	SymbolDir       string `yaml:"symbol_dir"`
}

// TTL 内存缓存条目的存活时间。
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// FontConfig 字体文件位置。
type FontConfig struct {
	Dir       string `yaml:"dir"`
	TitleFile string `yaml:"title_file"`
	BodyFile  string `yaml:"body_file"`
}

// LabelConfig 标签排版配置。
type LabelConfig struct {
	DefaultTemplate string `yaml:"default_template"`
}

// OverlayConfig 模板底图叠加配置。Templates 以标签模板名为键，
// 值为对应的模板底图 PDF 文件路径。
type OverlayConfig struct {
	Enabled   bool              `yaml:"enabled"`
	Templates map[string]string `yaml:"templates"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			BindAddress: "0.0.0.0",
		},
		Scryfall: ScryfallConfig{
			BaseURL:          "https://api.scryfall.com/sets",
			SymbologyURL:     "https://api.scryfall.com/symbology",
			TimeoutSeconds:   30,
			RetryAttempts:    3,
			RateLimitDelayMS: 75,
			MinSetSize:       10,
		},
		Cache: CacheConfig{
			TTLSeconds:      86400,
			MaxEntries:      100,
			DrawingCapacity: 50,
			SymbolDir:       "./data/symbols",
		},
		Fonts: FontConfig{
			Dir:       "./fonts",
			TitleFile: "EBGaramond-Bold.ttf",
			BodyFile:  "SourceSansPro-Regular.ttf",
		},
		Labels: LabelConfig{
			DefaultTemplate: "avery5160",
		},
		Overlay: OverlayConfig{
			Enabled:   false,
			Templates: map[string]string{},
		},
	}
}

// Load 加载配置文件。文件不存在时返回默认配置，
// 存在则在默认值基础上合并文件内容，最后应用环境变量覆盖。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// 无配置文件按默认值运行
		case err != nil:
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
			}
			cfg.resolvePaths(filepath.Dir(path))
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Addr 返回服务监听地址。
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// TitleFontPath 标题字体文件的完整路径。
func (c *Config) TitleFontPath() string {
	return filepath.Join(c.Fonts.Dir, c.Fonts.TitleFile)
}

// BodyFontPath 正文字体文件的完整路径。
func (c *Config) BodyFontPath() string {
	return filepath.Join(c.Fonts.Dir, c.Fonts.BodyFile)
}

// applyEnvOverrides 应用环境变量覆盖。
func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if dir := os.Getenv("SYMBOL_CACHE_DIR"); dir != "" {
		c.Cache.SymbolDir = dir
	}
	if dir := os.Getenv("FONT_DIR"); dir != "" {
		c.Fonts.Dir = dir
	}
	if url := os.Getenv("SCRYFALL_BASE_URL"); url != "" {
		c.Scryfall.BaseURL = url
	}
}

// resolvePaths 把配置中的相对路径换算成相对配置文件所在目录。
func (c *Config) resolvePaths(configDir string) {
	if c.Cache.SymbolDir != "" && !filepath.IsAbs(c.Cache.SymbolDir) {
		c.Cache.SymbolDir = filepath.Join(configDir, c.Cache.SymbolDir)
	}
	if c.Fonts.Dir != "" && !filepath.IsAbs(c.Fonts.Dir) {
		c.Fonts.Dir = filepath.Join(configDir, c.Fonts.Dir)
	}
	for name, p := range c.Overlay.Templates {
		if p != "" && !filepath.IsAbs(p) {
			c.Overlay.Templates[name] = filepath.Join(configDir, p)
		}
	}
}
