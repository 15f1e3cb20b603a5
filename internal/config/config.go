package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abelbrown/bantin/internal/model"
)

// Config is the persistent application configuration
type Config struct {
	// Generative model used for headlines and spelling
	Gemini GeminiConfig `json:"gemini" yaml:"gemini"`

	// Syndicated sources, fetched together every refresh cycle
	Feeds []FeedConfig `json:"feeds" yaml:"feeds"`

	// Weather rotation targets, in display order
	Cities []model.City `json:"cities" yaml:"cities"`

	Ticker TickerConfig `json:"ticker" yaml:"ticker"`

	// Where the database and logs live; empty means ~/.bantin
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`

	path string

	// API key as read from the file and as taken from the environment.
	// Save never writes an environment key.
	fileKey string
	envKey  string
}

// GeminiConfig holds generative model settings
type GeminiConfig struct {
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model    string `json:"model" yaml:"model"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"` // Override for proxies and tests
}

// FeedConfig is one RSS/Atom source
type FeedConfig struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// TickerConfig holds timing and presentation settings
type TickerConfig struct {
	DefaultTag           string `json:"default_tag" yaml:"default_tag"`
	RefreshMinutes       int    `json:"refresh_minutes" yaml:"refresh_minutes"`
	WeatherRotateSeconds int    `json:"weather_rotate_seconds" yaml:"weather_rotate_seconds"`
	SpellDebounceMs      int    `json:"spell_debounce_ms" yaml:"spell_debounce_ms"`
	MaxHeadlines         int    `json:"max_headlines" yaml:"max_headlines"`
	Language             string `json:"language" yaml:"language"` // Output language for generated text
	Timezone             string `json:"timezone" yaml:"timezone"`
	CharsPerSecond       int    `json:"chars_per_second" yaml:"chars_per_second"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Feeds: []FeedConfig{
			{Name: "VnExpress", URL: "https://vnexpress.net/rss/tin-moi-nhat.rss"},
			{Name: "Tuổi Trẻ", URL: "https://tuoitre.vn/rss/tin-moi-nhat.rss"},
			{Name: "Thanh Niên", URL: "https://thanhnien.vn/rss/home.rss"},
			{Name: "Dân Trí", URL: "https://dantri.com.vn/rss/home.rss"},
			{Name: "VietnamPlus", URL: "https://www.vietnamplus.vn/rss/home.rss"},
		},
		Cities: []model.City{
			{Name: "Hà Nội", Lat: 21.0285, Lon: 105.8542},
			{Name: "TP. Hồ Chí Minh", Lat: 10.8231, Lon: 106.6297},
			{Name: "Đà Nẵng", Lat: 16.0544, Lon: 108.2022},
			{Name: "Hải Phòng", Lat: 20.8449, Lon: 106.6881},
			{Name: "Cần Thơ", Lat: 10.0452, Lon: 105.7469},
			{Name: "Huế", Lat: 16.4637, Lon: 107.5909},
			{Name: "Nha Trang", Lat: 12.2388, Lon: 109.1967},
		},
		Ticker: TickerConfig{
			DefaultTag:           "TIN KHẨN",
			RefreshMinutes:       15,
			WeatherRotateSeconds: 5,
			SpellDebounceMs:      700,
			MaxHeadlines:         30,
			Language:             "Vietnamese",
			Timezone:             "Asia/Ho_Chi_Minh",
			CharsPerSecond:       12,
		},
	}
}

// DefaultDataDir returns ~/.bantin
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bantin")
}

// ConfigPath returns the default path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.json")
}

// Load reads config from path, or returns defaults when the file is missing.
// Files ending in .yaml or .yml are decoded as YAML, everything else as JSON.
// Zero-valued fields are filled from DefaultConfig.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.path = path
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.path = path
	cfg.fileKey = cfg.Gemini.APIKey
	return &cfg, nil
}

// Save writes config to the path it was loaded from. An API key that came
// from the environment is replaced by the one the file had.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = ConfigPath()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out := *c
	if c.envKey != "" && c.Gemini.APIKey == c.envKey {
		out.Gemini.APIKey = c.fileKey
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(&out)
	} else {
		data, err = json.MarshalIndent(&out, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in the API key and model from environment variables
func (c *Config) AutoPopulateFromEnv() {
	for _, name := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			c.Gemini.APIKey = key
			c.envKey = key
		}
	}
	if m := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); m != "" {
		c.Gemini.Model = m
	}
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment, then re-applies AutoPopulateFromEnv. Variables already set in
// the environment win over the file.
func (c *Config) LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	c.AutoPopulateFromEnv()
	return nil
}

// ResolvedDataDir returns DataDir or the default
func (c *Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return DefaultDataDir()
}

// DBPath returns the SQLite database location
func (c *Config) DBPath() string {
	return filepath.Join(c.ResolvedDataDir(), "bantin.db")
}

// RefreshInterval is the syndicated refetch period
func (t TickerConfig) RefreshInterval() time.Duration {
	return time.Duration(t.RefreshMinutes) * time.Minute
}

// WeatherInterval is the weather rotation period
func (t TickerConfig) WeatherInterval() time.Duration {
	return time.Duration(t.WeatherRotateSeconds) * time.Second
}

// SpellDebounce is the quiet period before a spelling check fires
func (t TickerConfig) SpellDebounce() time.Duration {
	return time.Duration(t.SpellDebounceMs) * time.Millisecond
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Gemini.Model == "" {
		c.Gemini.Model = def.Gemini.Model
	}
	if len(c.Feeds) == 0 {
		c.Feeds = def.Feeds
	}
	if len(c.Cities) == 0 {
		c.Cities = def.Cities
	}

	t := &c.Ticker
	if strings.TrimSpace(t.DefaultTag) == "" {
		t.DefaultTag = def.Ticker.DefaultTag
	}
	if t.RefreshMinutes <= 0 {
		t.RefreshMinutes = def.Ticker.RefreshMinutes
	}
	if t.WeatherRotateSeconds <= 0 {
		t.WeatherRotateSeconds = def.Ticker.WeatherRotateSeconds
	}
	if t.SpellDebounceMs <= 0 {
		t.SpellDebounceMs = def.Ticker.SpellDebounceMs
	}
	if t.MaxHeadlines <= 0 {
		t.MaxHeadlines = def.Ticker.MaxHeadlines
	}
	if t.Language == "" {
		t.Language = def.Ticker.Language
	}
	if t.Timezone == "" {
		t.Timezone = def.Ticker.Timezone
	}
	if t.CharsPerSecond <= 0 {
		t.CharsPerSecond = def.Ticker.CharsPerSecond
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
