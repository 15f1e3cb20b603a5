package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig().Ticker, cfg.Ticker); diff != "" {
		t.Errorf("ticker config mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Cities) == 0 || len(cfg.Feeds) == 0 {
		t.Error("expected default cities and feeds")
	}
}

func TestLoadJSONFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"gemini":{"model":"gemini-test"},"ticker":{"default_tag":"LIVE","refresh_minutes":5}}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gemini.Model != "gemini-test" {
		t.Errorf("expected model gemini-test, got %q", cfg.Gemini.Model)
	}
	if cfg.Ticker.DefaultTag != "LIVE" {
		t.Errorf("expected tag LIVE, got %q", cfg.Ticker.DefaultTag)
	}
	if cfg.Ticker.RefreshInterval() != 5*time.Minute {
		t.Errorf("expected 5m refresh, got %v", cfg.Ticker.RefreshInterval())
	}
	if cfg.Ticker.SpellDebounce() != 700*time.Millisecond {
		t.Errorf("expected default 700ms debounce, got %v", cfg.Ticker.SpellDebounce())
	}
	if len(cfg.Feeds) == 0 {
		t.Error("expected default feeds when none configured")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
feeds:
  - name: Local
    url: http://localhost/feed.xml
cities:
  - name: Sa Pa
    lat: 22.33
    lon: 103.84
ticker:
  weather_rotate_seconds: 10
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Name != "Local" {
		t.Errorf("unexpected feeds: %+v", cfg.Feeds)
	}
	if len(cfg.Cities) != 1 || cfg.Cities[0].Name != "Sa Pa" {
		t.Errorf("unexpected cities: %+v", cfg.Cities)
	}
	if cfg.Ticker.WeatherInterval() != 10*time.Second {
		t.Errorf("expected 10s rotation, got %v", cfg.Ticker.WeatherInterval())
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Ticker.DefaultTag = "TRỰC TIẾP"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Ticker.DefaultTag != "TRỰC TIẾP" {
		t.Errorf("expected saved tag, got %q", reloaded.Ticker.DefaultTag)
	}
}

func TestSaveKeepsEnvKeyOutOfFile(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "env-secret")
	t.Setenv("API_KEY", "")

	dir := t.TempDir()
	for _, tc := range []struct {
		name, file, want string
	}{
		{"config.json", `{"gemini":{"model":"m"}}`, ""},
		{"config.yaml", "gemini:\n  api_key: file-key\n  model: m\n", "file-key"},
	} {
		path := filepath.Join(dir, tc.name)
		if err := os.WriteFile(path, []byte(tc.file), 0600); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		cfg.AutoPopulateFromEnv()
		if cfg.Gemini.APIKey != "env-secret" {
			t.Fatalf("%s: APIKey = %q, want env key in memory", tc.name, cfg.Gemini.APIKey)
		}
		if err := cfg.Save(); err != nil {
			t.Fatalf("%s: Save failed: %v", tc.name, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(data), "env-secret") {
			t.Errorf("%s: environment key written to disk:\n%s", tc.name, data)
		}
		reloaded, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if reloaded.Gemini.APIKey != tc.want {
			t.Errorf("%s: saved key = %q, want %q", tc.name, reloaded.Gemini.APIKey, tc.want)
		}
		if cfg.Gemini.APIKey != "env-secret" {
			t.Errorf("%s: Save changed the in-memory key", tc.name)
		}
	}
}

func TestAutoPopulateFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "secret")
	t.Setenv("GEMINI_MODEL", "gemini-pro")

	cfg := DefaultConfig()
	cfg.AutoPopulateFromEnv()
	if cfg.Gemini.APIKey != "secret" {
		t.Errorf("expected key from API_KEY, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-pro" {
		t.Errorf("expected model override, got %q", cfg.Gemini.Model)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	os.Unsetenv("API_KEY")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("API_KEY=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if cfg.Gemini.APIKey != "from-file" {
		t.Errorf("expected key from env file, got %q", cfg.Gemini.APIKey)
	}
}
