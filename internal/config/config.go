package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Congress    CongressConfig    `yaml:"congress"`
	FEC         FECConfig         `yaml:"fec"`
	OpenSecrets OpenSecretsConfig `yaml:"opensecrets"`
	Scrape      ScrapeConfig      `yaml:"scrape"`
	Output      Output            `yaml:"output"`
	Server      Server            `yaml:"server"`
	Logging     Logging           `yaml:"logging"`
}

type CongressConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Congress  int    `yaml:"congress"`
	BillLimit int    `yaml:"bill_limit"`
}

type FECConfig struct {
	BaseURL      string  `yaml:"base_url"`
	APIKeyEnv    string  `yaml:"api_key_env"`
	MinDelayMS   int     `yaml:"min_delay_ms"`
	MaxRetries   int     `yaml:"max_retries"`
	MinAmountUSD float64 `yaml:"min_amount_usd"`
}

type OpenSecretsConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type ScrapeConfig struct {
	HouseURL  string `yaml:"house_url"`
	SenateURL string `yaml:"senate_url"`
	MaxAgeH   int    `yaml:"max_age_hours"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for civicscope.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "civicscope")
}

// DataDir returns the XDG data directory for civicscope.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "civicscope")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/civicscope/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'civicscope init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Congress: CongressConfig{
			BaseURL:   "https://api.congress.gov/v3",
			APIKeyEnv: "CONGRESS_API_KEY",
			Congress:  118,
			BillLimit: 250,
		},
		FEC: FECConfig{
			BaseURL:      "https://api.open.fec.gov/v1",
			APIKeyEnv:    "FEC_API_KEY",
			MinDelayMS:   1000,
			MaxRetries:   3,
			MinAmountUSD: 10000,
		},
		OpenSecrets: OpenSecretsConfig{
			BaseURL:   "https://www.opensecrets.org/api",
			APIKeyEnv: "OPENSECRETS_API_KEY",
		},
		Scrape: ScrapeConfig{
			HouseURL:  "https://www.house.gov/representatives",
			SenateURL: "https://www.senate.gov/senators/",
			MaxAgeH:   24,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "info"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// RequireKey reads the env var named by envName and fails with an error
// naming the missing variable. Jobs call this before doing any work so a
// missing key aborts the run up front.
func RequireKey(envName string) (string, error) {
	key := os.Getenv(envName)
	if key == "" {
		return "", fmt.Errorf("missing required environment variable %s", envName)
	}
	return key, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
