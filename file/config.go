// Package file loads the dashboard configuration from a YAML file. The
// config only names storage locations and credential files; which backend
// actually owns meeting data is decided at runtime from what is present.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tripdesk/meetings"
)

type Config struct {
	DataDir    string `yaml:"data_dir"`
	Database   string `yaml:"database"`
	UserID     string `yaml:"user_id"`
	ListenAddr string `yaml:"listen_addr"`
	Google     struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
	} `yaml:"google"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		DataDir:    "data",
		Database:   "meetings.db",
		ListenAddr: ":8970",
	}
	cfg.Google.CredentialsFile = "credentials.json"
	cfg.Google.TokenFile = filepath.Join(cfg.DataDir, "token.json")
	return cfg
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults describe a fully local, anonymous setup.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Database == "" {
		return fmt.Errorf("database must not be empty")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	return nil
}

func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.Database)
}

// Session derives the credential state backend resolution runs on. The
// calendar token is whatever the configure flow last saved; an absent or
// unreadable token file simply means no calendar credential.
func (c *Config) Session() meetings.Session {
	sess := meetings.Session{UserID: c.UserID}
	if data, err := os.ReadFile(c.Google.TokenFile); err == nil {
		sess.CalendarAuth = string(data)
	}
	return sess
}
