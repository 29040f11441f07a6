package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "studyplan"
	configFile = "config.yaml"

	DefaultCalendar = "Study"
)

type Config struct {
	Storage   StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Reminders ReminderConfig `yaml:"reminders" mapstructure:"reminders"`
	Buzzer    BuzzerConfig   `yaml:"buzzer" mapstructure:"buzzer"`
	Notices   NoticeConfig   `yaml:"notices" mapstructure:"notices"`
	Calendar  string         `yaml:"calendar" mapstructure:"calendar"`
	Web       WebConfig      `yaml:"web" mapstructure:"web"`
}

// StorageConfig selects the key-value backend holding the task list.
type StorageConfig struct {
	Backend  string `yaml:"backend" mapstructure:"backend"`
	Path     string `yaml:"path,omitempty" mapstructure:"path"`
	DSN      string `yaml:"dsn,omitempty" mapstructure:"dsn"`
	URI      string `yaml:"uri,omitempty" mapstructure:"uri"`
	Username string `yaml:"username,omitempty" mapstructure:"username"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
}

type ReminderConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

type BuzzerConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Player is the command used to play the WAV file; empty picks paplay, aplay or afplay.
	Player string `yaml:"player,omitempty" mapstructure:"player"`
}

type NoticeConfig struct {
	Desktop bool `yaml:"desktop" mapstructure:"desktop"`
}

type WebConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

func Default() *Config {
	return &Config{
		Storage:   StorageConfig{Backend: "file"},
		Reminders: ReminderConfig{Enabled: true, Interval: 30 * time.Second},
		Buzzer:    BuzzerConfig{Enabled: true},
		Notices:   NoticeConfig{Desktop: false},
		Calendar:  DefaultCalendar,
		Web:       WebConfig{Addr: "127.0.0.1:8080"},
	}
}

func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func newViper() *viper.Viper {
	def := Default()
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STUDYPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.dsn", def.Storage.DSN)
	v.SetDefault("storage.uri", def.Storage.URI)
	v.SetDefault("storage.username", def.Storage.Username)
	v.SetDefault("storage.password", def.Storage.Password)
	v.SetDefault("reminders.enabled", def.Reminders.Enabled)
	v.SetDefault("reminders.interval", def.Reminders.Interval)
	v.SetDefault("buzzer.enabled", def.Buzzer.Enabled)
	v.SetDefault("buzzer.player", def.Buzzer.Player)
	v.SetDefault("notices.desktop", def.Notices.Desktop)
	v.SetDefault("calendar", def.Calendar)
	v.SetDefault("web.addr", def.Web.Addr)
	return v
}

// Load reads the config at path, or the default location when path is empty.
// A missing file yields the defaults; STUDYPLAN_* environment variables override both.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := newViper()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Calendar == "" {
		cfg.Calendar = DefaultCalendar
	}
	if cfg.Reminders.Interval <= 0 {
		cfg.Reminders.Interval = 30 * time.Second
	}
	return &cfg, nil
}

// Save writes cfg as YAML to path, or the default location when path is empty.
func Save(path string, cfg *Config) error {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
