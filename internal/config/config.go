package config

import (
	"errors"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "haru.db"
	DefaultLogName        = "haru.log"
)

// EnvConfigPath overrides where the config file is looked up.
const EnvConfigPath = "HARU_CONFIG"

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Edit    string `toml:"edit"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
	DueDate string `toml:"due_date"`
	Next    string `toml:"next_field"`
	Prev    string `toml:"prev_field"`
}

type Config struct {
	DBPath  string `toml:"db_path"`
	LogPath string `toml:"log_path"`
	Keys    Keymap `toml:"keys"`
}

// ResolvePath returns the config file location, honoring the override
// environment variable.
func ResolvePath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing the defaults out first
// when no file exists yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:  DefaultDBName,
		LogPath: DefaultLogName,
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Edit:    "e",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Confirm: "enter",
			Cancel:  "esc",
			DueDate: "ctrl+d",
			Next:    "tab",
			Prev:    "shift+tab",
		},
	}
}
