package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ReminderConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Time     string   `mapstructure:"time"`     // "18:00"
	Workdays []string `mapstructure:"workdays"` // ["Mon","Wed","Fri"]
	Holidays []string `mapstructure:"holidays"` // ["2026-12-25"]
	Timezone string   `mapstructure:"timezone"` // e.g. "Europe/Berlin" (optional)
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type ListConfig struct {
	// MaxItems caps the entries shown per workout in summary views; 0 shows all.
	MaxItems int `mapstructure:"max_items"`
}

type ServerConfig struct {
	Addr   string `mapstructure:"addr"`
	APIKey string `mapstructure:"api_key"`
}

type Config struct {
	Theme      string         `mapstructure:"theme"`
	DBPath     string         `mapstructure:"db_path"`
	WeightUnit string         `mapstructure:"weight_unit"`
	Log        LogConfig      `mapstructure:"log"`
	List       ListConfig     `mapstructure:"list"`
	Server     ServerConfig   `mapstructure:"server"`
	Reminder   ReminderConfig `mapstructure:"reminder"`
}

func Default() Config {
	return Config{
		Theme:      "default",
		WeightUnit: "kg",
		Log:        LogConfig{Level: "info"},
		List:       ListConfig{MaxItems: 6},
		Server:     ServerConfig{Addr: "127.0.0.1:8421"},
		Reminder: ReminderConfig{
			Enabled:  false,
			Time:     "18:00",
			Workdays: []string{"Mon", "Wed", "Fri"},
			Holidays: []string{},
		},
	}
}

// Path returns ~/.config/liftlog/config.yaml, creating the directory.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "liftlog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the default config file. LIFTLOG_* environment variables
// override file values (LIFTLOG_SERVER_ADDR for server.addr).
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit path. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("LIFTLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("weight_unit", cfg.WeightUnit)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.json", cfg.Log.JSON)
	v.SetDefault("list.max_items", cfg.List.MaxItems)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.api_key", cfg.Server.APIKey)
	v.SetDefault("reminder.enabled", cfg.Reminder.Enabled)
	v.SetDefault("reminder.time", cfg.Reminder.Time)
	v.SetDefault("reminder.workdays", cfg.Reminder.Workdays)
	v.SetDefault("reminder.holidays", cfg.Reminder.Holidays)
	v.SetDefault("reminder.timezone", cfg.Reminder.Timezone)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	cfg.Reminder.Workdays = normalizeWorkdays(cfg.Reminder.Workdays)
	cfg.WeightUnit = strings.ToLower(strings.TrimSpace(cfg.WeightUnit))
	if cfg.WeightUnit != "lb" {
		cfg.WeightUnit = "kg"
	}
	return cfg, nil
}

// normalizeWorkdays turns "monday", " TUE" into "Mon", "Tue". Entries
// shorter than three letters are dropped.
func normalizeWorkdays(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if len(d) < 3 {
			continue
		}
		out = append(out, strings.ToUpper(d[:1])+d[1:3])
	}
	return out
}

func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Reminder.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}
