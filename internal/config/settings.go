package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "DAMAGECONTROL"

// Settings are the engine settings read from flags and DAMAGECONTROL_* variables.
type Settings struct {
	Steps     int
	Seed      int64
	LogLevel  string
	LogFormat string
}

// SetDefaults registers the settings defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("steps", 5)
	v.SetDefault("seed", 0)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
}

// BindEnv makes v read DAMAGECONTROL_* variables, with dashes in keys mapped to underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// LoadSettings reads and validates the settings held by v.
func LoadSettings(v *viper.Viper) (Settings, error) {
	s := Settings{
		Steps:     v.GetInt("steps"),
		Seed:      v.GetInt64("seed"),
		LogLevel:  v.GetString("log-level"),
		LogFormat: v.GetString("log-format"),
	}
	if s.Steps < 1 {
		return Settings{}, fmt.Errorf("steps must be at least 1, got %d", s.Steps)
	}
	switch s.LogFormat {
	case "", "text", "json":
	default:
		return Settings{}, fmt.Errorf("log-format must be text or json, got %q", s.LogFormat)
	}
	return s, nil
}
