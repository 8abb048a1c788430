package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"damagecontrol/internal/domain"
)

func TestDefaultScenarioIsValid(t *testing.T) {
	cfg := Default("sim-1")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Voyager", cfg.Simulator.Name)
	assert.Len(t, cfg.Systems, 5)
	for _, s := range cfg.Systems {
		assert.Equal(t, "sim-1", s.SimulatorID, s.ID)
	}
	for _, r := range cfg.Rooms {
		assert.Equal(t, "sim-1", r.SimulatorID, r.ID)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"simulator id", func(c *Config) { c.Simulator.ID = "" }, "simulator.id"},
		{"simulator name", func(c *Config) { c.Simulator.Name = "" }, "simulator.name"},
		{"duplicate deck", func(c *Config) { c.Decks = append(c.Decks, domain.Deck{ID: "deck-1", Number: 9}) }, "duplicate deck id"},
		{"duplicate deck number", func(c *Config) { c.Decks = append(c.Decks, domain.Deck{ID: "deck-9", Number: 1}) }, "duplicate deck number"},
		{"room deck", func(c *Config) { c.Rooms[0].DeckID = "deck-9" }, "unknown deck"},
		{"crew id", func(c *Config) { c.Crew = append(c.Crew, domain.Crew{ID: "crew-1"}) }, "duplicate crew id"},
		{"inventory count", func(c *Config) { c.Inventory[0].Count = -1 }, "negative count"},
		{"system name", func(c *Config) { c.Systems[0].Name = "" }, "requires a name"},
		{"system id", func(c *Config) { c.Systems[1].ID = "engines" }, "duplicate system id"},
		{"default power level", func(c *Config) {
			c.Systems[1].Power = &domain.Power{Power: 5, PowerLevels: []int{5}, DefaultLevel: 3}
		}, "default power level 3"},
		{"system room", func(c *Config) { c.Systems[0].Locations = []string{"holodeck"} }, "unknown room"},
		{"system step", func(c *Config) {
			c.Systems[0].OptionalDamageSteps = []domain.DamageStep{{ID: "empty"}}
		}, "damage step"},
		{"system task", func(c *Config) {
			c.Systems[0].DamageTasks = []domain.DamageTask{{Definition: "no id"}}
		}, "damage task"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default("sim-1")
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestInternalCommNeedsNoName(t *testing.T) {
	cfg := Default("sim-1")
	for _, s := range cfg.Systems {
		if s.Class == domain.ClassInternalComm {
			assert.Empty(t, s.Name)
		}
	}
	assert.NoError(t, cfg.Validate())
}

func TestFromYAMLParsesSteps(t *testing.T) {
	src := GenerateDefault("sim-2") + `    requiredDamageSteps:
      - {name: generic, args: {message: Reroute the coolant.}}
`
	cfg, err := FromYAML([]byte(src))
	require.NoError(t, err)
	last := cfg.Systems[len(cfg.Systems)-1]
	require.Len(t, last.RequiredDamageSteps, 1)
	assert.Equal(t, domain.GenericArgs{Message: "Reroute the coolant."}, last.RequiredDamageSteps[0].Args)
}

func TestFromYAMLRejectsUnknownStepArgs(t *testing.T) {
	src := GenerateDefault("sim-2") + `    requiredDamageSteps:
      - {name: generic, args: {wattage: 3}}
`
	_, err := FromYAML([]byte(src))
	assert.Error(t, err)
}

func TestLoadFromWorkspace(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dc scenario init")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenario.yml"), []byte(GenerateDefault("sim-3")), 0o644))
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sim-3", cfg.Simulator.ID)
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("DAMAGECONTROL_STEPS", "9")
	t.Setenv("DAMAGECONTROL_LOG_FORMAT", "json")
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	s, err := LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, 9, s.Steps)
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, "info", s.LogLevel)
	assert.Zero(t, s.Seed)
}

func TestSettingsRejectInvalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("steps", 0)
	_, err := LoadSettings(v)
	require.Error(t, err)

	v.Set("steps", 3)
	v.Set("log-format", "xml")
	_, err = LoadSettings(v)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "log-format"))
}
