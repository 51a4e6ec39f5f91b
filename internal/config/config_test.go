package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	def := Default()
	assert.Equal(t, def.Theme, cfg.Theme)
	assert.Equal(t, def.WeightUnit, cfg.WeightUnit)
	assert.Equal(t, def.List, cfg.List)
	assert.Equal(t, def.Reminder.Workdays, cfg.Reminder.Workdays)
	assert.False(t, cfg.Reminder.Enabled)
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme: dark
weight_unit: LB
list:
  max_items: 3
server:
  addr: ":9000"
reminder:
  enabled: true
  time: "07:30"
  workdays: ["monday", "thu", "x"]
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "lb", cfg.WeightUnit)
	assert.Equal(t, 3, cfg.List.MaxItems)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.True(t, cfg.Reminder.Enabled)
	assert.Equal(t, "07:30", cfg.Reminder.Time)
	assert.Equal(t, []string{"Mon", "Thu"}, cfg.Reminder.Workdays)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileEnvOverride(t *testing.T) {
	t.Setenv("LIFTLOG_SERVER_ADDR", "0.0.0.0:1234")
	t.Setenv("LIFTLOG_LOG_LEVEL", "debug")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:1234", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := Default()
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Reminder.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())

	cfg.Reminder.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, cfg.Location())
}
