package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"replay": { "speed": 4.0, "trails": false },
		"source": { "type": "file", "path": "/missions/sortie07.json" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, 4.0, GetFloat("replay.speed"))
	assert.False(t, GetBool("replay.trails"))

	src := Source()
	assert.Equal(t, "file", src.Type)
	assert.Equal(t, "/missions/sortie07.json", src.Path)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{}`), 0644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, 1.0, GetFloat("replay.speed"))
	assert.True(t, GetBool("replay.trails"))
	assert.True(t, GetBool("replay.labels"))
	assert.Equal(t, 33, GetInt("replay.frameIntervalMs"))
	assert.Equal(t, "sample", Source().Type)
	assert.False(t, GetBool("influx.enabled"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	assert.Error(t, err)
}
