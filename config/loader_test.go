package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/osmtransit"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func restoreConfig(t *testing.T) {
	orig := Config
	t.Cleanup(func() { Config = orig })
}

func TestLoadAppConfig_FromFile(t *testing.T) {
	restoreConfig(t)
	path := writeConfig(t, t.TempDir(), `
logging:
  level: debug
  format: json
osm:
  extract: /data/marseille.osm.pbf
  parallelism: 2
  routeModes: [bus, tram]
  cachePath: /tmp/marseille.gob
dataset:
  input: /data/ntfs
  output: /data/ntfs-out
`)

	require.NoError(t, LoadAppConfig(path))
	assert.Equal(t, "debug", Config.Logging.Level)
	assert.Equal(t, "json", Config.Logging.Format)
	assert.Equal(t, "/data/marseille.osm.pbf", Config.OSM.Extract)
	assert.Equal(t, osmtransit.Options{Parallelism: 2, RouteModes: []string{"bus", "tram"}}, Config.OSM.ExtractOptions())
	assert.Equal(t, "/tmp/marseille.gob", Config.OSM.CachePath)
	assert.Equal(t, "/data/ntfs-out", Config.Dataset.Output)
}

func TestLoadAppConfig_DefaultsWithoutFile(t *testing.T) {
	restoreConfig(t)
	t.Chdir(t.TempDir())

	require.NoError(t, LoadAppConfig(""))
	assert.Equal(t, "info", Config.Logging.Level)
	assert.Equal(t, "console", Config.Logging.Format)
	assert.Equal(t, runtime.GOMAXPROCS(0), Config.OSM.Parallelism)
	assert.Equal(t, osmtransit.DefaultRouteModes, Config.OSM.RouteModes)
}

func TestLoadAppConfig_SearchesDefaultPaths(t *testing.T) {
	restoreConfig(t)
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, "logging:\n  level: warn\n")

	require.NoError(t, LoadAppConfig(""))
	assert.Equal(t, "warn", Config.Logging.Level)
}

func TestLoadAppConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "invalid: yaml: content: [[["},
		{name: "unknown level", content: "logging:\n  level: verbose\n"},
		{name: "negative parallelism", content: "osm:\n  parallelism: -1\n"},
		{name: "empty route mode", content: "osm:\n  routeModes: [bus, '']\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreConfig(t)
			path := writeConfig(t, t.TempDir(), tt.content)
			assert.Error(t, LoadAppConfig(path))
		})
	}
}

func TestLoadAppConfig_MissingExplicitFile(t *testing.T) {
	restoreConfig(t)
	err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
