package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/csvfang/internal/config"
)

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	emptyPath := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(emptyPath, []byte(""), 0o600))

	cfg, err := config.LoadConfig(emptyPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, int64(config.DefaultNumPerSplit), cfg.Split.NumPerSplit)
	assert.Equal(t, config.DefaultReadBuffer, cfg.Split.ReadBuffer)
	assert.Equal(t, config.DefaultOutputDir, cfg.Split.OutputDir)
	assert.Equal(t, config.DefaultCompress, cfg.Split.Compress)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), ".csvfang.yaml")
	content := `split:
  num_per_split: 25000
  read_buffer: "4MiB"
  output_dir: "/data/splits"
  compress: true
log:
  level: "debug"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, int64(25000), cfg.Split.NumPerSplit)
	assert.Equal(t, "4MiB", cfg.Split.ReadBuffer)
	assert.Equal(t, "/data/splits", cfg.Split.OutputDir)
	assert.True(t, cfg.Split.Compress)
	assert.Equal(t, "debug", cfg.Log.Level)

	size, err := cfg.ReadBufferBytes()
	require.NoError(t, err)
	assert.Equal(t, 4<<20, size)
}

func TestLoadConfig_InvalidValues_ReturnsValidationError(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), ".csvfang.yaml")
	content := `split:
  num_per_split: -3
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := config.LoadConfig(cfgPath)
	require.Nil(t, cfg)
	assert.ErrorIs(t, err, config.ErrInvalidNumPerSplit)
}

func TestLoadConfig_MalformedYAML_ReturnsError(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), ".csvfang.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("split: ["), 0o600))

	cfg, err := config.LoadConfig(cfgPath)
	require.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CSVFANG_SPLIT_NUM_PER_SPLIT", "500")
	t.Setenv("CSVFANG_LOG_LEVEL", "warn")

	emptyPath := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(emptyPath, []byte(""), 0o600))

	cfg, err := config.LoadConfig(emptyPath)
	require.NoError(t, err)

	assert.Equal(t, int64(500), cfg.Split.NumPerSplit)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_FileOverriddenByEnv(t *testing.T) {
	t.Setenv("CSVFANG_SPLIT_READ_BUFFER", "8MiB")

	cfgPath := filepath.Join(t.TempDir(), ".csvfang.yaml")
	content := `split:
  read_buffer: "2MiB"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "8MiB", cfg.Split.ReadBuffer)
}
