package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohsurveil/internal/blob"
	"ohsurveil/internal/core"
	"ohsurveil/internal/insights"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, core.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, blob.DriverMemory, cfg.Blob.Driver)
	assert.Equal(t, insights.DefaultModel, cfg.Insights.Model)
	assert.Equal(t, insights.DefaultTimeout, cfg.Insights.Timeout)
	assert.Empty(t, cfg.Insights.APIKey)
	assert.True(t, cfg.Seed)

	settings := cfg.Clinic.Settings()
	assert.Equal(t, "Klinik Dan Surgeri Abriel", settings.ClinicName)
	assert.Equal(t, "DR Louis Nethaniel Johnson", settings.DoctorName)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clinic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
storage:
  driver: sqlite
  sqlite_path: /var/lib/ohsurveil/registry.db
blob:
  driver: s3
  s3:
    bucket: reports
    path_style: true
insights:
  timeout: 15s
clinic:
  name: Klinik Kesihatan Pekerja
seed: false
`), 0o600))

	t.Setenv("OHSURVEIL_LOG_LEVEL", "warn")
	t.Setenv("OHSURVEIL_BLOB_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, core.StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/ohsurveil/registry.db", cfg.Storage.SQLitePath)
	assert.Equal(t, blob.DriverS3, cfg.Blob.Driver)
	assert.Equal(t, "reports", cfg.Blob.S3.Bucket)
	assert.True(t, cfg.Blob.S3.PathStyle)
	assert.Equal(t, "http://minio:9000", cfg.Blob.S3.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.Insights.Timeout)
	assert.Equal(t, "g-key", cfg.Insights.APIKey)
	assert.Equal(t, "Klinik Kesihatan Pekerja", cfg.Clinic.Name)
	assert.Equal(t, "DR Louis Nethaniel Johnson", cfg.Clinic.Doctor)
	assert.False(t, cfg.Seed)
}

func TestLoadPicksUpWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ohsurveil.json"), []byte(`{"storage":{"driver":"redis","redis":{"addr":"cache:6380","db":2}}}`), 0o600))
	chdir(t, dir)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, core.StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
}

func TestLoadErrors(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	t.Setenv("OHSURVEIL_STORAGE_DRIVER", "mongo")
	_, err = Load("")
	assert.ErrorContains(t, err, `storage.driver "mongo"`)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	base, err := Load("")
	require.NoError(t, err)

	cases := map[string]func(*Config){
		"log level":    func(c *Config) { c.Log.Level = "trace" },
		"log format":   func(c *Config) { c.Log.Format = "xml" },
		"postgres dsn": func(c *Config) { c.Storage.Driver = core.StoragePostgres },
		"s3 bucket":    func(c *Config) { c.Blob.Driver = blob.DriverS3 },
		"blob driver":  func(c *Config) { c.Blob.Driver = "gcs" },
		"timeout":      func(c *Config) { c.Insights.Timeout = time.Millisecond },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, base.Validate())
}
