package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
db:
  host: localhost
  port: 5432
  user: app
  password: secret
  dbname: submissions
  sslmode: disable
`

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, minimalConfig))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 5, cfg.Pool.Size)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "uploads", cfg.Storage.Dir)
	assert.Equal(t, "task-reminders", cfg.Kafka.Topic)
	assert.Equal(t, time.Minute, cfg.Reminder.Interval)
	assert.Equal(t, 24*time.Hour, cfg.Reminder.Window)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, minimalConfig+`
http:
  address: ":9000"
pool:
  size: 3
`))
	t.Setenv("HTTP_ADDRESS", ":7070")
	t.Setenv("POOL_SIZE", "8")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("STORAGE_DIR", "/var/lib/submissions")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Address)
	assert.Equal(t, 8, cfg.Pool.Size)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "/var/lib/submissions", cfg.Storage.Dir)
}

func TestLoadRejectsIncompleteDatabaseConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, `
db:
  host: localhost
`))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database configuration is incomplete")
}

func TestLoadRejectsUnknownStorageBackend(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, minimalConfig+`
storage:
  backend: ftp
`))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestLoadRequiresBucketForS3Backend(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, minimalConfig+`
storage:
  backend: s3
`))

	_, err := Load()
	require.Error(t, err)

	t.Setenv("S3_BUCKET", "submissions")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "submissions", cfg.Storage.S3.Bucket)
}

func TestLoadRequiresBrokersWhenRemindersEnabled(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, minimalConfig+`
reminder:
  enabled: true
`))

	_, err := Load()
	require.Error(t, err)

	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestGetDBConnectionString(t *testing.T) {
	cfg := &Config{DB: DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "app",
		Password: "secret",
		DBName:   "submissions",
		SSLMode:  "disable",
	}}

	assert.Equal(t,
		"host=localhost port=5432 user=app password=secret dbname=submissions sslmode=disable",
		cfg.GetDBConnectionString())
}
