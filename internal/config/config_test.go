package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Empty directory: no config file, defaults apply.
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err, "A missing config file should not be an error")

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "fittracker", cfg.Database.Name)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 15*time.Minute, cfg.JWT.ResetExpiration)
	assert.Equal(t, 2*time.Second, cfg.Backup.Debounce)
	assert.Empty(t, cfg.Backup.SnapshotPath, "Local snapshot is disabled by default")
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  address: ":9999"
database:
  name: plannertest
jwt:
  secret: file-secret
  expiration: 2h
backup:
  debounce: 750ms
  snapshot_path: /tmp/snapshots
stripe:
  price_id: price_123
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err, "Reading a valid config file should succeed")

	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, "plannertest", cfg.Database.Name)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration, "Duration strings should parse")
	assert.Equal(t, 750*time.Millisecond, cfg.Backup.Debounce)
	assert.Equal(t, "/tmp/snapshots", cfg.Backup.SnapshotPath)
	assert.Equal(t, "price_123", cfg.Stripe.PriceID)

	// Values absent from the file keep their defaults.
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
}
