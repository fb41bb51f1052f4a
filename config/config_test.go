package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "4000"
leaderboardCap: 10
pricing:
  markupPercent: 10
  courseDiscountPercent: 5
redis:
  addr: "localhost:6379"
  ttl: "2m"
`), 0o600))

	t.Setenv("COURSE_DISCOUNT_PERCENT", "7.5")
	t.Setenv("PORT", "")

	cfg := LoadConfig(path)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 10, cfg.LeaderboardCap)
	assert.Equal(t, 10.0, cfg.Pricing.MarkupPercent)
	assert.Equal(t, 7.5, cfg.Pricing.CourseDiscountPercent)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Minute, cfg.RedisTTL(time.Minute))
	assert.Same(t, cfg, AppConfig)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 10, cfg.SaltRound)
	assert.Equal(t, 0, cfg.LeaderboardCap)
	assert.Equal(t, "0 2 * * *", cfg.SalesRollupCron)
	assert.Equal(t, 1.0, cfg.PointsPerCurrencyUnit)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestRedisTTLFallback(t *testing.T) {
	cfg := &Config{}
	cfg.Redis.TTL = "not-a-duration"
	assert.Equal(t, 5*time.Minute, cfg.RedisTTL(5*time.Minute))
}
