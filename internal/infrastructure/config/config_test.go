package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	return dir
}

// TestLoad_Defaults 没有配置文件时使用默认值
func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, StrategyTransaction, cfg.Purchase.Strategy)
	assert.Equal(t, 3, cfg.Purchase.CompensationAttempts)
	assert.Equal(t, 10, cfg.Catalog.LowStockThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Purchase.IdempotencyTTL)
	assert.Zero(t, cfg.Purchase.RateLimit, "默认不限流")
	assert.False(t, cfg.CORS.Enabled)
	assert.Contains(t, cfg.CORS.AllowHeaders, "Idempotency-Key")
}

// TestLoad_FileAndEnvOverride 文件值被环境变量覆盖
func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := writeConfig(t, "config.yaml", `
server:
  port: 9090
database:
  host: db.internal
  password: from-file
purchase:
  compensation_backoff: 10ms
`)
	t.Setenv("BOOKSTORE_DATABASE_PASSWORD", "from-env")
	t.Setenv("BOOKSTORE_CATALOG_LOW_STOCK_THRESHOLD", "5")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 5, cfg.Catalog.LowStockThreshold)
	assert.Equal(t, 10*time.Millisecond, cfg.Purchase.CompensationBackoff)
}

// TestLoad_EnvSpecificFile BOOKSTORE_ENV选择环境配置
func TestLoad_EnvSpecificFile(t *testing.T) {
	dir := writeConfig(t, "config.demo.yaml", `
database:
  driver: memory
`)
	t.Setenv("BOOKSTORE_ENV", "demo")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	// 内存存储强制使用补偿策略
	assert.Equal(t, StrategyCompensation, cfg.Purchase.Strategy)
}

// TestLoad_Invalid 配置校验
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"无效端口", "server:\n  port: 70000\n"},
		{"未知驱动", "database:\n  driver: sqlite\n"},
		{"未知策略", "purchase:\n  strategy: best-effort\n"},
		{"补偿次数为0", "purchase:\n  compensation_attempts: 0\n"},
		{"未知日志格式", "log:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, "config.yaml", tt.content))
			assert.Error(t, err)
		})
	}
}

// TestDatabaseConfig_DSN loc参数需要URL编码
func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "127.0.0.1", Port: 3306, User: "root", Password: "pw",
		DBName: "bookstore", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/bookstore?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
}
