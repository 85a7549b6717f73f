package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[database]
host = "localhost"
user = "booking"
dbname = "booking"

[auth]
jwt_secret = "secret"

[notification]
channel = "smtp"

[notification.smtp]
host = "smtp.example.com"
from = "reports@example.com"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Pagination.DefaultSize)
	assert.Equal(t, 100, cfg.Pagination.MaxSize)
	assert.Equal(t, "./files/reports", cfg.Reports.Dir)
	assert.Equal(t, 500, cfg.Reports.BatchSize)
	assert.Equal(t, ',', cfg.Reports.DelimiterRune())
	assert.Equal(t, 587, cfg.Notification.SMTP.Port)
	assert.Equal(t, "report.generated", cfg.Notification.AMQP.Queue)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PASSWORD", "db-pass")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "db-pass", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=db-pass")
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("AMQP_URL", "")

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing database",
			content: "[auth]\njwt_secret = \"s\"\n",
		},
		{
			name: "amqp without url",
			content: `
[database]
host = "localhost"
user = "booking"
dbname = "booking"

[auth]
jwt_secret = "secret"

[notification]
channel = "amqp"
`,
		},
		{
			name: "multi-character delimiter",
			content: minimalConfig + `
[reports]
delimiter = ";;"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestValidate_UnknownChannel(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	cfg.Notification.Channel = "sms"
	assert.Error(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
