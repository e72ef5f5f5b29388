package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig_Defaults(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 60, cfg.RateLimit.Max)
	assert.Equal(t, "contact.submitted", cfg.Nats.Subject)
	assert.Equal(t, 24*60, cfg.Auth.TokenTTLMinutes)
	assert.False(t, cfg.StaffEnabled())
}

func TestReadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CONTACTUS_SERVER_PORT", "9090")
	t.Setenv("CONTACTUS_DATABASE_DRIVER", "memory")
	t.Setenv("CONTACTUS_AUTH_JWT_SECRET", "s3cret")

	cfg, err := ReadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	// memory store has no staff table
	assert.False(t, cfg.StaffEnabled())
}

func TestReadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  environment: development
database:
  driver: mysql
  port: 3306
email:
  enabled: true
  from: noreply@example.com
  to: [staff@example.com]
  smtp:
    host: smtp.example.com
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, []string{"staff@example.com"}, cfg.Email.To)
	assert.Equal(t, 587, cfg.Email.SMTP.Port)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: "postgres"},
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Email = EmailConfig{Enabled: true, From: "a@example.com", SMTP: SMTPConfig{Host: "smtp"}}
	assert.Error(t, cfg.Validate(), "no recipients")

	cfg.Email.To = []string{"b@example.com"}
	assert.NoError(t, cfg.Validate())
}
