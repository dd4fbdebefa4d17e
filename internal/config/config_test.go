package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewReadsMollieSettings(t *testing.T) {
	t.Setenv("MOLLIE_USERNAME", "user")
	t.Setenv("MOLLIE_PASSWORD", "secret")
	t.Setenv("MOLLIE_ORIGINATOR", "0612345678")
	t.Setenv("MOLLIE_GATEWAY", "https://gw.example.org/xml/")
	t.Setenv("MOLLIE_TIMEOUT", "3s")
	t.Setenv("MOLLIE_TIMEZONE", "Asia/Tokyo")

	cfg := New()

	assert.Equal(t, "user", cfg.Mollie.Username)
	assert.Equal(t, "secret", cfg.Mollie.Password)
	assert.Equal(t, "0612345678", cfg.Mollie.Originator)
	assert.Equal(t, "https://gw.example.org/xml/", cfg.Mollie.Gateway)
	assert.Equal(t, 3*time.Second, cfg.Mollie.Timeout)
	assert.Equal(t, "Asia/Tokyo", cfg.Mollie.Location.String())
}

func TestNewFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("SCHEDULER_INTERVAL", "soon")
	t.Setenv("SCHEDULER_AUTOSTART", "off")
	t.Setenv("MOLLIE_GATEWAY", "  ")
	t.Setenv("MOLLIE_TIMEZONE", "Mars/Olympus_Mons")

	cfg := New()

	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.Interval)
	assert.False(t, cfg.Scheduler.AutoStart)
	assert.Empty(t, cfg.Mollie.Gateway)
	assert.Equal(t, "Europe/Amsterdam", cfg.Mollie.Location.String())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{}
	cfg.DB.Host = "localhost"
	cfg.DB.Port = 5433
	cfg.DB.User = "u"
	cfg.DB.Password = "p"
	cfg.DB.Name = "sms"
	cfg.DB.SSLMode = "disable"

	assert.Equal(t, "host=localhost port=5433 user=u password=p dbname=sms sslmode=disable", cfg.PostgresDSN())
}
