package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const validKey = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PASETO_KEY", validKey)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "dev", cfg.Server.Env)
	require.True(t, cfg.Server.IsDevelopment())
	require.Equal(t, 60*time.Minute, cfg.Auth.AccessTokenDuration)
	require.Equal(t, "tasknest", cfg.Database.DBName)
}

func TestLoad_MissingPasetoKey(t *testing.T) {
	t.Setenv("PASETO_KEY", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "PASETO_KEY")
}

func TestLoad_ShortPasetoKey(t *testing.T) {
	t.Setenv("PASETO_KEY", "too-short")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "32 bytes")
}

func TestLoad_NonPositiveTokenDuration(t *testing.T) {
	t.Setenv("PASETO_KEY", validKey)
	t.Setenv("ACCESS_TOKEN_DURATION", "0")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ACCESS_TOKEN_DURATION")

	t.Setenv("ACCESS_TOKEN_DURATION", "-60")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_TokenDurationSeconds(t *testing.T) {
	t.Setenv("PASETO_KEY", validKey)
	t.Setenv("ACCESS_TOKEN_DURATION", "900")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
}

func TestLoad_TrustedOrigins(t *testing.T) {
	t.Setenv("PASETO_KEY", validKey)
	t.Setenv("TRUSTED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.TrustedOrigins)
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.local",
		Port:     "5433",
		User:     "app",
		Password: "pw",
		DBName:   "tasks",
		SSLMode:  "require",
	}

	require.Equal(t,
		"host=db.local port=5433 user=app password=pw dbname=tasks sslmode=require",
		cfg.ConnectionString(),
	)

	cfg.ChannelBinding = "require"
	require.Contains(t, cfg.ConnectionString(), "channel_binding=require")
}
