package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DEBUG_ECHO_OTP", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "dynamo", cfg.OTPStoreBackend)
	assert.Equal(t, 5*time.Minute, cfg.OTPExpiry)
	assert.Equal(t, 10*time.Minute, cfg.RegistrationTokenExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.False(t, cfg.DebugEchoOTP)
	assert.Equal(t, "user_otps", cfg.DynamoTables.UserOTPs)
	assert.Equal(t, "seller_otps", cfg.DynamoTables.SellerOTPs)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OTP_STORE_BACKEND", "Redis")
	t.Setenv("DEBUG_ECHO_OTP", "true")
	t.Setenv("JWT_EXPIRY_DAYS", "30")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Load()

	assert.Equal(t, "redis", cfg.OTPStoreBackend)
	assert.True(t, cfg.DebugEchoOTP)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidBoolFallsBack(t *testing.T) {
	t.Setenv("DEBUG_ECHO_OTP", "sometimes")
	assert.False(t, Load().DebugEchoOTP)
}

func TestLoad_NonPositiveLifetimesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY_DAYS", "0")
	t.Setenv("REGISTRATION_TOKEN_EXPIRY_MINUTES", "-5")
	t.Setenv("OTP_EXPIRY_MINUTES", "0")

	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10*time.Minute, cfg.RegistrationTokenExpiry)
	assert.Equal(t, 5*time.Minute, cfg.OTPExpiry)
}
