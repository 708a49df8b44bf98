package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	OTPStoreBackend string // "dynamo" | "redis" | "memory"
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	OTPExpiry       time.Duration
	// DebugEchoOTP returns the plaintext OTP in API responses. Development only.
	DebugEchoOTP bool

	JWTSecret               string
	JWTExpiry               time.Duration
	RegistrationTokenExpiry time.Duration

	SMTPHost       string
	SMTPPort       string
	SMTPFrom       string
	SMTPUsername   string
	SMTPPassword   string
	SNSRegion      string
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users       string
	Sellers     string
	UserOTPs    string
	SellerOTPs  string
	Identifiers string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:       getEnv("DYNAMO_TABLE_USERS", "users"),
			Sellers:     getEnv("DYNAMO_TABLE_SELLERS", "sellers"),
			UserOTPs:    getEnv("DYNAMO_TABLE_USER_OTPS", "user_otps"),
			SellerOTPs:  getEnv("DYNAMO_TABLE_SELLER_OTPS", "seller_otps"),
			Identifiers: getEnv("DYNAMO_TABLE_IDENTIFIERS", "identifiers"),
		},
		S3BucketName:            getEnv("S3_BUCKET_NAME", "go-api-files"),
		OTPStoreBackend:         strings.ToLower(getEnv("OTP_STORE_BACKEND", "dynamo")),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		RedisDB:                 getEnvInt("REDIS_DB", 0),
		OTPExpiry:               time.Duration(getEnvPositiveInt("OTP_EXPIRY_MINUTES", 5)) * time.Minute,
		DebugEchoOTP:            getEnvBool("DEBUG_ECHO_OTP", false),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		JWTExpiry:               time.Duration(getEnvPositiveInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		RegistrationTokenExpiry: time.Duration(getEnvPositiveInt("REGISTRATION_TOKEN_EXPIRY_MINUTES", 10)) * time.Minute,
		SMTPHost:                getEnv("SMTP_HOST", "localhost"),
		SMTPPort:                getEnv("SMTP_PORT", "1025"),
		SMTPFrom:                getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername:            getEnv("SMTP_USERNAME", ""),
		SMTPPassword:            getEnv("SMTP_PASSWORD", ""),
		SNSRegion:               getEnv("SNS_REGION", "us-east-1"),
		AllowedOrigins:          strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvPositiveInt is getEnvInt for lifetimes, where zero or negative would
// mint already-expired codes and tokens.
func getEnvPositiveInt(key string, fallback int) int {
	if n := getEnvInt(key, fallback); n > 0 {
		return n
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
