package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	// JWTSecret signs bearer tokens. Required: Load fails when it is absent
	// rather than falling back to a guessable default.
	JWTSecret string
	JWTExpiry time.Duration

	RefreshTokenExpiry time.Duration

	// VerificationTTL is the lifetime of a one-time verification code.
	VerificationTTL time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users          string
	Sessions       string
	Reimbursements string
	Documents      string
	Cards          string
}

// Load reads all configuration from environment variables. It returns an
// error instead of a half-initialised config when a required value is
// missing or unparsable.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	jwtExpiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}
	refreshExpiry, err := time.ParseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_EXPIRY: %w", err)
	}
	verificationTTL, err := time.ParseDuration(getEnv("VERIFICATION_CODE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFICATION_CODE_TTL: %w", err)
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:          getEnv("DYNAMO_TABLE_USERS", "portal_users"),
			Sessions:       getEnv("DYNAMO_TABLE_SESSIONS", "portal_sessions"),
			Reimbursements: getEnv("DYNAMO_TABLE_REIMBURSEMENTS", "portal_reimbursements"),
			Documents:      getEnv("DYNAMO_TABLE_DOCUMENTS", "portal_documents"),
			Cards:          getEnv("DYNAMO_TABLE_CARDS", "portal_cards"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "abz-portal-files"),

		JWTSecret:          secret,
		JWTExpiry:          jwtExpiry,
		RefreshTokenExpiry: refreshExpiry,

		VerificationTTL: verificationTTL,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@abzgroup.com.br"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}, nil
}

// IsProduction reports whether the app runs in the production environment.
// Diagnostic delivery paths (code preview) are disabled in production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
