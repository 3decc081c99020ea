package main

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/BRajendra10/yotube-backend/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// HMAC keys for signing session tokens. Access and refresh tokens
	// are signed with different keys so one cannot stand in for the other.
	AccessSecret  string
	RefreshSecret string

	// Outgoing mail. Empty Addr switches to the log sender, which only
	// writes the would-be message to the log (useful in development).
	SMTPAddr     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	// Object storage for uploaded media
	S3Endpoint  string
	S3PublicURL string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	// Redis for login rate limiting, empty disables the limiter
	RedisAddr string

	// Let unverified accounts log in. Off by default.
	AllowUnverifiedLogin bool

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		Environment: defaultEnvironment,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	setBool := func(o *bool) func(value string) {
		return func(value string) {
			if value != "" {
				parsed, err := strconv.ParseBool(value)
				if err == nil {
					*o = parsed
				}
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":    setString(&c.ListenAddr),
		"DATABASE_URI":   setString(&c.DatabaseDSN),
		"ACCESS_SECRET":  setString(&c.AccessSecret),
		"REFRESH_SECRET": setString(&c.RefreshSecret),
		"SMTP_ADDR":      setString(&c.SMTPAddr),
		"SMTP_FROM":      setString(&c.SMTPFrom),
		"SMTP_USERNAME":  setString(&c.SMTPUsername),
		"SMTP_PASSWORD":  setString(&c.SMTPPassword),
		"S3_ENDPOINT":    setString(&c.S3Endpoint),
		"S3_PUBLIC_URL":  setString(&c.S3PublicURL),
		"S3_REGION":      setString(&c.S3Region),
		"S3_BUCKET":      setString(&c.S3Bucket),
		"S3_ACCESS_KEY":  setString(&c.S3AccessKey),
		"S3_SECRET_KEY":  setString(&c.S3SecretKey),
		"REDIS_ADDR":     setString(&c.RedisAddr),
		"LOG_LEVEL":      setString(&c.LogLevel),
		"ENVIRONMENT":    setString(&c.Environment),

		"ALLOW_UNVERIFIED_LOGIN": setBool(&c.AllowUnverifiedLogin),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVar(&c.AccessSecret, "access-secret", c.AccessSecret, "Access token signing key")
	fs.StringVar(&c.RefreshSecret, "refresh-secret", c.RefreshSecret, "Refresh token signing key")
	fs.StringVar(&c.RedisAddr, "redis", c.RedisAddr, "Redis address for rate limiting")
	fs.BoolVar(&c.AllowUnverifiedLogin, "allow-unverified-login", c.AllowUnverifiedLogin, "Let accounts log in before verifying their email")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}

// Validate checks the settings nothing works without
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is required")
	}
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("access and refresh token secrets are required")
	}
	return nil
}
