package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/parcelmesh/ups-adapter/pkg/carrier"
)

const (
	// ProductionBaseURL is the UPS production API host.
	ProductionBaseURL = "https://onlinetools.ups.com"
	// SandboxBaseURL is the UPS customer integration (sandbox) host.
	SandboxBaseURL = "https://wwwcie.ups.com"

	tokenPath = "/security/v1/oauth/token"
)

// Config holds the runtime configuration for a service instance.
// It is constructed once in main and passed by value to whatever needs it;
// there is no process-wide config singleton.
type Config struct {
	ServiceName string // e.g. "ups-adapter"
	Env         string // e.g. "dev", "uat", "prod"
	LogLevel    string // "debug", "info", etc.
	Port        int    // service HTTP port

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	HTTPBodyLimit    int

	NATSURL string // optional; empty disables event publishing

	// UPS credentials and endpoints
	UPSClientID      string
	UPSClientSecret  string
	UPSAccountNumber string
	UPSBaseURL       string // derived from Sandbox when unset
	UPSTokenURL      string // derived from UPSBaseURL when unset
	Sandbox          bool

	RequestTimeout     time.Duration // outbound HTTP timeout for UPS calls
	SupportedCountries []string      // allow-list for SupportsRoute

	RateLimitRPS   int
	RateLimitBurst int
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: GetEnv("SERVICE_NAME", "ups-adapter"),
		Env:         GetEnv("ENV", "dev"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		Port:        GetEnvInt("UPS_ADAPTER_PORT", 9020),

		HTTPReadTimeout:  GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: GetEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout:  GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPBodyLimit:    GetEnvInt("HTTP_BODY_LIMIT", 1*1024*1024),

		NATSURL: GetEnv("NATS_URL", ""),

		UPSClientID:      GetEnv("UPS_CLIENT_ID", ""),
		UPSClientSecret:  GetEnv("UPS_CLIENT_SECRET", ""),
		UPSAccountNumber: GetEnv("UPS_ACCOUNT_NUMBER", ""),
		UPSBaseURL:       GetEnv("UPS_BASE_URL", ""),
		UPSTokenURL:      GetEnv("UPS_TOKEN_URL", ""),
		Sandbox:          GetEnvBool("UPS_SANDBOX", true),

		RequestTimeout:     GetEnvDuration("UPS_REQUEST_TIMEOUT", 30*time.Second),
		SupportedCountries: GetEnvList("UPS_SUPPORTED_COUNTRIES", []string{"US", "CA", "MX"}),

		RateLimitRPS:   GetEnvInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst: GetEnvInt("RATE_LIMIT_BURST", 20),
	}

	if cfg.UPSBaseURL == "" {
		if cfg.Sandbox {
			cfg.UPSBaseURL = SandboxBaseURL
		} else {
			cfg.UPSBaseURL = ProductionBaseURL
		}
	}
	if cfg.UPSTokenURL == "" {
		cfg.UPSTokenURL = cfg.UPSBaseURL + tokenPath
	}

	return cfg
}

// Validate checks that all required fields are present. It returns a
// configuration-classified error naming every missing key so the service
// fails before any carrier call is attempted.
func (c *Config) Validate() error {
	var missing []string
	if c.UPSClientID == "" {
		missing = append(missing, "UPS_CLIENT_ID")
	}
	if c.UPSClientSecret == "" {
		missing = append(missing, "UPS_CLIENT_SECRET")
	}
	if c.UPSAccountNumber == "" {
		missing = append(missing, "UPS_ACCOUNT_NUMBER")
	}
	if len(missing) > 0 {
		return carrier.NewConfigurationError("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}
