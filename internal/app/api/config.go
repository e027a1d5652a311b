package api

import (
	"fmt"
	"os"
	"strings"

	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	ReferenceDataURL string
	NotificationURL  string

	StagingDirectory string

	// Order number generation.
	OrderNumberPrefix  string
	IncludePrefix      bool
	IncludeProgramCode bool
	IncludeTypeSuffix  bool

	// Notification content. {id} and {status} are substituted per order.
	NotificationFrom    string
	NotificationSubject string
	NotificationBody    string
}

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),

		ReferenceDataURL: strings.TrimSpace(os.Getenv("REFERENCEDATA_URL")),
		NotificationURL:  strings.TrimSpace(os.Getenv("NOTIFICATION_URL")),

		StagingDirectory: envDefault("ORDER_STAGING_DIR", "/var/lib/fulfillment/orders"),

		OrderNumberPrefix:  envDefault("ORDER_NUMBER_PREFIX", "O"),
		IncludePrefix:      isTruthy(envDefault("ORDER_NUMBER_INCLUDE_PREFIX", "true")),
		IncludeProgramCode: isTruthy(envDefault("ORDER_NUMBER_INCLUDE_PROGRAM_CODE", "true")),
		IncludeTypeSuffix:  isTruthy(envDefault("ORDER_NUMBER_INCLUDE_TYPE_SUFFIX", "true")),

		NotificationFrom:    envDefault("NOTIFICATION_FROM", "noreply@openlmis.org"),
		NotificationSubject: envDefault("NOTIFICATION_SUBJECT", "Create an order: {id} with status: {status}"),
		NotificationBody:    envDefault("NOTIFICATION_BODY", "Create an order: {id} with status: {status}"),
	}
	if cfg.IncludePrefix && strings.TrimSpace(cfg.OrderNumberPrefix) == "" {
		return Config{}, fmt.Errorf("ORDER_NUMBER_PREFIX must be set when ORDER_NUMBER_INCLUDE_PREFIX is enabled")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
