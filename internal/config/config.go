package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

const defaultServerPort = "8080"

// Config is loaded once at startup and treated as read-only afterwards.
type Config struct {
	WiseAPIURL          string
	WiseAPIToken        string
	WebhookPassword     string
	SourceCurrency      string
	TargetCurrency      string
	TargetAccountNumber string
	MinimumDeposit      decimal.Decimal
	ServerPort          string
}

func Load() (Config, error) {
	apiURL, err := required("WISE_API_URL")
	if err != nil {
		return Config{}, err
	}

	apiToken, err := required("WISE_API_TOKEN")
	if err != nil {
		return Config{}, err
	}

	webhookPassword, err := required("WEBHOOK_PASSWORD")
	if err != nil {
		return Config{}, err
	}

	sourceCurrency, err := required("WISE_SOURCE_CURRENCY")
	if err != nil {
		return Config{}, err
	}

	targetCurrency, err := required("WISE_TARGET_CURRENCY")
	if err != nil {
		return Config{}, err
	}

	targetAccountNumber, err := required("WISE_TARGET_ACCOUNT_NUMBER")
	if err != nil {
		return Config{}, err
	}

	minimumRaw, err := required("WISE_MINIMUM_DEPOSIT")
	if err != nil {
		return Config{}, err
	}
	minimum, err := decimal.NewFromString(minimumRaw)
	if err != nil {
		return Config{}, fmt.Errorf("WISE_MINIMUM_DEPOSIT is not a valid amount: %w", err)
	}

	port := strings.TrimSpace(os.Getenv("SERVER_PORT"))
	if port == "" {
		port = defaultServerPort
	}

	return Config{
		WiseAPIURL:          strings.TrimRight(apiURL, "/"),
		WiseAPIToken:        apiToken,
		WebhookPassword:     webhookPassword,
		SourceCurrency:      sourceCurrency,
		TargetCurrency:      targetCurrency,
		TargetAccountNumber: targetAccountNumber,
		MinimumDeposit:      minimum,
		ServerPort:          port,
	}, nil
}

func required(name string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", fmt.Errorf("%s environment variable is required", name)
	}
	return value, nil
}
