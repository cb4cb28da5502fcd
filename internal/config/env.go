package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	EnvServerURL     = "INTERVIEW_SERVER_URL"
	EnvHTTPTimeout   = "INTERVIEW_HTTP_TIMEOUT"
	EnvTimeBudget    = "INTERVIEW_TIME_BUDGET"
	EnvRedirectDelay = "INTERVIEW_REDIRECT_DELAY"
	EnvDBPath        = "INTERVIEW_DB_PATH"
	EnvBankPath      = "INTERVIEW_BANK_PATH"
	EnvQuestionCount = "INTERVIEW_QUESTION_COUNT"
	EnvAddr          = "ADDR"
)

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	var err error

	cfg.Client.ServerURL = getEnv(lookup, EnvServerURL, cfg.Client.ServerURL)
	if cfg.Client.HTTPTimeout, err = getEnvAsDuration(lookup, EnvHTTPTimeout, cfg.Client.HTTPTimeout); err != nil {
		return err
	}
	if cfg.Client.TimeBudget, err = getEnvAsInt(lookup, EnvTimeBudget, cfg.Client.TimeBudget); err != nil {
		return err
	}
	if cfg.Client.RedirectDelay, err = getEnvAsDuration(lookup, EnvRedirectDelay, cfg.Client.RedirectDelay); err != nil {
		return err
	}

	cfg.Service.Addr = getEnv(lookup, EnvAddr, cfg.Service.Addr)
	cfg.Service.DBPath = getEnv(lookup, EnvDBPath, cfg.Service.DBPath)
	cfg.Service.BankPath = getEnv(lookup, EnvBankPath, cfg.Service.BankPath)
	if cfg.Service.QuestionCount, err = getEnvAsInt(lookup, EnvQuestionCount, cfg.Service.QuestionCount); err != nil {
		return err
	}
	return nil
}

func getEnv(lookup lookupFunc, key, defaultValue string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsInt(lookup lookupFunc, key string, defaultValue int) (int, error) {
	value := getEnv(lookup, key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

// getEnvAsDuration accepts Go duration strings ("1m30s") or a bare number of
// seconds.
func getEnvAsDuration(lookup lookupFunc, key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(lookup, key, "")
	if value == "" {
		return defaultValue, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return parsed, nil
}
