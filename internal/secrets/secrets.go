// Package secrets resolves API keys and tokens, preferring environment
// variables and falling back to the OS keychain.
package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the app's secrets in the OS keychain.
const KeyringService = "job-watchdog"

// Names of the secrets the watchdog knows about. The same name is both
// the env var and the keychain account.
const (
	GeminiAPIKey     = "GEMINI_API_KEY"
	SerpAPIKey       = "SERPAPI_API_KEY"
	TelegramBotToken = "TELEGRAM_BOT_TOKEN"
	SMTPPassword     = "SMTP_PASSWORD"
)

// Get resolves a secret by name: environment first, then keychain.
// Returns "" when the secret is simply not configured.
func Get(name string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	v, err := keyring.Get(KeyringService, name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// Set stores a secret in the OS keychain.
func Set(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("secret name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(KeyringService, name, value)
}

// Delete removes a secret from the OS keychain.
func Delete(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("secret name is empty")
	}
	return keyring.Delete(KeyringService, name)
}
