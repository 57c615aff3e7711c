package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultServiceURL is used when the user has not configured a service
// address. It matches the protection service's standard local deployment.
const DefaultServiceURL = "http://localhost:8000"

type UserConfig struct {
	User     User     `toml:"user"`
	Service  Service  `toml:"service"`
	Defaults Defaults `toml:"defaults"`
}

type User struct {
	Email string `toml:"email"`
	UUID  string `toml:"user_uuid"`
}

type Service struct {
	URL string `toml:"url"`
}

// Defaults holds the protection layer toggles applied when no flags are
// given. All three layers default to enabled.
type Defaults struct {
	CryptographicSigning bool `toml:"cryptographic_signing"`
	BinaryShielding      bool `toml:"binary_shielding"`
	AICloaking           bool `toml:"ai_cloaking"`
}

// LoadUserConfig loads the user configuration from the config file.
// A missing file yields a config with all defaults in place.
func LoadUserConfig() (*UserConfig, error) {
	configPath := filepath.Join(UserAegisSettings.UserConfigsPath, "config.toml")

	// Pre-populate defaults so keys absent from the file keep them.
	config := &UserConfig{
		Service: Service{URL: DefaultServiceURL},
		Defaults: Defaults{
			CryptographicSigning: true,
			BinaryShielding:      true,
			AICloaking:           true,
		},
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if config.Service.URL == "" {
		config.Service.URL = DefaultServiceURL
	}
	config.Service.URL = strings.TrimRight(config.Service.URL, "/")

	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	configPath := filepath.Join(UserAegisSettings.UserConfigsPath, "config.toml")

	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}

	return nil
}

// GenerateUserUUID generates a new UUID for the user.
func GenerateUserUUID() string {
	return uuid.New().String()
}

// EnsureUserConfig ensures the user configuration exists and has a UUID.
func EnsureUserConfig() (*UserConfig, error) {
	config, err := LoadUserConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if config.User.UUID == "" {
		config.User.UUID = GenerateUserUUID()
		if err := SaveUserConfig(config); err != nil {
			return nil, fmt.Errorf("failed to save user config: %w", err)
		}
	}

	return config, nil
}
