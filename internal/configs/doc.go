// Package configs manages user configuration for Aegis.
//
// Configuration is stored in TOML format at the user level:
//
//	<os.UserConfigDir>/aegis/config.toml
//
// # User Configuration
//
// The user config stores:
//   - User identity (email, UUID)
//   - Protection service address
//   - Default protection layer toggles
//
// The user UUID is auto-generated on first use and identifies this
// installation in the local protection history.
//
// # Defaults
//
// All three protection layers (cryptographic signing, binary shielding,
// AI cloaking) default to enabled. Keys absent from the config file keep
// their defaults; LoadUserConfig pre-populates the struct before decoding.
//
// # Settings
//
// Global settings are initialized at startup:
//   - UserAegisSettings: paths to the user config and data directories
//
// The data directory holds the protection history log and exported
// artifacts' default location.
package configs
