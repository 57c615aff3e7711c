package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/solverde/aegis/internal/configs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Displays the current Aegis configuration from the user config directory.

Examples:
  # Show the configuration
  aegis config show

  # Output in JSON format
  aegis config show --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config show command")
		ConfigLogger.Debugf("Loading user config from %s", configs.UserAegisSettings.UserConfigsPath)

		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to load user config: %v", err)
		}

		if configShowJSON {
			output := map[string]any{
				"user": map[string]string{
					"email": userConfig.User.Email,
					"uuid":  userConfig.User.UUID,
				},
				"service": map[string]string{
					"url": userConfig.Service.URL,
				},
				"defaults": map[string]bool{
					"cryptographic_signing": userConfig.Defaults.CryptographicSigning,
					"binary_shielding":      userConfig.Defaults.BinaryShielding,
					"ai_cloaking":           userConfig.Defaults.AICloaking,
				},
			}
			data, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to marshal config: %v", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if userConfig.User.Email == "" {
			fmt.Println(color.YellowString("!") + " No identity configured")
			fmt.Println(color.CyanString("→") + " Run " + color.YellowString("aegis config init") + " to set one up")
		} else {
			fmt.Println("Identity: " + color.CyanString(userConfig.User.Email))
			if configVerbose || configDebug {
				fmt.Println("UUID:     " + userConfig.User.UUID)
			}
		}
		fmt.Println("Service:  " + userConfig.Service.URL)
		fmt.Printf("Defaults: signing=%t shielding=%t cloaking=%t\n",
			userConfig.Defaults.CryptographicSigning,
			userConfig.Defaults.BinaryShielding,
			userConfig.Defaults.AICloaking)
		return nil
	},
}
