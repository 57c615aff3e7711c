package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/solverde/aegis/internal/configs"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var configInitEmail string

func init() {
	configInitCmd.Flags().StringVarP(&configInitEmail, "email", "e", "", "your email address")
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitEmail = ""
}

// promptForInput prompts the user for input with an optional default value.
func promptForInput(reader *bufio.Reader, prompt, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" && defaultValue != "" {
		return defaultValue, nil
	}
	return input, nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize your user configuration",
	Long: `Sets up your Aegis identity.

Prompts for your email address unless --email is given, assigns you a
stable UUID, and writes the configuration to the user config directory.

Examples:
  # Interactive setup
  aegis config init

  # Non-interactive setup
  aegis config init --email alice@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config init command")

		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to load user config: %v", err)
		}

		if userConfig.User.Email != "" && userConfig.User.UUID != "" {
			fmt.Println(color.GreenString("✓") + " Already configured as " + color.CyanString(userConfig.User.Email))
			fmt.Println(color.CyanString("→") + " Use " + color.YellowString("aegis config set-identity") + " to change it")
			return nil
		}

		email := configInitEmail
		if email == "" {
			reader := bufio.NewReader(os.Stdin)
			fmt.Println(color.CyanString("Welcome to Aegis!") + " Let's set up your identity.")
			email, err = promptForInput(reader, "Email address", userConfig.User.Email)
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to read email: %v", err)
			}
		}
		if email == "" {
			return ConfigLogger.ErrorfAndReturn("an email address is required")
		}

		userConfig.User.Email = email
		if userConfig.User.UUID == "" {
			userConfig.User.UUID = uuid.New().String()
			ConfigLogger.Debugf("Assigned UUID: %s", userConfig.User.UUID)
		}

		if err := configs.SaveUserConfig(userConfig); err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to save user config: %v", err)
		}

		fmt.Println(color.GreenString("✓") + " Configuration saved")
		fmt.Println("  Identity: " + color.CyanString(email))
		fmt.Println("  Service:  " + userConfig.Service.URL)
		return nil
	},
}
