package cmd

import (
	"fmt"
	"strings"

	"github.com/solverde/aegis/internal/configs"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func init() {
	ConfigCmd.AddCommand(configSetIdentityCmd)
}

// resetSetIdentityState resets the set-identity command's global state for testing.
func resetSetIdentityState() {}

var configSetIdentityCmd = &cobra.Command{
	Use:   "set-identity <email>",
	Short: "Set the identity used for protection submissions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config set-identity command")

		email := strings.TrimSpace(args[0])
		if email == "" || !strings.Contains(email, "@") {
			fmt.Println(color.RedString("✗") + " Invalid email address: " + args[0])
			return nil
		}

		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to load user config: %v", err)
		}

		userConfig.User.Email = email
		if userConfig.User.UUID == "" {
			userConfig.User.UUID = uuid.New().String()
		}

		if err := configs.SaveUserConfig(userConfig); err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to save user config: %v", err)
		}

		fmt.Println(color.GreenString("✓") + " Identity set to " + color.CyanString(email))
		return nil
	},
}
