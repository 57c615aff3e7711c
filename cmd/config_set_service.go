package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/solverde/aegis/internal/configs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	ConfigCmd.AddCommand(configSetServiceCmd)
}

// resetSetServiceState resets the set-service command's global state for testing.
func resetSetServiceState() {}

var configSetServiceCmd = &cobra.Command{
	Use:   "set-service <url>",
	Short: "Set the protection service endpoint",
	Long: `Points the CLI at a different protection service.

The URL must be absolute with an http or https scheme. A trailing
slash is stripped.

Examples:
  aegis config set-service https://protect.example.com
  aegis config set-service http://localhost:8000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config set-service command")

		raw := strings.TrimSpace(args[0])
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			fmt.Println(color.RedString("✗") + " Invalid service URL: " + args[0])
			fmt.Println(color.CyanString("→") + " Use an absolute http or https URL, e.g. " + color.YellowString("https://protect.example.com"))
			return nil
		}

		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to load user config: %v", err)
		}

		userConfig.Service.URL = strings.TrimRight(raw, "/")
		if err := configs.SaveUserConfig(userConfig); err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to save user config: %v", err)
		}

		fmt.Println(color.GreenString("✓") + " Service endpoint set to " + color.CyanString(userConfig.Service.URL))
		return nil
	},
}
