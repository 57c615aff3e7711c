package cmd

import (
	logger "github.com/solverde/aegis/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// ProtectCmd is the top-level protect command.
	ProtectCmd = &cobra.Command{
		Use:   "protect",
		Short: "Protect images with multi-layer security treatments",
		Long:  `Provides submission of images to the protection service, artifact export, and review of past protections.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing protect command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	ProtectCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	ProtectCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	ProtectCmd.AddCommand(imageCmd)
	ProtectCmd.AddCommand(historyCmd)
}

// Helper functions for testing

// GetProtectCmd returns the ProtectCmd for testing.
func GetProtectCmd() *cobra.Command {
	return ProtectCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetImageCommandState()
	resetHistoryCommandState()
	resetVerifyCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
