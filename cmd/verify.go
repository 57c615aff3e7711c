package cmd

import (
	"context"

	"github.com/solverde/aegis/internal/configs"
	"github.com/solverde/aegis/internal/hashing"
	logger "github.com/solverde/aegis/internal/logging"
	"github.com/solverde/aegis/internal/protect"
	"github.com/solverde/aegis/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	verifyVerbose bool
	verifyDebug   bool
	verifyFile    string

	// VerifyLogger is the logger for verify commands.
	VerifyLogger logger.Logger
)

func init() {
	VerifyCmd.Flags().BoolVarP(&verifyVerbose, "verbose", "v", false, "verbose output")
	VerifyCmd.Flags().BoolVarP(&verifyDebug, "debug", "d", false, "debug output")
	VerifyCmd.Flags().StringVarP(&verifyFile, "file", "f", "", "hash a local file and verify by its digest")
}

// resetVerifyCommandState resets the verify command's global state for testing.
func resetVerifyCommandState() {
	verifyVerbose = false
	verifyDebug = false
	verifyFile = ""
}

// VerifyCmd looks up a content hash against the protection service.
var VerifyCmd = &cobra.Command{
	Use:   "verify [hash]",
	Short: "Checks whether a content hash belongs to a protected image",
	Args:  cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		VerifyLogger = logger.Logger{Verbose: verifyVerbose, Debug: verifyDebug}
		VerifyLogger.Debugf("Verbose mode: %v, Debug mode: %v", verifyVerbose, verifyDebug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		VerifyLogger.Infof("Starting verify command")
		spinner, cleanup := startSpinnerWithFlags("Verifying hash...", verifyVerbose, verifyDebug)
		defer cleanup()

		var hash string
		switch {
		case verifyFile != "":
			VerifyLogger.Debugf("Hashing local file: %s", verifyFile)
			digest, err := hashing.SHA256File(verifyFile)
			if err != nil {
				return VerifyLogger.ErrorfAndReturn("Failed to hash file: %v", err)
			}
			VerifyLogger.Infof("Local digest: %s", digest)
			hash = digest
		case len(args) == 1:
			hash = args[0]
		default:
			finalMessage := color.RedString("✗") + " Nothing to verify\n" +
				color.CyanString("→") + " Pass a hash, or " + color.YellowString("--file <path>") + " to hash a local image"
			spinner.FinalMSG = finalMessage
			return nil
		}

		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return VerifyLogger.ErrorfAndReturn("Failed to load user config: %v", err)
		}

		client := protect.NewClient(userConfig.Service.URL)
		VerifyLogger.Infof("Querying %s", userConfig.Service.URL)
		outcome := client.Verify(context.Background(), hash)

		if !outcome.Verified {
			finalMessage := color.RedString("✗") + " Not verified: " + outcome.Reason
			if outcome.Reason == protect.ReasonVerificationFailed {
				finalMessage += "\n" + color.CyanString("→") + " Check the service URL with " +
					color.YellowString("aegis config show") + " and try again"
			}
			spinner.FinalMSG = finalMessage
			return nil
		}

		finalMessage := color.GreenString("✓") + " Verified protected content\n" +
			"  Creator:          " + ui.Highlight.Sprint(outcome.Creator) + "\n" +
			"  Protected at:     " + outcome.Timestamp.Format("2006-01-02 15:04:05 MST") + "\n" +
			"  Protection level: " + outcome.ProtectionLevel + "\n" +
			"  Content ID:       " + ui.Code.Sprint(outcome.ContentID)
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// GetVerifyCmd returns the verify command for testing.
func GetVerifyCmd() *cobra.Command {
	return VerifyCmd
}
