package main

import (
	"fmt"
	"os"

	"github.com/solverde/aegis/cmd"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aegis",
	Short: "Aegis - A CLI for protecting images and verifying protected content.",
	Long: `Aegis is a command-line tool for applying multi-layer protection to images
and verifying the authenticity of previously protected content.

Features:
  - Submit images for cryptographic signing, binary shielding, and AI cloaking
  - Export authenticity certificates and protected images
  - Verify any protected asset by its content hash

Usage:
  aegis <command> [flags]

Available Commands:
  protect    Protect images and review past protections
  verify     Verify protected content by hash
  config     Manage identity and service configuration

Run 'aegis help <command>' for more details on a specific command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to Aegis! Run 'aegis --help' to see available commands.")
	},
}

func main() {
	rootCmd.AddCommand(cmd.ProtectCmd)
	rootCmd.AddCommand(cmd.VerifyCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
