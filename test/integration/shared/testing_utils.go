// Package shared contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments,
// capturing output, and running commands against a fake protection service.
package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/solverde/aegis/cmd"
	"github.com/solverde/aegis/internal/configs"
	logger "github.com/solverde/aegis/internal/logging"
	"github.com/spf13/cobra"
)

// PNGHeader is a minimal valid PNG signature plus IHDR chunk, enough for
// content sniffing to identify the file as image/png.
var PNGHeader = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00,
}

// SetupTestEnvironment points the user config and data paths at temporary
// directories and restores the originals on cleanup.
func SetupTestEnvironment(t *testing.T, tempDir, tempUserDir, originalWd string, originalUserSettings *configs.UserSettings) {
	// Change to temp directory
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	// Cleanup function to restore original state
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserAegisSettings = originalUserSettings
	})

	// Override user settings to use temp directory
	configs.UserAegisSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempUserDir, "config"),
		UserDataPath:    filepath.Join(tempUserDir, "data"),
	}
}

// WriteTestImage writes a small valid PNG into dir and returns its path.
func WriteTestImage(t *testing.T, dir, name string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PNGHeader, 0600); err != nil {
		t.Fatalf("Failed to write test image: %v", err)
	}
	return path
}

// ProtectionServiceOptions controls the fake protection service's responses.
type ProtectionServiceOptions struct {
	ProtectStatus   int            // 0 means 200
	ProtectResponse map[string]any // nil means a complete successful record
	VerifyStatus    int            // 0 means 200
	VerifyResponse  map[string]any // nil means a verified record
}

// StartProtectionService starts an httptest server speaking the protection
// service's wire format and returns it. The server also serves the protected
// image download path.
func StartProtectionService(t *testing.T, opts ProtectionServiceOptions) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/protect/image", func(w http.ResponseWriter, r *http.Request) {
		if opts.ProtectStatus != 0 && opts.ProtectStatus != http.StatusOK {
			w.WriteHeader(opts.ProtectStatus)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "rejected by test service"})
			return
		}
		response := opts.ProtectResponse
		if response == nil {
			response = map[string]any{
				"status":         "protected",
				"content_id":     "test-content-id",
				"original_hash":  "aaaa",
				"protected_hash": "bbbb",
				"signature":      "sig",
				"original_url":   "/downloads/original.png",
				"protected_url":  "/downloads/protected.png",
				"issued_at":      "2025-06-01T12:00:00Z",
				"stats": map[string]any{
					"protection_score":      98.5,
					"manipulation_score":    91.0,
					"cryptographic_signing": true,
					"binary_manipulation":   true,
					"ai_cloaking":           true,
				},
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})

	mux.HandleFunc("/verify/", func(w http.ResponseWriter, r *http.Request) {
		if opts.VerifyStatus != 0 && opts.VerifyStatus != http.StatusOK {
			w.WriteHeader(opts.VerifyStatus)
			return
		}
		response := opts.VerifyResponse
		if response == nil {
			response = map[string]any{
				"verified":         true,
				"creator":          "alice@example.com",
				"timestamp":        "2025-06-01T12:00:00Z",
				"protection_level": "full",
				"content_id":       "test-content-id",
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})

	mux.HandleFunc("/downloads/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(PNGHeader)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// CreateTestCLI creates a complete CLI instance for testing with the specified command and flags.
func CreateTestCLI(subcommand string, stdout, stderr io.Writer, verboseFlag, debugFlag bool) *cobra.Command {
	// Set global flags for the actual command (needed for the real command implementations)
	cmd.SetVerbose(verboseFlag)
	cmd.SetDebug(debugFlag)

	// Initialize the logger with the test flags
	cmd.SetLogger(logger.Logger{
		Verbose: verboseFlag,
		Debug:   debugFlag,
	})

	// Create a fresh root command for this test
	rootCmd := &cobra.Command{
		Use:   "aegis",
		Short: "Aegis - A CLI for protecting images and verifying protected content.",
		Long: `Aegis is a command-line tool for applying multi-layer protection to images
and verifying the authenticity of previously protected content.`,
	}

	rootCmd.AddCommand(cmd.GetProtectCmd())
	rootCmd.AddCommand(cmd.GetVerifyCmd())
	rootCmd.AddCommand(cmd.GetConfigCmd())

	// Set output streams
	if stdout != nil {
		rootCmd.SetOut(stdout)
		cmd.GetProtectCmd().SetOut(stdout)
		for _, subcmd := range cmd.GetProtectCmd().Commands() {
			subcmd.SetOut(stdout)
		}
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
		cmd.GetProtectCmd().SetErr(stderr)
		for _, subcmd := range cmd.GetProtectCmd().Commands() {
			subcmd.SetErr(stderr)
		}
	}

	// Set args to run the specified subcommand
	rootCmd.SetArgs([]string{"protect", subcommand})

	// Set the flags on the protect command
	if err := cmd.GetProtectCmd().PersistentFlags().Set("verbose", fmt.Sprintf("%t", verboseFlag)); err != nil {
		log.Fatalf("Failed to set verbose flag for testing: %s", err)
	}
	if err := cmd.GetProtectCmd().PersistentFlags().Set("debug", fmt.Sprintf("%t", debugFlag)); err != nil {
		log.Fatalf("Failed to set debug flag for testing: %s", err)
	}

	return rootCmd
}

// CreateConfigTestCLI creates a CLI instance wired for config subcommands.
func CreateConfigTestCLI(subcommand string, stdout, stderr io.Writer, verboseFlag, debugFlag bool) *cobra.Command {
	cmd.ResetConfigState()

	rootCmd := &cobra.Command{
		Use:   "aegis",
		Short: "Aegis - A CLI for protecting images and verifying protected content.",
	}
	rootCmd.AddCommand(cmd.GetConfigCmd())

	if stdout != nil {
		rootCmd.SetOut(stdout)
		cmd.GetConfigCmd().SetOut(stdout)
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
		cmd.GetConfigCmd().SetErr(stderr)
	}

	rootCmd.SetArgs([]string{"config", subcommand})

	if err := cmd.GetConfigCmd().PersistentFlags().Set("verbose", fmt.Sprintf("%t", verboseFlag)); err != nil {
		log.Fatalf("Failed to set verbose flag for testing: %s", err)
	}
	if err := cmd.GetConfigCmd().PersistentFlags().Set("debug", fmt.Sprintf("%t", debugFlag)); err != nil {
		log.Fatalf("Failed to set debug flag for testing: %s", err)
	}

	return rootCmd
}

// CreateVerifyTestCLI creates a CLI instance wired for the verify command.
func CreateVerifyTestCLI(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aegis",
		Short: "Aegis - A CLI for protecting images and verifying protected content.",
	}
	rootCmd.AddCommand(cmd.GetVerifyCmd())

	if stdout != nil {
		rootCmd.SetOut(stdout)
		cmd.GetVerifyCmd().SetOut(stdout)
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
		cmd.GetVerifyCmd().SetErr(stderr)
	}

	return rootCmd
}
