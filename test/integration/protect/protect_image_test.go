package protect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/solverde/aegis/cmd"
	"github.com/solverde/aegis/internal/configs"
	"github.com/solverde/aegis/internal/history"
	"github.com/solverde/aegis/test/integration/shared"
)

// TestProtectImage contains tests for the `aegis protect image` command.
func TestProtectImage(t *testing.T) {
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}

	originalUserSettings := configs.UserAegisSettings

	t.Run("SuccessExportsArtifacts", func(t *testing.T) {
		testProtectImageSuccess(t, originalWd, originalUserSettings)
	})

	t.Run("MissingFile", func(t *testing.T) {
		testProtectImageMissingFile(t, originalWd, originalUserSettings)
	})

	t.Run("UnsupportedFileType", func(t *testing.T) {
		testProtectImageUnsupportedType(t, originalWd, originalUserSettings)
	})

	t.Run("NoIdentityConfigured", func(t *testing.T) {
		testProtectImageNoIdentity(t, originalWd, originalUserSettings)
	})

	t.Run("ServiceRejection", func(t *testing.T) {
		testProtectImageServiceRejection(t, originalWd, originalUserSettings)
	})
}

// previewTempFiles snapshots the preview copies currently in the temp dir.
func previewTempFiles(t *testing.T) map[string]bool {
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "aegis-preview-*"))
	if err != nil {
		t.Fatalf("Failed to glob temp directory: %v", err)
	}
	files := make(map[string]bool, len(matches))
	for _, m := range matches {
		files[m] = true
	}
	return files
}

// assertNoNewPreviewFiles fails if any preview copy created since the
// snapshot is still on disk.
func assertNoNewPreviewFiles(t *testing.T, before map[string]bool) {
	t.Helper()
	for path := range previewTempFiles(t) {
		if !before[path] {
			t.Errorf("Preview temp file was not released: %s", path)
		}
	}
}

// setupProtectTest prepares temp dirs, an identity, and a fake service.
func setupProtectTest(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings, opts shared.ProtectionServiceOptions) (tempDir string) {
	tempDir, err := os.MkdirTemp("", "aegis-test-protect-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	tempUserDir, err := os.MkdirTemp("", "aegis-user-*")
	if err != nil {
		t.Fatalf("Failed to create temp user directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempUserDir) })

	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)
	cmd.ResetGlobalState()

	server := shared.StartProtectionService(t, opts)

	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		t.Fatalf("Failed to load user config: %v", err)
	}
	userConfig.User.Email = "tester@example.com"
	userConfig.User.UUID = "00000000-0000-0000-0000-000000000001"
	userConfig.Service.URL = server.URL
	if err := configs.SaveUserConfig(userConfig); err != nil {
		t.Fatalf("Failed to save user config: %v", err)
	}

	return tempDir
}

func testProtectImageSuccess(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir := setupProtectTest(t, originalWd, originalUserSettings, shared.ProtectionServiceOptions{})
	imagePath := shared.WriteTestImage(t, tempDir, "photo.png")
	previewsBefore := previewTempFiles(t)

	output, err := shared.CaptureOutput(func() error {
		cli := shared.CreateTestCLI("image", nil, nil, false, false)
		cli.SetArgs([]string{"protect", "image", imagePath, "--output-dir", tempDir})
		return cli.Execute()
	})
	if err != nil {
		t.Fatalf("protect image failed: %v\nOutput: %s", err, output)
	}

	if !strings.Contains(output, "Image protected successfully") {
		t.Errorf("Expected success message, got: %s", output)
	}
	if !strings.Contains(output, "test-content-id") {
		t.Errorf("Expected content id in output, got: %s", output)
	}

	certPath := filepath.Join(tempDir, "certificate_photo.png.json")
	if _, err := os.Stat(certPath); os.IsNotExist(err) {
		t.Errorf("Certificate was not exported at %s", certPath)
	}
	protectedPath := filepath.Join(tempDir, "protected_photo.png")
	if _, err := os.Stat(protectedPath); os.IsNotExist(err) {
		t.Errorf("Protected image was not exported at %s", protectedPath)
	}

	entries, err := history.ReadEntries()
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(entries))
	}
	if entries[0].FileName != "photo.png" {
		t.Errorf("Expected history entry for photo.png, got %s", entries[0].FileName)
	}
	if entries[0].User != "tester@example.com" {
		t.Errorf("Expected history entry for tester@example.com, got %s", entries[0].User)
	}

	assertNoNewPreviewFiles(t, previewsBefore)
}

func testProtectImageMissingFile(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir := setupProtectTest(t, originalWd, originalUserSettings, shared.ProtectionServiceOptions{})

	output, err := shared.CaptureOutput(func() error {
		cli := shared.CreateTestCLI("image", nil, nil, false, false)
		cli.SetArgs([]string{"protect", "image", filepath.Join(tempDir, "nope.png")})
		return cli.Execute()
	})
	if err != nil {
		t.Fatalf("protect image returned error: %v\nOutput: %s", err, output)
	}

	if !strings.Contains(output, "File not found") {
		t.Errorf("Expected file-not-found message, got: %s", output)
	}
}

func testProtectImageUnsupportedType(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir := setupProtectTest(t, originalWd, originalUserSettings, shared.ProtectionServiceOptions{})

	// A text file with an image extension must still be rejected.
	textPath := filepath.Join(tempDir, "fake.png")
	if err := os.WriteFile(textPath, []byte("not an image at all"), 0600); err != nil {
		t.Fatalf("Failed to write fake image: %v", err)
	}

	output, err := shared.CaptureOutput(func() error {
		cli := shared.CreateTestCLI("image", nil, nil, false, false)
		cli.SetArgs([]string{"protect", "image", textPath})
		return cli.Execute()
	})
	if err != nil {
		t.Fatalf("protect image returned error: %v\nOutput: %s", err, output)
	}

	if !strings.Contains(output, "Unsupported file type") {
		t.Errorf("Expected unsupported-type message, got: %s", output)
	}
}

func testProtectImageNoIdentity(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir := setupProtectTest(t, originalWd, originalUserSettings, shared.ProtectionServiceOptions{})
	imagePath := shared.WriteTestImage(t, tempDir, "photo.png")

	// Blank out the identity written by setup.
	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		t.Fatalf("Failed to load user config: %v", err)
	}
	userConfig.User.Email = ""
	if err := configs.SaveUserConfig(userConfig); err != nil {
		t.Fatalf("Failed to save user config: %v", err)
	}

	output, err := shared.CaptureOutput(func() error {
		cli := shared.CreateTestCLI("image", nil, nil, false, false)
		cli.SetArgs([]string{"protect", "image", imagePath})
		return cli.Execute()
	})
	if err != nil {
		t.Fatalf("protect image returned error: %v\nOutput: %s", err, output)
	}

	if !strings.Contains(output, "No identity configured") {
		t.Errorf("Expected identity guidance, got: %s", output)
	}
	if !strings.Contains(output, "aegis config set-identity") {
		t.Errorf("Expected set-identity hint, got: %s", output)
	}
}

func testProtectImageServiceRejection(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir := setupProtectTest(t, originalWd, originalUserSettings, shared.ProtectionServiceOptions{
		ProtectStatus: 422,
	})
	imagePath := shared.WriteTestImage(t, tempDir, "photo.png")
	previewsBefore := previewTempFiles(t)

	output, err := shared.CaptureOutput(func() error {
		cli := shared.CreateTestCLI("image", nil, nil, false, false)
		cli.SetArgs([]string{"protect", "image", imagePath, "--output-dir", tempDir})
		return cli.Execute()
	})
	if err != nil {
		t.Fatalf("protect image returned error: %v\nOutput: %s", err, output)
	}

	if !strings.Contains(output, "Protection failed") {
		t.Errorf("Expected failure message, got: %s", output)
	}
	if !strings.Contains(output, "rejected by test service") {
		t.Errorf("Expected service detail in output, got: %s", output)
	}

	// Nothing should have been exported.
	if _, err := os.Stat(filepath.Join(tempDir, "certificate_photo.png.json")); !os.IsNotExist(err) {
		t.Errorf("Certificate should not exist after a rejected submission")
	}

	// The preview copy is released even though the run failed.
	assertNoNewPreviewFiles(t, previewsBefore)
}
