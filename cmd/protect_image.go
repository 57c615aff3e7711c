package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/solverde/aegis/internal/configs"
	aegerr "github.com/solverde/aegis/internal/errors"
	"github.com/solverde/aegis/internal/export"
	"github.com/solverde/aegis/internal/history"
	"github.com/solverde/aegis/internal/intake"
	"github.com/solverde/aegis/internal/protect"
	"github.com/solverde/aegis/internal/workflow"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	noSigning       bool
	noShielding     bool
	noCloaking      bool
	outputDir       string
	skipCertificate bool
	skipImage       bool
	identityFlag    string
)

func init() {
	imageCmd.Flags().BoolVar(&noSigning, "no-signing", false, "disable the cryptographic signing layer")
	imageCmd.Flags().BoolVar(&noShielding, "no-shielding", false, "disable the binary shielding layer")
	imageCmd.Flags().BoolVar(&noCloaking, "no-cloaking", false, "disable the AI cloaking layer")
	imageCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for exported artifacts")
	imageCmd.Flags().BoolVar(&skipCertificate, "no-certificate", false, "skip exporting the authenticity certificate")
	imageCmd.Flags().BoolVar(&skipImage, "no-image", false, "skip downloading the protected image")
	imageCmd.Flags().StringVar(&identityFlag, "identity", "", "submit as this identity instead of the configured one")
}

// resetImageCommandState resets the image command's global state for testing.
func resetImageCommandState() {
	noSigning = false
	noShielding = false
	noCloaking = false
	outputDir = "."
	skipCertificate = false
	skipImage = false
	identityFlag = ""
}

var imageCmd = &cobra.Command{
	Use:   "image <path>",
	Short: "Submits an image for protection and exports the resulting artifacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting protect image command")
		spinner, cleanup := startSpinner("Validating image...", verbose)
		defer cleanup()

		Logger.Debugf("Ensuring user config")
		userConfig, err := configs.EnsureUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to ensure user config: %v", err)
		}

		identity := identityFlag
		if identity == "" {
			identity = userConfig.User.Email
		}
		if identity == "" {
			finalMessage := color.RedString("✗") + " No identity configured\n" +
				color.CyanString("→") + " Run " + color.YellowString("aegis config set-identity <email>") + " first"
			spinner.FinalMSG = finalMessage
			return nil
		}
		Logger.Debugf("Submitting as: %s", identity)

		Logger.Debugf("Validating candidate file: %s", args[0])
		file, err := intake.Validate(args[0])
		if err != nil {
			spinner.FinalMSG = intakeFailureMessage(err)
			return nil
		}
		Logger.Infof("File accepted: %s (%d bytes, %s)", file.Name, file.Size, file.MIME)

		preview, err := intake.NewPreview(file)
		if err != nil {
			// A preview is a display nicety; the workflow can run without one.
			Logger.Warnf("Failed to create preview: %v", err)
		}

		layers := protect.Layers{
			CryptographicSigning: userConfig.Defaults.CryptographicSigning && !noSigning,
			BinaryShielding:      userConfig.Defaults.BinaryShielding && !noShielding,
			AICloaking:           userConfig.Defaults.AICloaking && !noCloaking,
		}
		Logger.Debugf("Protection layers: signing=%t shielding=%t cloaking=%t",
			layers.CryptographicSigning, layers.BinaryShielding, layers.AICloaking)

		client := protect.NewClient(userConfig.Service.URL)
		wf := workflow.New(client)
		wf.SetLayers(layers)
		wf.Select(file, preview)
		// Release the preview copy on every exit path, not just the
		// success path below.
		defer wf.Clear()

		// Mirror workflow progress onto the spinner while the call is in flight.
		stopProgress := make(chan struct{})
		go func() {
			ticker := time.NewTicker(250 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					spinner.Suffix = " " + progressLine(wf)
				case <-stopProgress:
					return
				}
			}
		}()

		Logger.Infof("Submitting to %s", userConfig.Service.URL)
		submitErr := wf.Submit(context.Background(), identity)
		close(stopProgress)

		if submitErr != nil {
			spinner.FinalMSG = submissionFailureMessage(submitErr)
			return nil
		}

		result := wf.Result()
		Logger.Infof("Protection complete: content id %s", result.Certificate.ContentID)

		var certPath, imagePath string
		if !skipCertificate {
			certPath, err = export.WriteCertificate(outputDir, file.Name, result.Certificate)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to export certificate: %v", err)
			}
			Logger.Infof("Certificate written to: %s", certPath)
		}
		if !skipImage {
			imagePath, err = export.DownloadProtectedImage(context.Background(), client.HTTP, result.ProtectedURL, outputDir, file.Name)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to download protected image: %v", err)
			}
			Logger.Infof("Protected image written to: %s", imagePath)
		}

		history.Append(history.Entry{
			User:            identity,
			UserUUID:        userConfig.User.UUID,
			SubmissionID:    uuid.New().String(),
			FileName:        file.Name,
			ContentID:       result.Certificate.ContentID,
			ProtectedHash:   result.Certificate.ProtectedHash,
			ProtectionScore: result.Stats.ProtectionScore,
			Layers:          enabledLayerNames(layers),
		})

		spinner.FinalMSG = successMessage(result, certPath, imagePath)

		// The session is done with this asset; release everything held.
		wf.Reset()
		return nil
	},
}

// progressLine renders the active step and progress for the spinner.
func progressLine(wf *workflow.Workflow) string {
	progress := wf.Progress()
	for _, step := range workflow.StepStatuses(progress) {
		if step.Status == workflow.StepProcessing {
			return fmt.Sprintf("%s... (%d%%)", step.Label, progress)
		}
	}
	return fmt.Sprintf("Processing... (%d%%)", progress)
}

// intakeFailureMessage maps intake rejections to user guidance.
func intakeFailureMessage(err error) string {
	switch {
	case errors.Is(err, aegerr.ErrFileNotFound):
		return color.RedString("✗") + " File not found\n" +
			color.CyanString("→") + " Check the path and try again"
	case errors.Is(err, aegerr.ErrUnsupportedFileType):
		return color.RedString("✗") + " Unsupported file type\n" +
			color.CyanString("→") + " Aegis protects " + color.YellowString("JPEG, PNG, and WebP") + " images"
	case errors.Is(err, aegerr.ErrFileTooLarge):
		return color.RedString("✗") + " File too large\n" +
			color.CyanString("→") + " Images must be " + color.YellowString("10MiB") + " or smaller"
	default:
		return color.RedString("✗") + " Could not validate file: " + err.Error()
	}
}

// submissionFailureMessage maps submission failures to user guidance.
// The file is retained by the workflow, so the hint is always to retry.
func submissionFailureMessage(err error) string {
	var serviceErr *protect.ServiceError
	if errors.As(err, &serviceErr) {
		return color.RedString("✗") + " Protection failed: " + serviceErr.Message + "\n" +
			color.CyanString("→") + " Fix the reported problem and run the command again"
	}
	if errors.Is(err, aegerr.ErrServiceUnavailable) {
		return color.RedString("✗") + " Could not reach the protection service\n" +
			color.CyanString("→") + " Check the service URL with " + color.YellowString("aegis config show") + " and try again"
	}
	return color.RedString("✗") + " Protection failed: " + err.Error() + "\n" +
		color.CyanString("→") + " Try again in a moment"
}

// successMessage renders the result summary shown after the spinner stops.
func successMessage(result *protect.Result, certPath, imagePath string) string {
	var b strings.Builder

	banner := figure.NewColorFigure("Aegis", "", "green", true)
	for _, line := range banner.Slicify() {
		b.WriteString(line + "\n")
	}

	b.WriteString(color.GreenString("✓") + " Image protected successfully\n")
	b.WriteString(fmt.Sprintf("  Protection score:   %.1f\n", result.Stats.ProtectionScore))
	b.WriteString(fmt.Sprintf("  Manipulation score: %.1f\n", result.Stats.ManipulationScore))
	b.WriteString("  Content ID:         " + color.CyanString(result.Certificate.ContentID) + "\n")
	b.WriteString("  Protected hash:     " + color.CyanString(result.Certificate.ProtectedHash) + "\n")
	if certPath != "" {
		b.WriteString("  Certificate:        " + color.YellowString(certPath) + "\n")
	}
	if imagePath != "" {
		b.WriteString("  Protected image:    " + color.YellowString(imagePath) + "\n")
	}
	b.WriteString(color.CyanString("→") + " Verify later with " +
		color.YellowString("aegis verify "+result.Certificate.ProtectedHash))

	return b.String()
}

// enabledLayerNames lists the enabled layers for the history record.
func enabledLayerNames(layers protect.Layers) []string {
	var names []string
	if layers.CryptographicSigning {
		names = append(names, workflow.OptionCryptographicSigning)
	}
	if layers.BinaryShielding {
		names = append(names, workflow.OptionBinaryShielding)
	}
	if layers.AICloaking {
		names = append(names, workflow.OptionAICloaking)
	}
	return names
}
