package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/solverde/aegis/internal/protect"
)

// CertificateFileName returns the export name for a certificate,
// derived from the original file name.
func CertificateFileName(originalName string) string {
	return "certificate_" + originalName + ".json"
}

// ProtectedFileName returns the export name for the protected image.
func ProtectedFileName(originalName string) string {
	return "protected_" + originalName
}

// WriteCertificate writes the certificate as an indented JSON document
// into dir and returns the written path.
func WriteCertificate(dir, originalName string, cert protect.Certificate) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(cert, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding certificate: %w", err)
	}

	path := filepath.Join(dir, CertificateFileName(originalName))
	// #nosec G306 -- certificates are meant to be shared.
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing certificate: %w", err)
	}

	return path, nil
}

// DownloadProtectedImage fetches the protected asset and streams it into
// dir under the protected_ name, returning the written path.
func DownloadProtectedImage(ctx context.Context, doer protect.HTTPDoer, imageURL, dir, originalName string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}

	resp, err := doer.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading protected image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("downloading protected image: unexpected status %d", resp.StatusCode)
	}

	path := filepath.Join(dir, ProtectedFileName(originalName))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	return path, nil
}
