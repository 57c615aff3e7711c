package intake

import (
	"fmt"
	"os"
	"strings"

	aegerr "github.com/solverde/aegis/internal/errors"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest image the protection service accepts.
const MaxImageSize = 10 * 1024 * 1024 // 10MiB

// SelectedFile is a validated candidate ready for submission.
// Supported formats are JPEG, PNG, and WebP.
type SelectedFile struct {
	Path string
	Name string
	Size int64
	MIME string
}

// Validate checks a candidate file against the intake rules, in order:
// the file must exist, it must be an image, and it must not exceed
// MaxImageSize. Rules that fail return the matching sentinel error;
// nothing is mutated on rejection.
func Validate(path string) (*SelectedFile, error) {
	if path == "" {
		return nil, aegerr.ErrFileNotFound
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", aegerr.ErrFileNotFound, path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", aegerr.ErrUnsupportedFileType, path)
	}

	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detecting file type: %w", err)
	}
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", aegerr.ErrUnsupportedFileType, mime.String())
	}

	if info.Size() > MaxImageSize {
		return nil, fmt.Errorf("%w: %d bytes", aegerr.ErrFileTooLarge, info.Size())
	}

	return &SelectedFile{
		Path: path,
		Name: info.Name(),
		Size: info.Size(),
		MIME: mime.String(),
	}, nil
}
