package intake

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Preview is a revocable handle to a displayable copy of a selected file.
// It mirrors the one-live-preview discipline of the upload surface: at
// most one preview exists per holder, and the prior one is released
// before a replacement is created.
type Preview struct {
	Path     string
	released bool
}

// Release removes the preview copy. Safe to call more than once.
func (p *Preview) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	// Best effort; a stale temp file is not worth failing an operation.
	_ = os.Remove(p.Path)
}

// Released reports whether the preview has been revoked.
func (p *Preview) Released() bool {
	return p == nil || p.released
}

// NewPreview copies the selected file into a temporary location and
// returns a handle the caller must Release.
func NewPreview(file *SelectedFile) (*Preview, error) {
	src, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("opening file for preview: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "aegis-preview-*"+filepath.Ext(file.Name))
	if err != nil {
		return nil, fmt.Errorf("creating preview file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return nil, fmt.Errorf("copying preview: %w", err)
	}

	return &Preview{Path: dst.Name()}, nil
}

// PreviewHolder keeps at most one live preview. Setting a new preview
// releases the previous one.
type PreviewHolder struct {
	current *Preview
}

// Set replaces the held preview, releasing any prior one first.
func (h *PreviewHolder) Set(p *Preview) {
	if h.current != nil {
		h.current.Release()
	}
	h.current = p
}

// Current returns the live preview, or nil.
func (h *PreviewHolder) Current() *Preview {
	return h.current
}

// Clear releases and drops the held preview.
func (h *PreviewHolder) Clear() {
	if h.current != nil {
		h.current.Release()
		h.current = nil
	}
}
