// Package intake validates candidate files before protection.
//
// Validation rules are applied in order: the file must exist, its content
// must be an image (detected by sniffing, not by extension), and it must
// not exceed 10MiB. Rejections return sentinel errors from the errors
// package and never mutate prior state.
//
// The package also manages preview handles. A preview is a temporary
// displayable copy of the selected file; a PreviewHolder enforces that at
// most one preview is live at a time, releasing the prior handle whenever
// a new file is selected or the selection is cleared.
package intake
