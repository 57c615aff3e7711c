package workflow

// StepStatus is the display state of one protection stage.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepProcessing StepStatus = "processing"
	StepCompleted  StepStatus = "completed"
)

// Step is one of the four fixed display stages of a protection run.
type Step struct {
	ID     string
	Label  string
	Status StepStatus
}

// StepStatuses derives the four stage statuses from a progress value.
// The thresholds are fixed display heuristics, not backend phase
// boundaries: upload completes past 10, signing past 40, shielding past
// 70, and cloaking only at exactly 100.
func StepStatuses(progress int) []Step {
	return []Step{
		{
			ID:     "upload",
			Label:  "Uploading Image",
			Status: statusFor(progress, 0, 10),
		},
		{
			ID:     "cryptographic-signing",
			Label:  "Cryptographic Signing",
			Status: statusFor(progress, 10, 40),
		},
		{
			ID:     "binary-shielding",
			Label:  "Binary Shielding",
			Status: statusFor(progress, 40, 70),
		},
		{
			ID:     "ai-cloaking",
			Label:  "AI Cloaking",
			Status: cloakingStatus(progress),
		},
	}
}

// statusFor maps progress onto a stage bounded by (start, done]:
// completed above done, processing above start, pending otherwise.
func statusFor(progress, start, done int) StepStatus {
	switch {
	case progress > done:
		return StepCompleted
	case progress > start:
		return StepProcessing
	default:
		return StepPending
	}
}

// cloakingStatus is the final stage: it only completes when progress is
// forced to exactly 100 by a successful response.
func cloakingStatus(progress int) StepStatus {
	switch {
	case progress == 100:
		return StepCompleted
	case progress > 70:
		return StepProcessing
	default:
		return StepPending
	}
}
