package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/solverde/aegis/internal/intake"
	"github.com/solverde/aegis/internal/protect"
)

// Stage is the single active phase of the protection workflow.
type Stage int

const (
	// StageIdle: no file held.
	StageIdle Stage = iota

	// StageFileReady: a validated file is held, awaiting submission.
	StageFileReady

	// StageProcessing: a submission is in flight.
	StageProcessing

	// StageResult: a protection result is held.
	StageResult
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageFileReady:
		return "file-ready"
	case StageProcessing:
		return "processing"
	case StageResult:
		return "result"
	default:
		return "unknown"
	}
}

// Option names addressable through Toggle.
const (
	OptionCryptographicSigning = "cryptographic-signing"
	OptionBinaryShielding      = "binary-shielding"
	OptionAICloaking           = "ai-cloaking"
)

// Submitter sends a file to the protection service. The workflow only
// sees outcomes; transport details live behind this interface.
type Submitter interface {
	ProtectImage(ctx context.Context, file *intake.SelectedFile, identity string, layers protect.Layers) (*protect.Result, error)
}

// Workflow drives the protection lifecycle: file selection, option
// configuration, submission with a progress heartbeat, and result or
// failure handling. It exclusively owns the stage, the progress value,
// the selected file, and the result for its session.
//
// Illegal transitions (submitting with no file, resetting mid-flight)
// are silent no-ops, not errors; the surrounding command surface is
// expected to prevent them structurally.
type Workflow struct {
	mu        sync.Mutex
	stage     Stage
	progress  int
	file      *intake.SelectedFile
	previews  intake.PreviewHolder
	layers    protect.Layers
	result    *protect.Result
	failure   string
	submitter Submitter

	newTicker TickerFactory
	period    time.Duration
}

// New returns a workflow in StageIdle with all protection layers enabled.
func New(submitter Submitter) *Workflow {
	return &Workflow{
		layers:    protect.DefaultLayers(),
		submitter: submitter,
		newTicker: NewRealTicker,
		period:    HeartbeatPeriod,
	}
}

// SetTickerFactory overrides the heartbeat timer source. Tests use this
// to advance virtual time deterministically.
func (w *Workflow) SetTickerFactory(f TickerFactory) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.newTicker = f
}

// Stage returns the active stage.
func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Progress returns the current progress percentage in [0,100].
func (w *Workflow) Progress() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.progress
}

// File returns the held file, or nil.
func (w *Workflow) File() *intake.SelectedFile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file
}

// Result returns the held protection result, or nil.
func (w *Workflow) Result() *protect.Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// FailureMessage returns the last surfaced failure reason, or "".
func (w *Workflow) FailureMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failure
}

// Layers returns the current option set.
func (w *Workflow) Layers() protect.Layers {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.layers
}

// SetLayers replaces the whole option set. No-op while processing.
func (w *Workflow) SetLayers(layers protect.Layers) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageProcessing {
		return
	}
	w.layers = layers
}

// Toggle sets exactly one named option. All eight combinations are
// valid; only the name is checked. No-op while processing.
func (w *Workflow) Toggle(option string, value bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageProcessing {
		return nil
	}
	switch option {
	case OptionCryptographicSigning:
		w.layers.CryptographicSigning = value
	case OptionBinaryShielding:
		w.layers.BinaryShielding = value
	case OptionAICloaking:
		w.layers.AICloaking = value
	default:
		return fmt.Errorf("unknown protection option: %s", option)
	}
	return nil
}

// Select holds a validated file and its preview, releasing any prior
// preview. The result and progress are cleared and the stage becomes
// FileReady. No-op while a submission is processing.
func (w *Workflow) Select(file *intake.SelectedFile, preview *intake.Preview) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageProcessing {
		// Never mutate the selection under an in-flight submission;
		// release the orphaned preview instead of leaking it.
		preview.Release()
		return
	}
	w.previews.Set(preview)
	w.file = file
	w.result = nil
	w.progress = 0
	w.failure = ""
	w.stage = StageFileReady
}

// Clear drops the held file and preview and returns to Idle. No-op while
// processing.
func (w *Workflow) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage == StageProcessing {
		return
	}
	w.previews.Clear()
	w.file = nil
	w.result = nil
	w.progress = 0
	w.failure = ""
	w.stage = StageIdle
}

// Submit sends the held file for protection. Only legal in FileReady
// with a file and an identity; anything else is a silent no-op guarding
// against duplicate submissions.
//
// While the call is in flight a heartbeat ticker advances progress by
// HeartbeatStep per period, capped at HeartbeatCap. The ticker is
// stopped on every exit path. On success progress is forced to 100 and
// the stage becomes Result; on failure progress is forced to 0, the
// stage returns to FileReady with the file retained, and the failure
// reason is surfaced through FailureMessage.
func (w *Workflow) Submit(ctx context.Context, identity string) error {
	w.mu.Lock()
	if w.stage != StageFileReady || w.file == nil || identity == "" {
		w.mu.Unlock()
		return nil
	}
	file := w.file
	layers := w.layers
	w.stage = StageProcessing
	w.progress = HeartbeatStep // upload begins immediately
	w.failure = ""
	ticker := w.newTicker(w.period)
	w.mu.Unlock()

	done := make(chan struct{})
	go w.heartbeat(ticker, done)

	result, err := w.submitter.ProtectImage(ctx, file, identity, layers)

	// Cancel the heartbeat the instant the call resolves, before any
	// state is applied, so a late tick cannot touch the new stage.
	close(done)
	ticker.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.progress = 0
		w.stage = StageFileReady
		w.failure = err.Error()
		return err
	}
	w.progress = 100
	w.result = result
	w.stage = StageResult
	return nil
}

// heartbeat advances progress on ticks until cancelled. It never moves
// progress past HeartbeatCap and never runs outside StageProcessing.
func (w *Workflow) heartbeat(ticker Ticker, done <-chan struct{}) {
	for {
		select {
		case <-ticker.C():
			w.mu.Lock()
			if w.stage == StageProcessing && w.progress < HeartbeatCap {
				w.progress += HeartbeatStep
			}
			w.mu.Unlock()
		case <-done:
			return
		}
	}
}

// Reset clears the file, result, and progress and returns to Idle. Only
// legal from Result; any other stage is a no-op.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stage != StageResult {
		return
	}
	w.previews.Clear()
	w.file = nil
	w.result = nil
	w.progress = 0
	w.failure = ""
	w.stage = StageIdle
}

// Steps derives the current display step statuses.
func (w *Workflow) Steps() []Step {
	return StepStatuses(w.Progress())
}
