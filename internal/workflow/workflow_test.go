package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/solverde/aegis/internal/intake"
	"github.com/solverde/aegis/internal/protect"
)

// fakeTicker delivers ticks only when the test sends them.
type fakeTicker struct {
	ch chan time.Time
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{ch: make(chan time.Time)}
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

func (f *fakeTicker) factory(time.Duration) Ticker { return f }

// fakeSubmitter blocks until the test releases it, then returns the
// programmed outcome.
type fakeSubmitter struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	result  *protect.Result
	err     error
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (f *fakeSubmitter) ProtectImage(ctx context.Context, file *intake.SelectedFile, identity string, layers protect.Layers) (*protect.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	select {
	case f.started <- struct{}{}:
	default:
	}
	<-f.release
	return f.result, f.err
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testFile() *intake.SelectedFile {
	return &intake.SelectedFile{
		Path: "/tmp/photo.jpg",
		Name: "photo.jpg",
		Size: 2 * 1024 * 1024,
		MIME: "image/jpeg",
	}
}

func testResult() *protect.Result {
	return &protect.Result{
		ProtectedURL: "http://svc:8000/static/protected/abc.jpg",
		Stats:        protect.Stats{ProtectionScore: 98.5},
		Certificate:  protect.Certificate{ContentID: "content-123"},
	}
}

// waitFor polls until cond holds or the test deadline is hit.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", msg)
}

func TestNew_StartsIdleWithAllLayersEnabled(t *testing.T) {
	w := New(newFakeSubmitter())

	if w.Stage() != StageIdle {
		t.Errorf("Expected StageIdle, got: %v", w.Stage())
	}
	if w.Progress() != 0 {
		t.Errorf("Expected progress 0, got: %d", w.Progress())
	}
	layers := w.Layers()
	if !layers.CryptographicSigning || !layers.BinaryShielding || !layers.AICloaking {
		t.Errorf("Expected all layers enabled by default, got: %+v", layers)
	}
}

func TestSelect_MovesToFileReady(t *testing.T) {
	w := New(newFakeSubmitter())
	w.Select(testFile(), nil)

	if w.Stage() != StageFileReady {
		t.Errorf("Expected StageFileReady, got: %v", w.Stage())
	}
	if w.Progress() != 0 {
		t.Errorf("Expected progress reset to 0, got: %d", w.Progress())
	}
	if w.File() == nil || w.File().Name != "photo.jpg" {
		t.Errorf("Expected file held, got: %+v", w.File())
	}
	if w.Result() != nil {
		t.Error("Expected no result after selection")
	}
}

func TestSubmit_NoFileIsNoOp(t *testing.T) {
	submitter := newFakeSubmitter()
	w := New(submitter)

	if err := w.Submit(context.Background(), "u@example.com"); err != nil {
		t.Fatalf("Expected nil from guarded submit, got: %v", err)
	}
	if w.Stage() != StageIdle {
		t.Errorf("Expected stage unchanged, got: %v", w.Stage())
	}
	if w.Progress() != 0 {
		t.Errorf("Expected progress unchanged, got: %d", w.Progress())
	}
	if submitter.callCount() != 0 {
		t.Errorf("Expected no submission, got %d calls", submitter.callCount())
	}
}

func TestSubmit_NoIdentityIsNoOp(t *testing.T) {
	submitter := newFakeSubmitter()
	w := New(submitter)
	w.Select(testFile(), nil)

	if err := w.Submit(context.Background(), ""); err != nil {
		t.Fatalf("Expected nil from guarded submit, got: %v", err)
	}
	if w.Stage() != StageFileReady {
		t.Errorf("Expected stage unchanged, got: %v", w.Stage())
	}
	if submitter.callCount() != 0 {
		t.Errorf("Expected no submission, got %d calls", submitter.callCount())
	}
}

func TestSubmit_SuccessDrivesProgressToResult(t *testing.T) {
	submitter := newFakeSubmitter()
	submitter.result = testResult()
	ticker := newFakeTicker()

	w := New(submitter)
	w.SetTickerFactory(ticker.factory)
	w.Select(testFile(), nil)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Submit(context.Background(), "u@example.com") }()

	<-submitter.started
	if w.Stage() != StageProcessing {
		t.Errorf("Expected StageProcessing, got: %v", w.Stage())
	}
	if w.Progress() != 10 {
		t.Errorf("Expected upload to start at 10, got: %d", w.Progress())
	}

	// Drive the heartbeat: 10 → 20 → ... → 90.
	for want := 20; want <= 90; want += 10 {
		ticker.ch <- time.Now()
		expected := want
		waitFor(t, func() bool { return w.Progress() == expected }, "heartbeat increment")
	}

	// Further ticks must not push progress past the cap.
	ticker.ch <- time.Now()
	ticker.ch <- time.Now()
	if got := w.Progress(); got != 90 {
		t.Errorf("Expected progress capped at 90, got: %d", got)
	}

	close(submitter.release)
	if err := <-errCh; err != nil {
		t.Fatalf("Expected successful submit, got: %v", err)
	}

	if w.Progress() != 100 {
		t.Errorf("Expected progress forced to 100, got: %d", w.Progress())
	}
	if w.Stage() != StageResult {
		t.Errorf("Expected StageResult, got: %v", w.Stage())
	}
	if w.Result() == nil || w.Result().Certificate.ContentID != "content-123" {
		t.Errorf("Expected composed result held, got: %+v", w.Result())
	}
}

func TestSubmit_FailureRetainsFile(t *testing.T) {
	submitter := newFakeSubmitter()
	submitter.err = errors.New("User not found")
	ticker := newFakeTicker()

	w := New(submitter)
	w.SetTickerFactory(ticker.factory)
	w.Select(testFile(), nil)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Submit(context.Background(), "u@example.com") }()

	<-submitter.started
	ticker.ch <- time.Now()
	waitFor(t, func() bool { return w.Progress() == 20 }, "heartbeat increment")

	close(submitter.release)
	if err := <-errCh; err == nil {
		t.Fatal("Expected submit to return the failure")
	}

	if w.Progress() != 0 {
		t.Errorf("Expected progress forced to 0 on failure, got: %d", w.Progress())
	}
	if w.Stage() != StageFileReady {
		t.Errorf("Expected return to StageFileReady, got: %v", w.Stage())
	}
	if w.File() == nil {
		t.Error("Expected file retained for retry")
	}
	if w.FailureMessage() != "User not found" {
		t.Errorf("Expected failure reason surfaced, got: %q", w.FailureMessage())
	}
}

func TestSubmit_WhileProcessingIsNoOp(t *testing.T) {
	submitter := newFakeSubmitter()
	submitter.result = testResult()
	ticker := newFakeTicker()

	w := New(submitter)
	w.SetTickerFactory(ticker.factory)
	w.Select(testFile(), nil)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Submit(context.Background(), "u@example.com") }()
	<-submitter.started

	// Duplicate submission must return immediately without touching state.
	if err := w.Submit(context.Background(), "u@example.com"); err != nil {
		t.Fatalf("Expected nil from duplicate submit, got: %v", err)
	}
	if w.Stage() != StageProcessing {
		t.Errorf("Expected StageProcessing preserved, got: %v", w.Stage())
	}
	if submitter.callCount() != 1 {
		t.Errorf("Expected a single submission, got %d calls", submitter.callCount())
	}

	close(submitter.release)
	<-errCh
}

func TestSelect_WhileProcessingIsNoOp(t *testing.T) {
	submitter := newFakeSubmitter()
	submitter.result = testResult()
	ticker := newFakeTicker()

	w := New(submitter)
	w.SetTickerFactory(ticker.factory)
	first := testFile()
	w.Select(first, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- w.Submit(context.Background(), "u@example.com") }()
	<-submitter.started

	w.Select(&intake.SelectedFile{Name: "other.png"}, nil)
	if w.File() != first {
		t.Error("Expected selection unchanged while processing")
	}

	close(submitter.release)
	<-errCh
}

func TestReset_FromResultReturnsToIdle(t *testing.T) {
	submitter := newFakeSubmitter()
	submitter.result = testResult()
	close(submitter.release) // resolve immediately

	w := New(submitter)
	w.SetTickerFactory(newFakeTicker().factory)
	w.Select(testFile(), nil)
	if err := w.Submit(context.Background(), "u@example.com"); err != nil {
		t.Fatalf("Expected successful submit, got: %v", err)
	}

	w.Reset()
	if w.Stage() != StageIdle {
		t.Errorf("Expected StageIdle after reset, got: %v", w.Stage())
	}
	if w.File() != nil {
		t.Error("Expected file cleared")
	}
	if w.Result() != nil {
		t.Error("Expected result cleared")
	}
	if w.Progress() != 0 {
		t.Errorf("Expected progress cleared, got: %d", w.Progress())
	}
}

func TestReset_OutsideResultIsNoOp(t *testing.T) {
	w := New(newFakeSubmitter())
	w.Select(testFile(), nil)

	w.Reset()
	if w.Stage() != StageFileReady {
		t.Errorf("Expected reset ignored outside Result, got: %v", w.Stage())
	}
	if w.File() == nil {
		t.Error("Expected file retained")
	}
}

func TestToggle_MutatesExactlyOneOption(t *testing.T) {
	w := New(newFakeSubmitter())

	if err := w.Toggle(OptionCryptographicSigning, false); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	layers := w.Layers()
	if layers.CryptographicSigning {
		t.Error("Expected signing disabled")
	}
	if !layers.BinaryShielding || !layers.AICloaking {
		t.Errorf("Expected other layers untouched, got: %+v", layers)
	}

	if err := w.Toggle("watermarking", true); err == nil {
		t.Error("Expected error for unknown option name")
	}
}

func TestToggle_AllDisabledIsValid(t *testing.T) {
	w := New(newFakeSubmitter())
	for _, opt := range []string{OptionCryptographicSigning, OptionBinaryShielding, OptionAICloaking} {
		if err := w.Toggle(opt, false); err != nil {
			t.Fatalf("Expected no error toggling %s, got: %v", opt, err)
		}
	}
	layers := w.Layers()
	if layers.CryptographicSigning || layers.BinaryShielding || layers.AICloaking {
		t.Errorf("Expected all layers disabled, got: %+v", layers)
	}
}

func TestClear_ReturnsToIdle(t *testing.T) {
	w := New(newFakeSubmitter())
	w.Select(testFile(), nil)

	w.Clear()
	if w.Stage() != StageIdle {
		t.Errorf("Expected StageIdle after clear, got: %v", w.Stage())
	}
	if w.File() != nil {
		t.Error("Expected file cleared")
	}
}

func TestSubmit_RetrySucceedsAfterFailure(t *testing.T) {
	submitter := newFakeSubmitter()
	submitter.err = errors.New("temporarily overloaded")
	close(submitter.release)

	w := New(submitter)
	w.SetTickerFactory(newFakeTicker().factory)
	w.Select(testFile(), nil)

	if err := w.Submit(context.Background(), "u@example.com"); err == nil {
		t.Fatal("Expected first submit to fail")
	}

	// The file survived the failure, so a fresh user-initiated submit
	// succeeds without reselecting.
	submitter.err = nil
	submitter.result = testResult()
	if err := w.Submit(context.Background(), "u@example.com"); err != nil {
		t.Fatalf("Expected retry to succeed, got: %v", err)
	}
	if w.Stage() != StageResult {
		t.Errorf("Expected StageResult after retry, got: %v", w.Stage())
	}
	if w.FailureMessage() != "" {
		t.Errorf("Expected failure message cleared, got: %q", w.FailureMessage())
	}
}
