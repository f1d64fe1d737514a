package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/fashion-police/internal/inference"
	"github.com/example/fashion-police/internal/pipeline"
	"github.com/example/fashion-police/internal/ranking"
	"github.com/example/fashion-police/internal/segmentation"
	"github.com/example/fashion-police/internal/vision"
)

type stubPreview struct {
	err   error
	calls int
}

func (s *stubPreview) Segment(ctx context.Context, capture *vision.CapturedImage) (*segmentation.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &segmentation.Result{
		ClassMap:          &inference.ClassMap{Width: capture.Width, Height: capture.Height, Classes: make([]uint8, capture.Width*capture.Height)},
		DisplayOverlay:    image.NewRGBA(image.Rect(0, 0, capture.Width, capture.Height)),
		AnonymizedOverlay: image.NewRGBA(image.Rect(0, 0, capture.Width, capture.Height)),
	}, nil
}

type stubClassifier struct {
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (s *stubClassifier) Classify(ctx context.Context, sessionID string, capture *vision.CapturedImage) (string, *pipeline.Result, error) {
	s.calls++
	if s.started != nil {
		close(s.started)
		s.started = nil
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return "", nil, s.err
	}
	return "record-" + capture.Fingerprint[:8], &pipeline.Result{
		RankedStyles: []ranking.StylePrediction{{Name: "Gothic", Score: 0.9}},
	}, nil
}

type stubFeedback struct {
	err      error
	recordID string
	style    string
}

func (s *stubFeedback) SubmitCorrection(ctx context.Context, recordID, style string) error {
	if s.err != nil {
		return s.err
	}
	s.recordID = recordID
	s.style = style
	return nil
}

func capturePayload(t *testing.T, fill color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestManager(preview *stubPreview, classifier *stubClassifier, feedback *stubFeedback) *Manager {
	return NewManager(preview, classifier, feedback, time.Hour, zap.NewNop())
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	feedback := &stubFeedback{}
	m := newTestManager(&stubPreview{}, &stubClassifier{}, feedback)

	snap := m.Start()
	if snap.State != StateStart {
		t.Fatalf("new session must be in start, got %s", snap.State)
	}

	snap, err := m.StartCapture(snap.ID)
	if err != nil {
		t.Fatalf("start capture failed: %v", err)
	}
	if snap.State != StateCapturing {
		t.Fatalf("expected capturing, got %s", snap.State)
	}

	snap, err = m.SubmitCapture(ctx, snap.ID, capturePayload(t, color.RGBA{1, 2, 3, 255}))
	if err != nil {
		t.Fatalf("submit capture failed: %v", err)
	}
	if snap.Preview == nil || snap.Fingerprint == "" {
		t.Fatal("capture submission must record a preview and fingerprint")
	}

	snap, err = m.Classify(ctx, snap.ID)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if snap.State != StateResult || snap.Result == nil || snap.RecordID == "" {
		t.Fatalf("expected a result, got state %s", snap.State)
	}

	snap, err = m.EnterFeedback(snap.ID)
	if err != nil {
		t.Fatalf("enter feedback failed: %v", err)
	}

	snap, err = m.SubmitFeedback(ctx, snap.ID, "Preppy")
	if err != nil {
		t.Fatalf("submit feedback failed: %v", err)
	}
	if snap.Correction != "Preppy" || feedback.style != "Preppy" {
		t.Fatal("correction was not recorded")
	}
	if feedback.recordID != snap.RecordID {
		t.Fatalf("feedback sent to wrong record: %s", feedback.recordID)
	}

	snap, err = m.CloseFeedback(snap.ID)
	if err != nil {
		t.Fatalf("close feedback failed: %v", err)
	}
	if snap.State != StateResult {
		t.Fatalf("expected result after closing feedback, got %s", snap.State)
	}

	snap, err = m.Restart(snap.ID)
	if err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if snap.State != StateStart || snap.Result != nil || snap.Fingerprint != "" {
		t.Fatal("restart must clear all session data")
	}
}

func TestUnknownSession(t *testing.T) {
	m := newTestManager(&stubPreview{}, &stubClassifier{}, &stubFeedback{})
	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := m.Classify(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	m := NewManager(&stubPreview{}, &stubClassifier{}, &stubFeedback{}, time.Millisecond, zap.NewNop())
	snap := m.Start()

	time.Sleep(5 * time.Millisecond)
	if _, err := m.Get(snap.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestClassifyRequiresCapture(t *testing.T) {
	m := newTestManager(&stubPreview{}, &stubClassifier{}, &stubFeedback{})
	snap := m.Start()

	var stateErr *StateError
	if _, err := m.Classify(context.Background(), snap.ID); !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError, got %v", err)
	}

	if _, err := m.StartCapture(snap.ID); err != nil {
		t.Fatalf("start capture failed: %v", err)
	}
	if _, err := m.Classify(context.Background(), snap.ID); !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError without a capture, got %v", err)
	}
}

func TestFeedbackRequiresResult(t *testing.T) {
	m := newTestManager(&stubPreview{}, &stubClassifier{}, &stubFeedback{})
	snap := m.Start()

	var stateErr *StateError
	if _, err := m.EnterFeedback(snap.ID); !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError, got %v", err)
	}
	if _, err := m.SubmitFeedback(context.Background(), snap.ID, "Gothic"); !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError, got %v", err)
	}
}

func TestSubmitCaptureRejectsGarbage(t *testing.T) {
	m := newTestManager(&stubPreview{}, &stubClassifier{}, &stubFeedback{})
	snap := m.Start()
	if _, err := m.StartCapture(snap.ID); err != nil {
		t.Fatalf("start capture failed: %v", err)
	}

	_, err := m.SubmitCapture(context.Background(), snap.ID, []byte("not an image"))
	var decodeErr *vision.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}

	// a decode failure must not disturb the session
	got, err := m.Get(snap.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.State != StateCapturing {
		t.Fatalf("expected capturing, got %s", got.State)
	}
}

func TestSubmitCaptureSameFingerprintIsNoop(t *testing.T) {
	preview := &stubPreview{}
	m := newTestManager(preview, &stubClassifier{}, &stubFeedback{})
	snap := m.Start()
	if _, err := m.StartCapture(snap.ID); err != nil {
		t.Fatalf("start capture failed: %v", err)
	}

	payload := capturePayload(t, color.RGBA{7, 7, 7, 255})
	for i := 0; i < 3; i++ {
		if _, err := m.SubmitCapture(context.Background(), snap.ID, payload); err != nil {
			t.Fatalf("submit capture failed: %v", err)
		}
	}
	if preview.calls != 1 {
		t.Fatalf("repeat payloads must not re-run segmentation, got %d calls", preview.calls)
	}
}

func TestRetakeClearsCapture(t *testing.T) {
	m := newTestManager(&stubPreview{}, &stubClassifier{}, &stubFeedback{})
	snap := m.Start()
	if _, err := m.StartCapture(snap.ID); err != nil {
		t.Fatalf("start capture failed: %v", err)
	}
	if _, err := m.SubmitCapture(context.Background(), snap.ID, capturePayload(t, color.RGBA{1, 1, 1, 255})); err != nil {
		t.Fatalf("submit capture failed: %v", err)
	}

	snap, err := m.Retake(snap.ID)
	if err != nil {
		t.Fatalf("retake failed: %v", err)
	}
	if snap.State != StateCapturing || snap.Fingerprint != "" || snap.Preview != nil {
		t.Fatal("retake must clear capture data and stay capturing")
	}
}

func TestClassifyErrorKeepsSessionRecoverable(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("backend unavailable")}
	m := newTestManager(&stubPreview{}, classifier, &stubFeedback{})
	snap := m.Start()
	if _, err := m.StartCapture(snap.ID); err != nil {
		t.Fatalf("start capture failed: %v", err)
	}
	if _, err := m.SubmitCapture(context.Background(), snap.ID, capturePayload(t, color.RGBA{1, 1, 1, 255})); err != nil {
		t.Fatalf("submit capture failed: %v", err)
	}

	if _, err := m.Classify(context.Background(), snap.ID); err == nil {
		t.Fatal("expected classify to fail")
	}

	got, err := m.Get(snap.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.State != StateClassifying {
		t.Fatalf("expected classifying after failure, got %s", got.State)
	}

	// retry succeeds once the backend recovers
	classifier.err = nil
	snap, err = m.Classify(context.Background(), snap.ID)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if snap.State != StateResult {
		t.Fatalf("expected result, got %s", snap.State)
	}
}

func TestClassifyRejectsConcurrentAttempt(t *testing.T) {
	classifier := &stubClassifier{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	started := classifier.started
	m := newTestManager(&stubPreview{}, classifier, &stubFeedback{})
	snap := m.Start()
	if _, err := m.StartCapture(snap.ID); err != nil {
		t.Fatalf("start capture failed: %v", err)
	}
	if _, err := m.SubmitCapture(context.Background(), snap.ID, capturePayload(t, color.RGBA{1, 1, 1, 255})); err != nil {
		t.Fatalf("submit capture failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := m.Classify(context.Background(), snap.ID)
		done <- err
	}()
	<-started

	var stateErr *StateError
	if _, err := m.Classify(context.Background(), snap.ID); !errors.As(err, &stateErr) {
		t.Fatalf("expected StateError for concurrent classify, got %v", err)
	}

	close(classifier.release)
	if err := <-done; err != nil {
		t.Fatalf("first classify failed: %v", err)
	}
}

func TestStaleResultIsDiscarded(t *testing.T) {
	classifier := &stubClassifier{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	started := classifier.started
	m := newTestManager(&stubPreview{}, classifier, &stubFeedback{})
	snap := m.Start()
	if _, err := m.StartCapture(snap.ID); err != nil {
		t.Fatalf("start capture failed: %v", err)
	}

	first := capturePayload(t, color.RGBA{1, 1, 1, 255})
	second := capturePayload(t, color.RGBA{2, 2, 2, 255})

	if _, err := m.SubmitCapture(context.Background(), snap.ID, first); err != nil {
		t.Fatalf("submit capture failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := m.Classify(context.Background(), snap.ID)
		done <- err
	}()
	<-started

	// a new capture while classification is in flight abandons it
	mid, err := m.SubmitCapture(context.Background(), snap.ID, second)
	if err != nil {
		t.Fatalf("submit capture failed: %v", err)
	}
	if mid.State != StateCapturing {
		t.Fatalf("expected capturing after new capture, got %s", mid.State)
	}

	close(classifier.release)
	if err := <-done; !errors.Is(err, ErrResultSuperseded) {
		t.Fatalf("expected ErrResultSuperseded, got %v", err)
	}

	// the session holds no stale result and classifies the new capture
	got, err := m.Get(snap.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Result != nil || got.RecordID != "" {
		t.Fatal("stale result leaked into the session")
	}

	got, err = m.Classify(context.Background(), snap.ID)
	if err != nil {
		t.Fatalf("classify of new capture failed: %v", err)
	}
	if got.State != StateResult {
		t.Fatalf("expected result, got %s", got.State)
	}
	if got.Fingerprint != vision.Fingerprint(second) {
		t.Fatal("result belongs to the wrong capture")
	}
}

func TestStartCaptureFromResultClearsPrevious(t *testing.T) {
	m := newTestManager(&stubPreview{}, &stubClassifier{}, &stubFeedback{})
	snap := m.Start()
	if _, err := m.StartCapture(snap.ID); err != nil {
		t.Fatalf("start capture failed: %v", err)
	}
	if _, err := m.SubmitCapture(context.Background(), snap.ID, capturePayload(t, color.RGBA{1, 1, 1, 255})); err != nil {
		t.Fatalf("submit capture failed: %v", err)
	}
	if _, err := m.Classify(context.Background(), snap.ID); err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	snap, err := m.StartCapture(snap.ID)
	if err != nil {
		t.Fatalf("start capture from result failed: %v", err)
	}
	if snap.State != StateCapturing || snap.Result != nil || snap.RecordID != "" {
		t.Fatal("starting a new capture must drop the previous result")
	}
}

func TestFeedbackFailureLeavesSessionUnchanged(t *testing.T) {
	feedback := &stubFeedback{err: errors.New("store unavailable")}
	m := newTestManager(&stubPreview{}, &stubClassifier{}, feedback)
	snap := m.Start()
	if _, err := m.StartCapture(snap.ID); err != nil {
		t.Fatalf("start capture failed: %v", err)
	}
	if _, err := m.SubmitCapture(context.Background(), snap.ID, capturePayload(t, color.RGBA{1, 1, 1, 255})); err != nil {
		t.Fatalf("submit capture failed: %v", err)
	}
	if _, err := m.Classify(context.Background(), snap.ID); err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if _, err := m.EnterFeedback(snap.ID); err != nil {
		t.Fatalf("enter feedback failed: %v", err)
	}

	if _, err := m.SubmitFeedback(context.Background(), snap.ID, "Gothic"); err == nil {
		t.Fatal("expected feedback submission to fail")
	}

	got, err := m.Get(snap.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Correction != "" {
		t.Fatal("failed feedback must not record a correction")
	}
	if got.State != StateFeedback {
		t.Fatalf("session must stay in feedback, got %s", got.State)
	}
}
