package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/fashion-police/internal/vision"
)

// Manager owns every live session and implements the state machine.
// Each session's mutable data belongs to that session alone; the
// manager lock only guards the session map.
type Manager struct {
	preview    PreviewService
	classifier ClassificationService
	feedback   FeedbackService
	ttl        time.Duration
	logger     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Record
}

// NewManager constructs a session manager. Sessions idle longer than
// ttl are evicted lazily on next access.
func NewManager(preview PreviewService, classifier ClassificationService, feedback FeedbackService, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		preview:    preview,
		classifier: classifier,
		feedback:   feedback,
		ttl:        ttl,
		logger:     logger.Named("session"),
		sessions:   make(map[string]*Record),
	}
}

// Start creates a fresh session in the start state.
func (m *Manager) Start() *Snapshot {
	record := &Record{
		ID:      uuid.NewString(),
		State:   StateStart,
		touched: time.Now(),
	}

	m.mu.Lock()
	m.sessions[record.ID] = record
	m.mu.Unlock()

	m.logger.Info("session started", zap.String("session_id", record.ID))
	return record.snapshot()
}

// Get returns a snapshot of the session.
func (m *Manager) Get(id string) (*Snapshot, error) {
	record, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	return record.snapshot(), nil
}

// StartCapture moves the session into the capturing state. From result
// or feedback this begins a new photo, so previous capture data is
// cleared.
func (m *Manager) StartCapture(id string) (*Snapshot, error) {
	record, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()

	switch record.State {
	case StateStart, StateResult, StateFeedback:
		record.reset()
		record.State = StateCapturing
	case StateCapturing:
		// already capturing, nothing to do
	default:
		return nil, &StateError{Event: "start_capture", State: record.State, Reason: "capture not allowed here"}
	}
	return record.snapshot(), nil
}

// SubmitCapture decodes a capture payload, renders its segmentation
// preview and stores both. A payload with the same fingerprint as the
// current capture is a no-op, so repeat submissions never re-run
// segmentation. Submitting while a classification is in flight
// abandons that work: the session returns to capturing and the stale
// result will be discarded when it arrives.
func (m *Manager) SubmitCapture(ctx context.Context, id string, payload []byte) (*Snapshot, error) {
	record, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()

	if record.State != StateCapturing && record.State != StateClassifying {
		return nil, &StateError{Event: "submit_capture", State: record.State, Reason: "no capture expected"}
	}

	// Decode failures are reported without touching session state.
	capture, err := vision.DecodeCapture(payload)
	if err != nil {
		return nil, err
	}

	if record.Capture != nil && record.Capture.Fingerprint == capture.Fingerprint {
		return record.snapshot(), nil
	}

	preview, err := m.preview.Segment(ctx, capture)
	if err != nil {
		return nil, err
	}

	record.Capture = capture
	record.Preview = preview
	record.RecordID = ""
	record.Result = nil
	record.Correction = ""
	record.classifiedFor = ""
	record.State = StateCapturing
	return record.snapshot(), nil
}

// Retake clears all capture data so a fresh photo can be taken; the
// session stays in the capturing state.
func (m *Manager) Retake(id string) (*Snapshot, error) {
	record, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()

	if record.State != StateCapturing {
		return nil, &StateError{Event: "retake", State: record.State, Reason: "not capturing"}
	}
	record.reset()
	return record.snapshot(), nil
}

// Classify runs the pipeline for the current capture and moves the
// session to the result state. The pipeline runs at most once per
// capture fingerprint and at most once concurrently per session; a
// result arriving for a superseded capture is discarded.
func (m *Manager) Classify(ctx context.Context, id string) (*Snapshot, error) {
	record, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	record.mu.Lock()
	if record.State != StateCapturing && record.State != StateClassifying {
		stateErr := &StateError{Event: "classify", State: record.State, Reason: "nothing to classify here"}
		record.mu.Unlock()
		return nil, stateErr
	}
	if record.Capture == nil || record.Preview == nil {
		stateErr := &StateError{Event: "classify", State: record.State, Reason: "capture or preview missing"}
		record.mu.Unlock()
		return nil, stateErr
	}
	if record.classifying {
		stateErr := &StateError{Event: "classify", State: record.State, Reason: "classification already in flight"}
		record.mu.Unlock()
		return nil, stateErr
	}
	if record.classifiedFor == record.Capture.Fingerprint && record.Result != nil {
		record.State = StateResult
		snap := record.snapshot()
		record.mu.Unlock()
		return snap, nil
	}

	capture := record.Capture
	fingerprint := capture.Fingerprint
	record.State = StateClassifying
	record.classifying = true
	record.mu.Unlock()

	// Inference blocks without the record lock so a newer capture can
	// abandon this attempt.
	recordID, result, err := m.classifier.Classify(ctx, id, capture)

	record.mu.Lock()
	defer record.mu.Unlock()
	record.classifying = false

	if err != nil {
		// The session stays in classifying; the user may retry,
		// submit a new capture, or restart.
		return nil, err
	}

	if record.State != StateClassifying || record.Capture == nil || record.Capture.Fingerprint != fingerprint {
		m.logger.Warn("discarding stale classification result",
			zap.String("session_id", id),
			zap.String("record_id", recordID),
			zap.String("fingerprint", fingerprint))
		return nil, ErrResultSuperseded
	}

	record.RecordID = recordID
	record.Result = result
	record.classifiedFor = fingerprint
	record.State = StateResult
	return record.snapshot(), nil
}

// EnterFeedback moves the session from result to feedback.
func (m *Manager) EnterFeedback(id string) (*Snapshot, error) {
	record, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()

	if record.State != StateResult {
		return nil, &StateError{Event: "enter_feedback", State: record.State, Reason: "no result to correct"}
	}
	if record.Result == nil || record.RecordID == "" {
		return nil, &StateError{Event: "enter_feedback", State: record.State, Reason: "classification record missing"}
	}
	record.State = StateFeedback
	return record.snapshot(), nil
}

// SubmitFeedback forwards the chosen style to the store. Validation
// failures are reported without mutating the session.
func (m *Manager) SubmitFeedback(ctx context.Context, id, style string) (*Snapshot, error) {
	record, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()

	if record.State != StateFeedback {
		return nil, &StateError{Event: "submit_feedback", State: record.State, Reason: "feedback not open"}
	}
	if record.RecordID == "" {
		return nil, &StateError{Event: "submit_feedback", State: record.State, Reason: "classification record missing"}
	}

	if err := m.feedback.SubmitCorrection(ctx, record.RecordID, style); err != nil {
		return nil, err
	}

	record.Correction = style
	return record.snapshot(), nil
}

// CloseFeedback returns the session to the result state.
func (m *Manager) CloseFeedback(id string) (*Snapshot, error) {
	record, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()

	if record.State != StateFeedback {
		return nil, &StateError{Event: "close_feedback", State: record.State, Reason: "feedback not open"}
	}
	record.State = StateResult
	return record.snapshot(), nil
}

// Restart resets the session to the start state from anywhere,
// clearing all session data. This is also the documented recovery for
// a StateError.
func (m *Manager) Restart(id string) (*Snapshot, error) {
	record, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()

	record.reset()
	record.State = StateStart
	return record.snapshot(), nil
}

func (m *Manager) lookup(id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.ttl > 0 && time.Since(record.touched) > m.ttl {
		delete(m.sessions, id)
		m.logger.Info("session expired", zap.String("session_id", id))
		return nil, ErrSessionNotFound
	}
	record.touched = time.Now()
	return record, nil
}
