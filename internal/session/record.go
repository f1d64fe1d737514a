package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/fashion-police/internal/pipeline"
	"github.com/example/fashion-police/internal/segmentation"
	"github.com/example/fashion-police/internal/vision"
)

// State identifies one step of the capture → classify → result →
// feedback flow.
type State string

const (
	StateStart       State = "start"
	StateCapturing   State = "capturing"
	StateClassifying State = "classifying"
	StateResult      State = "result"
	StateFeedback    State = "feedback"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// ErrResultSuperseded is returned when a classification finished for a
// capture that is no longer the session's current one. The stale
// result is discarded, never applied.
var ErrResultSuperseded = errors.New("classification superseded by a newer capture")

// StateError reports an event that is not legal in the session's
// current state, or required session data that is missing. The remedy
// is an explicit restart, never guessing the missing data.
type StateError struct {
	Event  string
	State  State
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("event %q invalid in state %q: %s", e.Event, e.State, e.Reason)
}

// Record holds all transient data of one session. It is owned by the
// manager and mutated only by transition handlers; a transition commits
// only after its handler succeeds.
type Record struct {
	ID         string
	State      State
	Capture    *vision.CapturedImage
	Preview    *segmentation.Result
	RecordID   string
	Result     *pipeline.Result
	Correction string

	mu            sync.Mutex
	classifying   bool
	classifiedFor string
	touched       time.Time
}

// Snapshot is a read-only view of a record handed to transport code.
type Snapshot struct {
	ID          string
	State       State
	Fingerprint string
	Preview     *segmentation.Result
	RecordID    string
	Result      *pipeline.Result
	Correction  string
}

func (r *Record) snapshot() *Snapshot {
	s := &Snapshot{
		ID:         r.ID,
		State:      r.State,
		Preview:    r.Preview,
		RecordID:   r.RecordID,
		Result:     r.Result,
		Correction: r.Correction,
	}
	if r.Capture != nil {
		s.Fingerprint = r.Capture.Fingerprint
	}
	return s
}

// reset clears every piece of session data.
func (r *Record) reset() {
	r.Capture = nil
	r.Preview = nil
	r.RecordID = ""
	r.Result = nil
	r.Correction = ""
	r.classifiedFor = ""
}

// ClassificationService runs the outfit pipeline and persists the
// outcome, returning the record id that joins later feedback.
type ClassificationService interface {
	Classify(ctx context.Context, sessionID string, capture *vision.CapturedImage) (string, *pipeline.Result, error)
}

// FeedbackService forwards a user correction to the store.
type FeedbackService interface {
	SubmitCorrection(ctx context.Context, recordID, style string) error
}

// PreviewService renders the segmentation preview shown while
// capturing. *segmentation.Service satisfies it.
type PreviewService interface {
	Segment(ctx context.Context, capture *vision.CapturedImage) (*segmentation.Result, error)
}
