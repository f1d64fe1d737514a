package inference

import (
	"context"
	"fmt"
)

// ClassMap is the per-pixel segmentation result. Classes holds one
// entry per pixel in row-major order.
type ClassMap struct {
	Width   int
	Height  int
	Classes []uint8
}

// At returns the class index assigned to pixel (x, y).
func (m *ClassMap) At(x, y int) uint8 {
	return m.Classes[y*m.Width+x]
}

// Valid reports whether the map is internally consistent and matches
// the given image dimensions.
func (m *ClassMap) Valid(width, height int) bool {
	return m != nil && m.Width == width && m.Height == height && len(m.Classes) == width*height
}

// Segmenter is the clothing segmentation backend contract.
type Segmenter interface {
	Segment(ctx context.Context, imageBytes []byte) (*ClassMap, error)
}

// Embedder is the shared image/text embedding backend contract. Both
// methods return vectors in the same embedding space.
type Embedder interface {
	EmbedImage(ctx context.Context, imageBytes []byte) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// InferenceError marks a failed backend call. No partial result ever
// accompanies one.
type InferenceError struct {
	Stage string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference %s: %v", e.Stage, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// NewInferenceError wraps a backend failure with its pipeline stage.
func NewInferenceError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &InferenceError{Stage: stage, Err: err}
}
