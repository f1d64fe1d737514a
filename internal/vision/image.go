package vision

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"

	_ "image/jpeg"
	_ "image/png"
)

// CapturedImage is an immutable decoded capture. It keeps the original
// payload for the inference backends and a content fingerprint used to
// detect repeat captures. A retake replaces the whole value.
type CapturedImage struct {
	Width       int
	Height      int
	Pixels      *image.RGBA
	Raw         []byte
	Fingerprint string
}

// DecodeError marks a capture payload that could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode capture: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeCapture turns a raw capture payload into a CapturedImage.
// PNG and JPEG payloads are accepted; anything else fails with a
// DecodeError.
func DecodeCapture(data []byte) (*CapturedImage, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: fmt.Errorf("empty payload")}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	raw := make([]byte, len(data))
	copy(raw, data)

	return &CapturedImage{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Pixels:      rgba,
		Raw:         raw,
		Fingerprint: Fingerprint(data),
	}, nil
}

// Fingerprint hashes a capture payload so byte-identical captures can
// be recognized without re-running inference.
func Fingerprint(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
