package segmentation

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"github.com/example/fashion-police/internal/inference"
	"github.com/example/fashion-police/internal/vision"
)

// blendAlpha controls how strongly the palette color is mixed into
// clothing pixels on the display overlay.
const blendAlpha = 0.4

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

// Result bundles everything one segmentation pass produces. All three
// artifacts are derived from the same class map and never mutated.
type Result struct {
	ClassMap          *inference.ClassMap
	DisplayOverlay    *image.RGBA
	AnonymizedOverlay *image.RGBA
}

// Service turns a captured image into a class map plus the display and
// anonymized overlays. The backend owns the model; the service owns
// validation and rendering.
type Service struct {
	backend inference.Segmenter
	logger  *zap.Logger
}

// NewService constructs a segmentation service.
func NewService(backend inference.Segmenter, logger *zap.Logger) *Service {
	return &Service{backend: backend, logger: logger.Named("segmentation")}
}

// Segment runs the backend and renders both overlays.
//
// Anonymization is strict: on both overlays every background pixel is
// forced white and every face pixel forced black regardless of the
// source image. On the display overlay clothing pixels are blended
// with the class palette; on the anonymized overlay clothing and hair
// keep their original color and all other person pixels are blacked
// out, making it the only artifact safe to persist.
func (s *Service) Segment(ctx context.Context, capture *vision.CapturedImage) (*Result, error) {
	classMap, err := s.backend.Segment(ctx, capture.Raw)
	if err != nil {
		return nil, err
	}
	if !classMap.Valid(capture.Width, capture.Height) {
		err := inference.NewInferenceError("segmentation", fmt.Errorf(
			"class map %dx%d (%d entries) does not match image %dx%d",
			classMap.Width, classMap.Height, len(classMap.Classes), capture.Width, capture.Height))
		s.logger.Error("invalid class map from backend", zap.Error(err))
		return nil, err
	}

	display := image.NewRGBA(image.Rect(0, 0, capture.Width, capture.Height))
	anonymized := image.NewRGBA(image.Rect(0, 0, capture.Width, capture.Height))

	for y := 0; y < capture.Height; y++ {
		for x := 0; x < capture.Width; x++ {
			class := classMap.At(x, y)
			orig := capture.Pixels.RGBAAt(x, y)

			display.SetRGBA(x, y, displayPixel(class, orig))
			anonymized.SetRGBA(x, y, anonymizedPixel(class, orig))
		}
	}

	return &Result{
		ClassMap:          classMap,
		DisplayOverlay:    display,
		AnonymizedOverlay: anonymized,
	}, nil
}

func displayPixel(class uint8, orig color.RGBA) color.RGBA {
	switch {
	case class == vision.ClassBackground:
		return white
	case class == vision.ClassFace:
		return black
	case vision.IsClothing(class):
		return blend(orig, vision.Palette[class], blendAlpha)
	default:
		return orig
	}
}

func anonymizedPixel(class uint8, orig color.RGBA) color.RGBA {
	switch {
	case class == vision.ClassBackground:
		return white
	case vision.KeepVisible(class):
		return orig
	default:
		return black
	}
}

// blend mixes overlay into base, alpha in [0,1] weighting the overlay.
func blend(base, overlay color.RGBA, alpha float64) color.RGBA {
	mix := func(b, o uint8) uint8 {
		return uint8(float64(b)*(1-alpha) + float64(o)*alpha + 0.5)
	}
	return color.RGBA{
		R: mix(base.R, overlay.R),
		G: mix(base.G, overlay.G),
		B: mix(base.B, overlay.B),
		A: 255,
	}
}
