package pipeline

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/example/fashion-police/internal/inference"
	"github.com/example/fashion-police/internal/ranking"
	"github.com/example/fashion-police/internal/segmentation"
	"github.com/example/fashion-police/internal/vision"
)

// Result is one complete classification outcome. RankedStyles is
// always the full vocabulary sorted by descending score.
type Result struct {
	ClassMap          *inference.ClassMap
	DisplayOverlay    image.Image
	AnonymizedOverlay image.Image
	RankedStyles      []ranking.StylePrediction
}

// Top returns the highest-scoring prediction.
func (r *Result) Top() ranking.StylePrediction {
	return r.RankedStyles[0]
}

// OutfitClassifier composes the segmentation service and the style
// ranking engine into one request/response operation. Segmentation
// runs first and short-circuits the more expensive embedding call;
// callers never see a partial result.
type OutfitClassifier struct {
	segmenter *segmentation.Service
	ranker    *ranking.Engine
	logger    *zap.Logger
}

// NewOutfitClassifier wires the two pipeline stages together.
func NewOutfitClassifier(segmenter *segmentation.Service, ranker *ranking.Engine, logger *zap.Logger) *OutfitClassifier {
	return &OutfitClassifier{
		segmenter: segmenter,
		ranker:    ranker,
		logger:    logger.Named("pipeline"),
	}
}

// Classify segments the capture and ranks it against the style
// vocabulary. Ranking deliberately uses the original unmasked image:
// style similarity wants full visual context, not the anonymized crop.
func (p *OutfitClassifier) Classify(ctx context.Context, capture *vision.CapturedImage) (*Result, error) {
	seg, err := p.segmenter.Segment(ctx, capture)
	if err != nil {
		p.logger.Error("segmentation stage failed", zap.Error(err))
		return nil, err
	}

	styles, err := p.ranker.Rank(ctx, capture.Raw)
	if err != nil {
		p.logger.Error("ranking stage failed", zap.Error(err))
		return nil, err
	}

	return &Result{
		ClassMap:          seg.ClassMap,
		DisplayOverlay:    seg.DisplayOverlay,
		AnonymizedOverlay: seg.AnonymizedOverlay,
		RankedStyles:      styles,
	}, nil
}
