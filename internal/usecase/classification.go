package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/fashion-police/internal/logging"
	"github.com/example/fashion-police/internal/pipeline"
	"github.com/example/fashion-police/internal/ranking"
	"github.com/example/fashion-police/internal/repository"
	"github.com/example/fashion-police/internal/vision"
)

// ValidationError marks client input that references an unknown style
// or record. Nothing is mutated when one is returned.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PredictionStore is the persistence contract the use cases need.
type PredictionStore interface {
	SavePrediction(ctx context.Context, record *repository.PredictionRecord) error
	FindByRecordID(ctx context.Context, recordID string) (*repository.PredictionRecord, error)
	ApplyCorrection(ctx context.Context, recordID, style string) (*repository.PredictionRecord, error)
	AggregateStats(ctx context.Context) (*repository.StatsAggregation, error)
}

// OutfitPipeline is the classification contract; *pipeline.OutfitClassifier
// satisfies it.
type OutfitPipeline interface {
	Classify(ctx context.Context, capture *vision.CapturedImage) (*pipeline.Result, error)
}

// ArtifactWriter persists the anonymized overlay and returns its path.
type ArtifactWriter interface {
	SaveAnonymizedOverlay(recordID string, overlay image.Image) (string, error)
}

// ClassificationUseCase orchestrates the pipeline, caching and
// persistence for the classification flow. Persistence failures are
// logged and never invalidate an already-computed classification.
type ClassificationUseCase struct {
	store          PredictionStore
	cache          Cache
	classifier     OutfitPipeline
	artifacts      ArtifactWriter
	vocab          ranking.Vocabulary
	logger         *zap.Logger
	cacheTTL       time.Duration
	retryAttempts  int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

type cachedPrediction struct {
	RecordID      string    `json:"record_id"`
	SessionID     string    `json:"session_id"`
	Fingerprint   string    `json:"fingerprint"`
	TopStyle      string    `json:"top_style"`
	TopConfidence float64   `json:"top_confidence"`
	Predictions   string    `json:"predictions"`
	OverlayPath   string    `json:"overlay_path"`
	PredictedAt   time.Time `json:"predicted_at"`
}

// NewClassificationUseCase constructs a new use case instance.
func NewClassificationUseCase(store PredictionStore, cache Cache, classifier OutfitPipeline, artifacts ArtifactWriter, vocab ranking.Vocabulary, cacheTTL time.Duration, logger *zap.Logger) *ClassificationUseCase {
	return &ClassificationUseCase{
		store:          store,
		cache:          cache,
		classifier:     classifier,
		artifacts:      artifacts,
		vocab:          vocab,
		logger:         logger.Named("classification_usecase"),
		cacheTTL:       cacheTTL,
		retryAttempts:  3,
		initialBackoff: 50 * time.Millisecond,
		maxBackoff:     time.Second,
	}
}

// Classify runs the outfit pipeline for one capture, persists the
// anonymized overlay plus the prediction record, and returns the
// record id that joins later feedback. Each call gets a fresh record
// id, unique for the process lifetime.
func (uc *ClassificationUseCase) Classify(ctx context.Context, sessionID string, capture *vision.CapturedImage) (string, *pipeline.Result, error) {
	recordID := uuid.NewString()
	opLogger := logging.WithOperation(uc.logger, "usecase.classify", recordID)

	cacheKey := predictionCacheKey(recordID)
	if err := uc.withRedisRetry(ctx, recordID, "cache.set.processing", func() error {
		return uc.cache.Set(ctx, cacheKey, "processing", time.Minute)
	}); err != nil {
		// The cache is an accelerator, not the source of truth.
		opLogger.Warn("failed to set processing flag", zap.Error(err))
	}

	result, err := uc.classifier.Classify(ctx, capture)
	if err != nil {
		opLogger.Error("pipeline failed", zap.Error(err))
		return "", nil, err
	}

	overlayPath, err := uc.artifacts.SaveAnonymizedOverlay(recordID, result.AnonymizedOverlay)
	if err != nil {
		// Reported, not fatal: the live session keeps its result.
		opLogger.Error("failed to persist anonymized overlay",
			zap.Error(&repository.PersistenceError{Op: "save_overlay", Err: err}))
		overlayPath = ""
	}

	predictionsJSON, err := json.Marshal(result.RankedStyles)
	if err != nil {
		opLogger.Error("failed to serialize predictions", zap.Error(err))
		return "", nil, err
	}

	top := result.Top()
	record := &repository.PredictionRecord{
		RecordID:      recordID,
		SessionID:     sessionID,
		Fingerprint:   capture.Fingerprint,
		TopStyle:      top.Name,
		TopConfidence: top.Score,
		Predictions:   string(predictionsJSON),
		OverlayPath:   overlayPath,
		PredictedAt:   time.Now().UTC(),
	}
	if err := uc.store.SavePrediction(ctx, record); err != nil {
		opLogger.Error("failed to persist prediction record", zap.Error(err))
	}

	cached := cachedPrediction{
		RecordID:      record.RecordID,
		SessionID:     record.SessionID,
		Fingerprint:   record.Fingerprint,
		TopStyle:      record.TopStyle,
		TopConfidence: record.TopConfidence,
		Predictions:   record.Predictions,
		OverlayPath:   record.OverlayPath,
		PredictedAt:   record.PredictedAt,
	}
	if serialized, err := json.Marshal(cached); err == nil {
		if err := uc.withRedisRetry(ctx, recordID, "cache.set.result", func() error {
			return uc.cache.Set(ctx, cacheKey, string(serialized), uc.cacheTTL)
		}); err != nil {
			opLogger.Warn("failed to cache prediction", zap.Error(err))
		}
	}

	return recordID, result, nil
}

// GetResult retrieves a cached prediction or loads it from the store.
func (uc *ClassificationUseCase) GetResult(ctx context.Context, recordID string) (*repository.PredictionRecord, error) {
	cacheKey := predictionCacheKey(recordID)
	if cached, err := uc.withRedisGet(ctx, recordID, "cache.get.result", cacheKey); err == nil {
		var payload cachedPrediction
		if err := json.Unmarshal([]byte(cached), &payload); err != nil {
			logging.WithOperation(uc.logger, "usecase.get_result", recordID).Warn("failed to decode cached prediction", zap.Error(err))
		} else if payload.RecordID == recordID {
			return &repository.PredictionRecord{
				RecordID:      payload.RecordID,
				SessionID:     payload.SessionID,
				Fingerprint:   payload.Fingerprint,
				TopStyle:      payload.TopStyle,
				TopConfidence: payload.TopConfidence,
				Predictions:   payload.Predictions,
				OverlayPath:   payload.OverlayPath,
				PredictedAt:   payload.PredictedAt,
			}, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logging.WithOperation(uc.logger, "usecase.get_result", recordID).Warn("failed to read cache", zap.Error(err))
	}

	return uc.store.FindByRecordID(ctx, recordID)
}

// SubmitCorrection validates the chosen style and records the feedback.
// Unknown styles and unknown record ids fail with a ValidationError
// and leave the store unchanged.
func (uc *ClassificationUseCase) SubmitCorrection(ctx context.Context, recordID, style string) error {
	if !uc.vocab.Contains(style) {
		return &ValidationError{Field: "chosen_style", Err: fmt.Errorf("%q is not in the style vocabulary", style)}
	}

	record, err := uc.store.ApplyCorrection(ctx, recordID, style)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return &ValidationError{Field: "record_id", Err: err}
		}
		return err
	}

	// The cached copy predates the correction; drop it.
	if err := uc.cache.Del(ctx, predictionCacheKey(recordID)); err != nil && !errors.Is(err, redis.Nil) {
		logging.WithOperation(uc.logger, "usecase.submit_correction", recordID).Warn("failed to invalidate cache", zap.Error(err))
	}

	logging.WithOperation(uc.logger, "usecase.submit_correction", recordID).Info("correction recorded",
		zap.String("chosen_style", style),
		zap.String("predicted", record.TopStyle),
		zap.Boolp("is_correct", record.IsCorrect))
	return nil
}

func predictionCacheKey(recordID string) string {
	return fmt.Sprintf("prediction:%s", recordID)
}

func (uc *ClassificationUseCase) withRedisRetry(ctx context.Context, recordID, operation string, fn func() error) error {
	if uc.retryAttempts <= 1 {
		err := fn()
		return logging.NewOperationError(operation, recordID, err)
	}

	backoff := uc.initialBackoff
	opLogger := logging.WithOperation(uc.logger, operation, recordID)
	var err error
	for attempt := 0; attempt < uc.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return logging.NewOperationError(operation, recordID, ctx.Err())
			case <-time.After(backoff):
			}
			if next := backoff * 2; next <= uc.maxBackoff {
				backoff = next
			}
		}

		err = fn()
		if err == nil {
			if attempt > 0 {
				opLogger.Info("redis operation succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return nil
		}

		if !isTransientError(err) || attempt == uc.retryAttempts-1 {
			opLogger.Error("redis operation failed", zap.Error(err), zap.Int("attempt", attempt+1))
			return logging.NewOperationError(operation, recordID, err)
		}

		opLogger.Warn("transient redis error", zap.Error(err), zap.Int("attempt", attempt+1))
	}
	return logging.NewOperationError(operation, recordID, err)
}

func (uc *ClassificationUseCase) withRedisGet(ctx context.Context, recordID, operation, cacheKey string) (string, error) {
	var result string
	err := uc.withRedisRetry(ctx, recordID, operation, func() error {
		value, err := uc.cache.Get(ctx, cacheKey)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var temporary interface{ Temporary() bool }
	if errors.As(err, &temporary) && temporary.Temporary() {
		return true
	}

	return false
}
