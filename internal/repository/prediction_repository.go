package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/fashion-police/internal/logging"
)

// ErrRecordNotFound is returned when a record id does not exist. The
// store is left untouched.
var ErrRecordNotFound = errors.New("prediction record not found")

// PersistenceError marks a store write that failed after retries.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PredictionRecord is one persisted classification plus, once the user
// reacts, their correction. Rows are append-only except for the three
// feedback columns, which are set when feedback arrives.
type PredictionRecord struct {
	ID             uint       `gorm:"primaryKey"`
	RecordID       string     `gorm:"column:record_id;uniqueIndex;size:64"`
	SessionID      string     `gorm:"column:session_id;size:64"`
	Fingerprint    string     `gorm:"column:fingerprint;index;size:64"`
	TopStyle       string     `gorm:"column:top_style;size:64"`
	TopConfidence  float64    `gorm:"column:top_confidence"`
	Predictions    string     `gorm:"column:predictions;type:text"`
	OverlayPath    string     `gorm:"column:overlay_path;size:255"`
	UserCorrection *string    `gorm:"column:user_correction;size:64"`
	IsCorrect      *bool      `gorm:"column:is_correct"`
	PredictedAt    time.Time  `gorm:"column:predicted_at"`
	CorrectedAt    *time.Time `gorm:"column:corrected_at"`
}

// TableName overrides the default table name.
func (PredictionRecord) TableName() string {
	return "prediction_records"
}

// StyleCount is one row of a frequency table.
type StyleCount struct {
	Style string `gorm:"column:style" json:"style"`
	Count int64  `gorm:"column:count" json:"count"`
}

// StatsAggregation is the raw aggregate the statistics use case
// consumes.
type StatsAggregation struct {
	TotalPredictions int64
	TotalFeedback    int64
	TopPredictions   []StyleCount
	Corrections      []StyleCount
}

// PredictionRepository provides persistence APIs for prediction records
// and user feedback.
type PredictionRepository struct {
	db             *gorm.DB
	logger         *zap.Logger
	retryAttempts  int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewPredictionRepository creates a new repository instance.
func NewPredictionRepository(db *gorm.DB, logger *zap.Logger) *PredictionRepository {
	return &PredictionRepository{
		db:             db,
		logger:         logger.Named("prediction_repository"),
		retryAttempts:  3,
		initialBackoff: 50 * time.Millisecond,
		maxBackoff:     time.Second,
	}
}

// AutoMigrate ensures the schema is available.
func (r *PredictionRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&PredictionRecord{})
}

// SavePrediction persists a new classification record.
func (r *PredictionRepository) SavePrediction(ctx context.Context, record *PredictionRecord) error {
	err := r.executeWithRetry(ctx, "repository.save_prediction", record.RecordID, func() error {
		return r.db.WithContext(ctx).Create(record).Error
	})
	if err != nil {
		return &PersistenceError{Op: "save_prediction", Err: err}
	}
	return nil
}

// FindByRecordID retrieves one record by its record id.
func (r *PredictionRepository) FindByRecordID(ctx context.Context, recordID string) (*PredictionRecord, error) {
	var record PredictionRecord
	if err := r.db.WithContext(ctx).First(&record, "record_id = ?", recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, &PersistenceError{Op: "find_by_record_id", Err: err}
	}
	return &record, nil
}

// ApplyCorrection stores the user's chosen style on an existing record
// and stamps the feedback time. An unknown record id returns
// ErrRecordNotFound and changes nothing.
func (r *PredictionRepository) ApplyCorrection(ctx context.Context, recordID, style string) (*PredictionRecord, error) {
	record, err := r.FindByRecordID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	isCorrect := style == record.TopStyle
	record.UserCorrection = &style
	record.IsCorrect = &isCorrect
	record.CorrectedAt = &now

	err = r.executeWithRetry(ctx, "repository.apply_correction", recordID, func() error {
		return r.db.WithContext(ctx).Model(&PredictionRecord{}).
			Where("record_id = ?", recordID).
			Updates(map[string]interface{}{
				"user_correction": style,
				"is_correct":      isCorrect,
				"corrected_at":    now,
			}).Error
	})
	if err != nil {
		return nil, &PersistenceError{Op: "apply_correction", Err: err}
	}
	return record, nil
}

// AggregateStats computes the read-only statistics over all records.
func (r *PredictionRepository) AggregateStats(ctx context.Context) (*StatsAggregation, error) {
	agg := &StatsAggregation{}
	db := r.db.WithContext(ctx).Model(&PredictionRecord{})

	if err := db.Count(&agg.TotalPredictions).Error; err != nil {
		return nil, &PersistenceError{Op: "aggregate_stats", Err: err}
	}
	if err := r.db.WithContext(ctx).Model(&PredictionRecord{}).
		Where("user_correction IS NOT NULL").
		Count(&agg.TotalFeedback).Error; err != nil {
		return nil, &PersistenceError{Op: "aggregate_stats", Err: err}
	}
	if err := r.db.WithContext(ctx).Model(&PredictionRecord{}).
		Select("top_style AS style, COUNT(*) AS count").
		Group("top_style").
		Order("count DESC").
		Scan(&agg.TopPredictions).Error; err != nil {
		return nil, &PersistenceError{Op: "aggregate_stats", Err: err}
	}
	if err := r.db.WithContext(ctx).Model(&PredictionRecord{}).
		Where("user_correction IS NOT NULL").
		Select("user_correction AS style, COUNT(*) AS count").
		Group("user_correction").
		Order("count DESC").
		Scan(&agg.Corrections).Error; err != nil {
		return nil, &PersistenceError{Op: "aggregate_stats", Err: err}
	}
	return agg, nil
}

func (r *PredictionRepository) executeWithRetry(ctx context.Context, operation, recordID string, fn func() error) error {
	backoff := r.initialBackoff
	opLogger := logging.WithOperation(r.logger, operation, recordID)

	var err error
	for attempt := 0; attempt < r.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return logging.NewOperationError(operation, recordID, ctx.Err())
			case <-time.After(backoff):
			}
			if next := backoff * 2; next <= r.maxBackoff {
				backoff = next
			}
		}

		err = fn()
		if err == nil {
			if attempt > 0 {
				opLogger.Info("store operation succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return nil
		}

		if !isTransientError(err) || attempt == r.retryAttempts-1 {
			opLogger.Error("store operation failed", zap.Error(err), zap.Int("attempt", attempt+1))
			return logging.NewOperationError(operation, recordID, err)
		}

		opLogger.Warn("transient store error", zap.Error(err), zap.Int("attempt", attempt+1))
	}
	return logging.NewOperationError(operation, recordID, err)
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
