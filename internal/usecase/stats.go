package usecase

import (
	"context"

	"github.com/example/fashion-police/internal/repository"
)

// StatsSummary represents aggregated prediction and feedback insights.
type StatsSummary struct {
	TotalPredictions int64                   `json:"total_predictions"`
	TotalFeedback    int64                   `json:"total_feedback"`
	FeedbackRate     float64                 `json:"feedback_rate"`
	TopPredictions   []repository.StyleCount `json:"top_predictions"`
	Corrections      []repository.StyleCount `json:"corrections"`
}

// GetStatsSummary aggregates statistics from persisted records.
func (uc *ClassificationUseCase) GetStatsSummary(ctx context.Context) (*StatsSummary, error) {
	aggregation, err := uc.store.AggregateStats(ctx)
	if err != nil {
		return nil, err
	}

	summary := &StatsSummary{
		TotalPredictions: aggregation.TotalPredictions,
		TotalFeedback:    aggregation.TotalFeedback,
		TopPredictions:   aggregation.TopPredictions,
		Corrections:      aggregation.Corrections,
	}

	if aggregation.TotalPredictions > 0 {
		summary.FeedbackRate = float64(aggregation.TotalFeedback) / float64(aggregation.TotalPredictions)
	}

	return summary, nil
}
