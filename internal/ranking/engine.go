package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/example/fashion-police/internal/inference"
)

// similarityTemperature scales cosine similarities before the softmax.
// Smaller values sharpen the distribution; 0.07 matches the logit
// scale the embedding model was trained with.
const similarityTemperature = 0.07

// StylePrediction is one ranked vocabulary entry. Score is the
// user-facing softmax confidence; Similarity is the raw cosine value
// kept as a diagnostic.
type StylePrediction struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Similarity  float64 `json:"similarity"`
}

// Engine ranks an image against the fixed style vocabulary using a
// shared image/text embedding backend. Text embeddings are computed
// once and cached since the vocabulary is static.
type Engine struct {
	backend inference.Embedder
	vocab   Vocabulary
	logger  *zap.Logger

	mu       sync.Mutex
	textEmbs [][]float64
}

// NewEngine constructs a ranking engine over the given vocabulary.
func NewEngine(backend inference.Embedder, vocab Vocabulary, logger *zap.Logger) *Engine {
	return &Engine{
		backend: backend,
		vocab:   vocab,
		logger:  logger.Named("ranking"),
	}
}

// Rank embeds the image, compares it against every vocabulary entry and
// returns the full vocabulary ranked by descending confidence. Scores
// are softmax-normalized and sum to 1; ties keep vocabulary order.
func (e *Engine) Rank(ctx context.Context, imageBytes []byte) ([]StylePrediction, error) {
	textEmbs, err := e.textEmbeddings(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := e.backend.EmbedImage(ctx, imageBytes)
	if err != nil {
		return nil, err
	}
	imgEmb, err := normalize(toFloat64(raw))
	if err != nil {
		return nil, inference.NewInferenceError("image embedding", err)
	}

	sims := make([]float64, len(e.vocab))
	for i, textEmb := range textEmbs {
		if len(textEmb) != len(imgEmb) {
			return nil, inference.NewInferenceError("ranking",
				fmt.Errorf("embedding dimension mismatch: image %d, text %d", len(imgEmb), len(textEmb)))
		}
		sims[i] = dot(imgEmb, textEmb)
	}

	scores := softmax(sims, similarityTemperature)

	predictions := make([]StylePrediction, len(e.vocab))
	for i, style := range e.vocab {
		predictions[i] = StylePrediction{
			Name:        style.Name,
			Description: style.Description,
			Score:       scores[i],
			Similarity:  sims[i],
		}
	}
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})

	return predictions, nil
}

// textEmbeddings lazily embeds the vocabulary descriptions. The guard
// is a plain mutex check-then-init so a failed attempt is retried on
// the next call and concurrent first callers stay safe.
func (e *Engine) textEmbeddings(ctx context.Context) ([][]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.textEmbs != nil {
		return e.textEmbs, nil
	}

	raw, err := e.backend.EmbedTexts(ctx, e.vocab.Descriptions())
	if err != nil {
		return nil, err
	}
	if len(raw) != len(e.vocab) {
		return nil, inference.NewInferenceError("text embedding",
			fmt.Errorf("expected %d embeddings, got %d", len(e.vocab), len(raw)))
	}

	embs := make([][]float64, len(raw))
	for i, r := range raw {
		emb, err := normalize(toFloat64(r))
		if err != nil {
			return nil, inference.NewInferenceError("text embedding", err)
		}
		embs[i] = emb
	}

	e.textEmbs = embs
	e.logger.Info("style vocabulary embedded", zap.Int("styles", len(embs)))
	return e.textEmbs, nil
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func normalize(v []float64) ([]float64, error) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, fmt.Errorf("embedding has invalid norm")
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// softmax over sims/temperature, shifted by the max for stability.
func softmax(sims []float64, temperature float64) []float64 {
	maxSim := math.Inf(-1)
	for _, s := range sims {
		if s > maxSim {
			maxSim = s
		}
	}

	exps := make([]float64, len(sims))
	var total float64
	for i, s := range sims {
		exps[i] = math.Exp((s - maxSim) / temperature)
		total += exps[i]
	}
	for i := range exps {
		exps[i] /= total
	}
	return exps
}
