package ranking

import (
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/wanderio/go-smart-destinations/app/observability/metrics"
	"github.com/wanderio/go-smart-destinations/internal/api/scoring"
	"github.com/wanderio/go-smart-destinations/internal/types"
)

const (
	defaultRefinedWeight = 0.3
	maxCrowdPenalty      = 0.5
)

// refinementResponse mirrors the JSON object the model is asked to produce.
// Pointer fields distinguish "absent" from zero so defaults apply cleanly.
type refinementResponse struct {
	TagWeight        *float64 `json:"tag_weight"`
	PopularityWeight *float64 `json:"popularity_weight"`
	AIWeight         *float64 `json:"ai_weight"`
	CrowdPenalty     *float64 `json:"crowd_penalty"`
}

func (s *ServiceImpl) InterpretRefinement(ctx context.Context, instruction string) (types.WeightVector, error) {
	ctx, span := otel.Tracer("RankingService").Start(ctx, "InterpretRefinement", trace.WithAttributes(
		attribute.Int("instruction.length", len(instruction)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "InterpretRefinement"))

	raw, err := s.aiClient.GenerateContent(ctx, getRefinementPrompt(instruction), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](refinementTemperature),
	})
	if err != nil {
		// Fail-loud: there is no safe silent default for "what weights
		// should apply", the caller decides what to show the user.
		l.ErrorContext(ctx, "Model call failed for refinement", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		metrics.Get().RefinementFailuresTotal.Add(ctx, 1)
		return types.WeightVector{}, &ModelTransportError{Err: err}
	}

	var parsed refinementResponse
	if err := decodeModelJSON(raw, &parsed); err != nil {
		l.ErrorContext(ctx, "Unparseable refinement response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unparseable model output")
		metrics.Get().RefinementFailuresTotal.Add(ctx, 1)
		return types.WeightVector{}, err
	}

	weights := normalizeRefinedWeights(parsed)
	span.SetAttributes(
		attribute.Float64("weights.tag", weights.Tag),
		attribute.Float64("weights.popularity", weights.Popularity),
		attribute.Float64("weights.ai", weights.AI),
		attribute.Float64("weights.crowd_penalty", weights.CrowdPenalty),
	)
	span.SetStatus(codes.Ok, "Refinement interpreted")
	return weights, nil
}

// normalizeRefinedWeights clamps each weight into range, applies defaults
// for missing fields and renormalizes the three primary weights to sum to 1.
// A degenerate all-zero response falls back to equal thirds rather than
// dividing by zero.
func normalizeRefinedWeights(parsed refinementResponse) types.WeightVector {
	w := types.WeightVector{
		Tag:          clamp(valueOr(parsed.TagWeight, defaultRefinedWeight), 0, 1),
		Popularity:   clamp(valueOr(parsed.PopularityWeight, defaultRefinedWeight), 0, 1),
		AI:           clamp(valueOr(parsed.AIWeight, defaultRefinedWeight), 0, 1),
		CrowdPenalty: clamp(valueOr(parsed.CrowdPenalty, 0), 0, maxCrowdPenalty),
	}

	total := w.Tag + w.Popularity + w.AI
	if total == 0 {
		w.Tag, w.Popularity, w.AI = 1.0/3, 1.0/3, 1.0/3
		return w
	}

	w.Tag /= total
	w.Popularity /= total
	w.AI /= total
	return w
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func (s *ServiceImpl) RescoreAll(prior []types.RankedDestination, weights types.WeightVector) []types.RankedDestination {
	refined := make([]types.RankedDestination, len(prior))
	copy(refined, prior)

	for i := range refined {
		// Crowd factor reuses the entry's own popularity score; the data
		// model carries no independent crowding signal.
		refined[i].FinalScore = scoring.FinalScore(
			refined[i].TagScore,
			refined[i].PopularityScore,
			refined[i].AIScore,
			weights,
			refined[i].PopularityScore,
		)
	}

	sort.SliceStable(refined, func(i, j int) bool {
		return refined[i].FinalScore > refined[j].FinalScore
	})
	return refined
}
