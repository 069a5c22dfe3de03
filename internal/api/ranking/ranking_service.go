package ranking

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/wanderio/go-smart-destinations/app/observability/metrics"
	"github.com/wanderio/go-smart-destinations/internal/api/personality"
	"github.com/wanderio/go-smart-destinations/internal/api/scoring"
	"github.com/wanderio/go-smart-destinations/internal/types"
)

const (
	rankingTemperature    = 0.5
	refinementTemperature = 0.3
)

var _ Service = (*ServiceImpl)(nil)

// CompletionClient is the narrow contract against the generative text model.
type CompletionClient interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// Service defines the recommendation core exposed to the service layer.
type Service interface {
	// RankDestinations returns the candidates ranked by blended score.
	// Best-effort: model transport or content failures degrade to an empty
	// slice, never an error.
	RankDestinations(ctx context.Context, prefs types.UserPreferences, candidates []types.DestinationCandidate) []types.RankedDestination

	// InterpretRefinement turns a free-text instruction into a normalized
	// weight vector, or fails loudly when the model output is unusable.
	InterpretRefinement(ctx context.Context, instruction string) (types.WeightVector, error)

	// RescoreAll recomputes final scores for a previously ranked list under
	// new weights. Pure, no model call, input untouched.
	RescoreAll(prior []types.RankedDestination, weights types.WeightVector) []types.RankedDestination
}

type ServiceImpl struct {
	logger   *slog.Logger
	aiClient CompletionClient
}

func NewServiceImpl(aiClient CompletionClient, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
	}
}

// rankedEntry mirrors one element of the model's "ranked" array. AIScore is
// decoded loosely so a non-numeric value degrades to the default instead of
// failing the whole response.
type rankedEntry struct {
	Name    string `json:"name"`
	Reason  string `json:"reason"`
	AIScore any    `json:"ai_score"`
}

func (s *ServiceImpl) RankDestinations(ctx context.Context, prefs types.UserPreferences, candidates []types.DestinationCandidate) []types.RankedDestination {
	ctx, span := otel.Tracer("RankingService").Start(ctx, "RankDestinations", trace.WithAttributes(
		attribute.Int("candidates.count", len(candidates)),
		attribute.String("season", string(prefs.Season)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "RankDestinations"))

	if len(candidates) == 0 {
		span.SetStatus(codes.Ok, "No candidates, skipping model call")
		return []types.RankedDestination{}
	}

	profile := personality.Detect(prefs.SelectedTags, prefs.Budget, prefs.Companion)
	weights := profile.WeightAdjustments
	span.SetAttributes(attribute.String("personality.type", string(profile.Type)))

	projections := make([]candidateProjection, 0, len(candidates))
	for _, c := range candidates {
		projections = append(projections, candidateProjection{
			Name:            c.Name,
			PopularityScore: c.PopularityScore,
			TripTags:        c.TripTags,
		})
	}

	prompt := getRankingPrompt(profile, prefs, projections)
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	m := metrics.Get()
	m.RankingRequestsTotal.Add(ctx, 1)

	start := time.Now()
	raw, err := s.aiClient.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](rankingTemperature),
	})
	m.ModelCallDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		// Fail-soft: ranking is best-effort AI augmentation, so the caller
		// gets zero recommendations instead of an error.
		l.WarnContext(ctx, "Model call failed, degrading to empty ranking", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		m.RankingFallbacksTotal.Add(ctx, 1)
		return []types.RankedDestination{}
	}

	var parsed struct {
		Ranked []rankedEntry `json:"ranked"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		l.WarnContext(ctx, "Unparseable ranking response, degrading to empty ranking",
			slog.Any("error", err), slog.Int("response_length", len(raw)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unparseable model output")
		m.RankingFallbacksTotal.Add(ctx, 1)
		return []types.RankedDestination{}
	}

	byName := make(map[string]types.DestinationCandidate, len(candidates))
	for _, c := range candidates {
		byName[c.Name] = c
	}

	results := make([]types.RankedDestination, 0, len(parsed.Ranked))
	for _, entry := range parsed.Ranked {
		// Exact-name join. Hallucinated names are dropped here; candidates
		// the model skipped simply never show up.
		candidate, ok := byName[entry.Name]
		if !ok {
			l.DebugContext(ctx, "Dropping unknown destination from model output", slog.String("name", entry.Name))
			continue
		}

		tagScore := scoring.TagMatchScore(prefs.SelectedTags, candidate.TripTags)
		aiScore := asScore(entry.AIScore)

		results = append(results, types.RankedDestination{
			Name:            candidate.Name,
			Country:         candidate.Country,
			Region:          candidate.Region,
			TripTags:        candidate.TripTags,
			PopularityScore: candidate.PopularityScore,
			AIScore:         aiScore,
			TagScore:        tagScore,
			FinalScore:      scoring.FinalScore(tagScore, candidate.PopularityScore, aiScore, weights, 0),
			Reason:          entry.Reason,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	span.SetAttributes(attribute.Int("results.count", len(results)))
	span.SetStatus(codes.Ok, "Destinations ranked")
	return results
}
