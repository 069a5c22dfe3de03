package destination

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/wanderio/go-smart-destinations/internal/api/personality"
	"github.com/wanderio/go-smart-destinations/internal/api/ranking"
	"github.com/wanderio/go-smart-destinations/internal/types"
)

const (
	// minSeasonMatches is the threshold under which the season filter is
	// relaxed to keep enough variety in the result set.
	minSeasonMatches = 3

	// maxDiscoverResults caps the non-AI discovery path.
	maxDiscoverResults = 8

	explanationTemperature = 0.7
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the destination discovery and recommendation operations
// exposed to the HTTP layer.
type Service interface {
	FindDestinations(ctx context.Context, req types.FindDestinationsRequest) (*types.FindDestinationsResponse, error)
	FindDestinationsAI(ctx context.Context, req types.FindDestinationsRequest) (*types.FindDestinationsAIResponse, error)
	RefineDestinations(ctx context.Context, req types.RefineDestinationsRequest) (*types.RefineDestinationsResponse, error)
	ExplainDestination(ctx context.Context, req types.ExplainDestinationRequest) (*types.ExplainDestinationResponse, error)
	ListDestinations(ctx context.Context) ([]types.DestinationCandidate, error)
}

type ServiceImpl struct {
	logger          *slog.Logger
	destinationRepo Repository
	rankingService  ranking.Service
	aiClient        ranking.CompletionClient
	cache           *cache.Cache
}

func NewServiceImpl(destinationRepo Repository, rankingService ranking.Service, aiClient ranking.CompletionClient, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:          logger,
		destinationRepo: destinationRepo,
		rankingService:  rankingService,
		aiClient:        aiClient,
		cache:           cache.New(24*time.Hour, 1*time.Hour),
	}
}

func (s *ServiceImpl) FindDestinations(ctx context.Context, req types.FindDestinationsRequest) (*types.FindDestinationsResponse, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "FindDestinations")
	defer span.End()

	season := deriveSeason(req.TravelMonth)
	candidates, err := s.findWithSeasonRelaxation(ctx, req, season)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Candidate query failed")
		return nil, err
	}

	if len(candidates) > maxDiscoverResults {
		candidates = candidates[:maxDiscoverResults]
	}

	summaries := make([]types.DestinationSummary, 0, len(candidates))
	for _, c := range candidates {
		summaries = append(summaries, types.DestinationSummary{
			ID:              c.ID,
			Name:            c.Name,
			Country:         c.Country,
			Region:          c.Region,
			TripTags:        c.TripTags,
			PopularityScore: c.PopularityScore,
		})
	}

	span.SetAttributes(attribute.Int("destinations.count", len(summaries)))
	span.SetStatus(codes.Ok, "Destinations found")
	return &types.FindDestinationsResponse{
		Season:       season,
		Count:        len(summaries),
		Destinations: summaries,
	}, nil
}

func (s *ServiceImpl) FindDestinationsAI(ctx context.Context, req types.FindDestinationsRequest) (*types.FindDestinationsAIResponse, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "FindDestinationsAI")
	defer span.End()

	season := deriveSeason(req.TravelMonth)
	profile := personality.Detect(req.TripTags, req.Budget, req.Companion)
	span.SetAttributes(attribute.String("personality.type", string(profile.Type)))

	candidates, err := s.findWithSeasonRelaxation(ctx, req, season)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Candidate query failed")
		return nil, err
	}

	prefs := types.UserPreferences{
		SelectedTags: req.TripTags,
		Companion:    req.Companion,
		Budget:       req.Budget,
		Season:       season,
	}
	ranked := s.rankingService.RankDestinations(ctx, prefs, candidates)

	span.SetAttributes(attribute.Int("destinations.count", len(ranked)))
	span.SetStatus(codes.Ok, "Destinations ranked")
	return &types.FindDestinationsAIResponse{
		Season:       season,
		Personality:  profile,
		Count:        len(ranked),
		Destinations: ranked,
	}, nil
}

func (s *ServiceImpl) RefineDestinations(ctx context.Context, req types.RefineDestinationsRequest) (*types.RefineDestinationsResponse, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "RefineDestinations", trace.WithAttributes(
		attribute.Int("previous_results.count", len(req.PreviousResults)),
	))
	defer span.End()

	weights, err := s.rankingService.InterpretRefinement(ctx, req.Instruction)
	if err != nil {
		s.logger.ErrorContext(ctx, "Refinement interpretation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Refinement failed")
		return nil, fmt.Errorf("failed to interpret refinement instruction: %w", err)
	}

	refined := s.rankingService.RescoreAll(req.PreviousResults, weights)

	span.SetStatus(codes.Ok, "Destinations refined")
	return &types.RefineDestinationsResponse{
		Instruction:        req.Instruction,
		AppliedAdjustments: weights,
		Destinations:       refined,
	}, nil
}

func (s *ServiceImpl) ExplainDestination(ctx context.Context, req types.ExplainDestinationRequest) (*types.ExplainDestinationResponse, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "ExplainDestination", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.String("personality", req.Personality),
	))
	defer span.End()

	cacheKey := fmt.Sprintf("explain:%s:%s", req.Destination, req.Personality)
	if cached, found := s.cache.Get(cacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "Explanation served from cache")
		return &types.ExplainDestinationResponse{
			Destination: req.Destination,
			Personality: req.Personality,
			Cached:      true,
			Explanation: cached.(string),
		}, nil
	}

	prompt := ranking.GetExplanationPrompt(req.Destination, req.Personality)
	explanation, err := s.aiClient.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](explanationTemperature),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate explanation", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Explanation generation failed")
		return nil, fmt.Errorf("failed to generate explanation: %w", err)
	}

	s.cache.Set(cacheKey, explanation, cache.DefaultExpiration)

	span.SetStatus(codes.Ok, "Explanation generated")
	return &types.ExplainDestinationResponse{
		Destination: req.Destination,
		Personality: req.Personality,
		Cached:      false,
		Explanation: explanation,
	}, nil
}

func (s *ServiceImpl) ListDestinations(ctx context.Context) ([]types.DestinationCandidate, error) {
	candidates, err := s.destinationRepo.GetAllCandidates(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list destinations", slog.Any("error", err))
		return nil, err
	}
	return candidates, nil
}

// findWithSeasonRelaxation queries the store with the full filter first and
// drops the season constraint when too few destinations match, so a strict
// season never starves the result set.
func (s *ServiceImpl) findWithSeasonRelaxation(ctx context.Context, req types.FindDestinationsRequest, season types.Season) ([]types.DestinationCandidate, error) {
	filter := types.CandidateFilter{
		TripTags:  req.TripTags,
		Companion: req.Companion,
		Budget:    req.Budget,
		Season:    season,
	}

	candidates, err := s.destinationRepo.FindCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(candidates) >= minSeasonMatches || filter.Season == "" {
		return candidates, nil
	}

	s.logger.DebugContext(ctx, "Relaxing season filter",
		slog.String("season", string(season)), slog.Int("strict_matches", len(candidates)))
	filter.Season = ""
	return s.destinationRepo.FindCandidates(ctx, filter)
}

// deriveSeason maps a travel month to a season, falling back to the current
// UTC month when the request does not carry one.
func deriveSeason(travelMonth int) types.Season {
	month := travelMonth
	if month < 1 || month > 12 {
		month = int(time.Now().UTC().Month())
	}

	switch month {
	case 12, 1, 2:
		return types.SeasonWinter
	case 3, 4, 5:
		return types.SeasonSpring
	case 6, 7, 8:
		return types.SeasonSummer
	default:
		return types.SeasonAutumn
	}
}
