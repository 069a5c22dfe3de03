package destination

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderio/go-smart-destinations/app/observability/metrics"
	"github.com/wanderio/go-smart-destinations/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the candidate store contract. Storage and indexing are the
// store's problem; the core only filters and reads.
type Repository interface {
	FindCandidates(ctx context.Context, filter types.CandidateFilter) ([]types.DestinationCandidate, error)
	GetAllCandidates(ctx context.Context) ([]types.DestinationCandidate, error)
}

// queryer is the slice of the pgx pool the repository actually uses.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool queryer
}

func NewRepositoryImpl(pgpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const candidateColumns = `
        id,
        name,
        country,
        region,
        trip_tags,
        best_seasons,
        budget_levels,
        companion_tags,
        popularity_score`

func (r *RepositoryImpl) FindCandidates(ctx context.Context, filter types.CandidateFilter) ([]types.DestinationCandidate, error) {
	ctx, span := otel.Tracer("DestinationRepository").Start(ctx, "FindCandidates", trace.WithAttributes(
		attribute.StringSlice("filter.trip_tags", filter.TripTags),
		attribute.String("filter.companion", filter.Companion),
		attribute.String("filter.budget", filter.Budget),
		attribute.String("filter.season", string(filter.Season)),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "FindCandidates"))

	query := `SELECT` + candidateColumns + `
        FROM destinations
        WHERE 1=1`
	var args []interface{}

	if len(filter.TripTags) > 0 {
		args = append(args, filter.TripTags)
		query += fmt.Sprintf(" AND trip_tags @> $%d", len(args))
	}
	if filter.Companion != "" {
		args = append(args, filter.Companion)
		query += fmt.Sprintf(" AND $%d = ANY(companion_tags)", len(args))
	}
	if filter.Budget != "" {
		args = append(args, filter.Budget)
		query += fmt.Sprintf(" AND $%d = ANY(budget_levels)", len(args))
	}
	if filter.Season != "" {
		args = append(args, string(filter.Season))
		query += fmt.Sprintf(" AND $%d = ANY(best_seasons)", len(args))
	}
	query += " ORDER BY popularity_score DESC"

	l.DebugContext(ctx, "Executing candidate query", slog.String("query", query), slog.Any("args", args))

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query destinations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to query destinations: %w", err)
	}
	defer rows.Close()

	candidates, err := scanCandidates(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row scan failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("candidates.count", len(candidates)))
	span.SetStatus(codes.Ok, "Candidates retrieved")
	return candidates, nil
}

func (r *RepositoryImpl) GetAllCandidates(ctx context.Context) ([]types.DestinationCandidate, error) {
	ctx, span := otel.Tracer("DestinationRepository").Start(ctx, "GetAllCandidates")
	defer span.End()

	query := `SELECT` + candidateColumns + `
        FROM destinations
        ORDER BY popularity_score DESC`

	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list destinations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	defer rows.Close()

	candidates, err := scanCandidates(rows)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row scan failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Destinations listed")
	return candidates, nil
}

type candidateRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanCandidates(rows candidateRows) ([]types.DestinationCandidate, error) {
	var candidates []types.DestinationCandidate
	for rows.Next() {
		var c types.DestinationCandidate
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Country,
			&c.Region,
			&c.TripTags,
			&c.BestSeasons,
			&c.BudgetLevels,
			&c.CompanionTags,
			&c.PopularityScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan destination row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating destination rows: %w", err)
	}
	return candidates, nil
}
