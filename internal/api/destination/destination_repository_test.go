package destination

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderio/go-smart-destinations/internal/types"
)

func setupRepositoryTest(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := &RepositoryImpl{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		pgpool: mockPool,
	}
	return repo, mockPool
}

func destinationRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "country", "region",
		"trip_tags", "best_seasons", "budget_levels", "companion_tags",
		"popularity_score",
	})
}

func TestRepositoryImpl_FindCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("binds every non-empty filter field", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)

		coorgID := uuid.New()
		mockPool.ExpectQuery(`SELECT[\s\S]+FROM destinations`).
			WithArgs([]string{"nature", "adventure"}, "couple", "medium", "summer").
			WillReturnRows(destinationRows().AddRow(
				coorgID, "Coorg", "India", "Karnataka",
				[]string{"nature", "adventure"}, []string{"summer", "autumn"},
				[]string{"low", "medium"}, []string{"couple", "solo"},
				8.2,
			))

		candidates, err := repo.FindCandidates(ctx, types.CandidateFilter{
			TripTags:  []string{"nature", "adventure"},
			Companion: "couple",
			Budget:    "medium",
			Season:    types.SeasonSummer,
		})
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, coorgID, candidates[0].ID)
		assert.Equal(t, "Coorg", candidates[0].Name)
		assert.Equal(t, 8.2, candidates[0].PopularityScore)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("empty filter selects everything", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)

		mockPool.ExpectQuery(`SELECT[\s\S]+FROM destinations[\s\S]+ORDER BY popularity_score DESC`).
			WillReturnRows(destinationRows().
				AddRow(uuid.New(), "Venice", "Italy", "Veneto",
					[]string{"romantic"}, []string{"spring"}, []string{"high"}, []string{"couple"}, 9.4).
				AddRow(uuid.New(), "Hampi", "India", "Karnataka",
					[]string{"historical"}, []string{"winter"}, []string{"low"}, []string{"solo"}, 7.5))

		candidates, err := repo.FindCandidates(ctx, types.CandidateFilter{})
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, "Venice", candidates[0].Name)
		assert.Equal(t, "Hampi", candidates[1].Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no matches yields an empty slice", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)

		mockPool.ExpectQuery(`SELECT[\s\S]+FROM destinations`).
			WithArgs("friends").
			WillReturnRows(destinationRows())

		candidates, err := repo.FindCandidates(ctx, types.CandidateFilter{Companion: "friends"})
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("wraps query errors", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)

		mockPool.ExpectQuery(`SELECT[\s\S]+FROM destinations`).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.FindCandidates(ctx, types.CandidateFilter{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query destinations")
	})

	t.Run("surfaces scan errors", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)

		mockPool.ExpectQuery(`SELECT[\s\S]+FROM destinations`).
			WillReturnRows(destinationRows().
				AddRow(uuid.New(), "Coorg", "India", "Karnataka",
					[]string{"nature"}, []string{"summer"}, []string{"low"}, []string{"solo"}, 8.2).
				RowError(0, errors.New("row corrupted")))

		_, err := repo.FindCandidates(ctx, types.CandidateFilter{})
		require.Error(t, err)
	})
}

func TestRepositoryImpl_GetAllCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the whole store popularity ordered", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)

		mockPool.ExpectQuery(`SELECT[\s\S]+FROM destinations[\s\S]+ORDER BY popularity_score DESC`).
			WillReturnRows(destinationRows().
				AddRow(uuid.New(), "Venice", "Italy", "Veneto",
					[]string{"romantic"}, []string{"spring"}, []string{"high"}, []string{"couple"}, 9.4).
				AddRow(uuid.New(), "Coorg", "India", "Karnataka",
					[]string{"nature"}, []string{"summer"}, []string{"low"}, []string{"solo"}, 8.2))

		candidates, err := repo.GetAllCandidates(ctx)
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, "Venice", candidates[0].Name)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("wraps query errors", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)

		mockPool.ExpectQuery(`SELECT[\s\S]+FROM destinations`).
			WillReturnError(errors.New("pool closed"))

		_, err := repo.GetAllCandidates(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list destinations")
	})
}
