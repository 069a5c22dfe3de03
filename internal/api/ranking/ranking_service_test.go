package ranking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/wanderio/go-smart-destinations/internal/types"
)

// MockCompletionClient is a mock implementation of CompletionClient.
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

func setupRankingServiceTest() (*ServiceImpl, *MockCompletionClient) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockClient := new(MockCompletionClient)
	service := NewServiceImpl(mockClient, logger)
	return service, mockClient
}

func testCandidates() []types.DestinationCandidate {
	return []types.DestinationCandidate{
		{
			Name:            "Coorg",
			Country:         "India",
			Region:          "Karnataka",
			TripTags:        []string{"nature", "relaxation", "adventure"},
			PopularityScore: 8.2,
		},
		{
			Name:            "Venice",
			Country:         "Italy",
			Region:          "Veneto",
			TripTags:        []string{"romantic", "historical", "urban"},
			PopularityScore: 9.4,
		},
	}
}

func TestRankingServiceImpl_RankDestinations(t *testing.T) {
	ctx := context.Background()
	prefs := types.UserPreferences{
		SelectedTags: []string{"adventure", "nature"},
		Companion:    "friends",
		Season:       types.SeasonSummer,
	}

	t.Run("empty candidates skips the model entirely", func(t *testing.T) {
		service, mockClient := setupRankingServiceTest()

		results := service.RankDestinations(ctx, prefs, nil)
		assert.Empty(t, results)
		mockClient.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tag match outweighs popularity for adventure profile", func(t *testing.T) {
		service, mockClient := setupRankingServiceTest()
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"ranked":[
				{"name":"Venice","reason":"Iconic canals","ai_score":3},
				{"name":"Coorg","reason":"Coffee estates and treks","ai_score":8}
			]}`, nil).Once()

		results := service.RankDestinations(ctx, prefs, testCandidates())
		require.Len(t, results, 2)

		// Adventure Junkie weights (0.5/0.2/0.3) amplify Coorg's full tag
		// match over Venice's higher popularity.
		assert.Equal(t, "Coorg", results[0].Name)
		assert.Equal(t, 10.0, results[0].TagScore)
		assert.Equal(t, 9.04, results[0].FinalScore)
		assert.Equal(t, "Venice", results[1].Name)
		assert.Equal(t, 0.0, results[1].TagScore)
		assert.Equal(t, 2.78, results[1].FinalScore)
		mockClient.AssertExpectations(t)
	})

	t.Run("output is non-increasing by final score", func(t *testing.T) {
		service, mockClient := setupRankingServiceTest()
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"ranked":[
				{"name":"Coorg","reason":"a","ai_score":2},
				{"name":"Venice","reason":"b","ai_score":9}
			]}`, nil).Once()

		results := service.RankDestinations(ctx, prefs, testCandidates())
		require.NotEmpty(t, results)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].FinalScore, results[i].FinalScore)
		}
	})

	t.Run("hallucinated and omitted names are silently dropped", func(t *testing.T) {
		service, mockClient := setupRankingServiceTest()
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"ranked":[
				{"name":"Coorg","reason":"real","ai_score":7},
				{"name":"Atlantis","reason":"made up","ai_score":10}
			]}`, nil).Once()

		results := service.RankDestinations(ctx, prefs, testCandidates())
		require.Len(t, results, 1)
		assert.Equal(t, "Coorg", results[0].Name)
	})

	t.Run("name matching is exact, no casefolding or trimming", func(t *testing.T) {
		service, mockClient := setupRankingServiceTest()
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"ranked":[
				{"name":"coorg","reason":"wrong case","ai_score":7},
				{"name":" Venice","reason":"stray space","ai_score":7}
			]}`, nil).Once()

		results := service.RankDestinations(ctx, prefs, testCandidates())
		assert.Empty(t, results)
	})

	t.Run("model transport failure degrades to empty result", func(t *testing.T) {
		service, mockClient := setupRankingServiceTest()
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("deadline exceeded")).Once()

		results := service.RankDestinations(ctx, prefs, testCandidates())
		assert.Empty(t, results)
		assert.NotNil(t, results)
	})

	t.Run("unparseable response degrades to empty result", func(t *testing.T) {
		service, mockClient := setupRankingServiceTest()
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("I'd love to help you plan a trip!", nil).Once()

		results := service.RankDestinations(ctx, prefs, testCandidates())
		assert.Empty(t, results)
	})

	t.Run("prose wrapped JSON is still usable", func(t *testing.T) {
		service, mockClient := setupRankingServiceTest()
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return("Sure! Here's the JSON: {\"ranked\":[{\"name\":\"Coorg\",\"reason\":\"ok\",\"ai_score\":6}]} Hope that helps!", nil).Once()

		results := service.RankDestinations(ctx, prefs, testCandidates())
		require.Len(t, results, 1)
		assert.Equal(t, 6.0, results[0].AIScore)
	})

	t.Run("out of range and missing ai_score are clamped and defaulted", func(t *testing.T) {
		service, mockClient := setupRankingServiceTest()
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"ranked":[
				{"name":"Coorg","reason":"too eager","ai_score":27},
				{"name":"Venice","reason":"no score"}
			]}`, nil).Once()

		results := service.RankDestinations(ctx, prefs, testCandidates())
		require.Len(t, results, 2)
		byName := map[string]types.RankedDestination{}
		for _, r := range results {
			byName[r.Name] = r
		}
		assert.Equal(t, 10.0, byName["Coorg"].AIScore)
		assert.Equal(t, 5.0, byName["Venice"].AIScore)
	})

	t.Run("no selected tags gives every candidate the neutral tag score", func(t *testing.T) {
		service, mockClient := setupRankingServiceTest()
		mockClient.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"ranked":[
				{"name":"Coorg","reason":"a","ai_score":5},
				{"name":"Venice","reason":"b","ai_score":5}
			]}`, nil).Once()

		neutral := types.UserPreferences{Season: types.SeasonWinter}
		results := service.RankDestinations(ctx, neutral, testCandidates())
		require.Len(t, results, 2)
		for _, r := range results {
			assert.Equal(t, 5.0, r.TagScore)
		}
	})
}
