package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wanderio/go-smart-destinations/internal/types"
)

func TestTagMatchScore(t *testing.T) {
	t.Run("no selected tags returns neutral score", func(t *testing.T) {
		assert.Equal(t, 5.0, TagMatchScore(nil, []string{"nature", "adventure"}))
		assert.Equal(t, 5.0, TagMatchScore([]string{}, nil))
	})

	t.Run("full overlap", func(t *testing.T) {
		score := TagMatchScore([]string{"adventure", "nature"}, []string{"nature", "relaxation", "adventure"})
		assert.Equal(t, 10.0, score)
	})

	t.Run("no overlap", func(t *testing.T) {
		score := TagMatchScore([]string{"adventure", "nature"}, []string{"romantic", "historical", "urban"})
		assert.Equal(t, 0.0, score)
	})

	t.Run("partial overlap rounded to 2 decimals", func(t *testing.T) {
		score := TagMatchScore([]string{"nature", "snow", "urban"}, []string{"nature"})
		assert.Equal(t, 3.33, score)
	})

	t.Run("duplicate destination tags count once", func(t *testing.T) {
		score := TagMatchScore([]string{"nature", "snow"}, []string{"nature", "nature"})
		assert.Equal(t, 5.0, score)
	})

	t.Run("score stays in range", func(t *testing.T) {
		cases := [][2][]string{
			{{"a"}, {"a", "b", "c"}},
			{{"a", "b", "c", "d"}, {"a"}},
			{{"x"}, nil},
		}
		for _, c := range cases {
			score := TagMatchScore(c[0], c[1])
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 10.0)
		}
	})
}

func TestFinalScore(t *testing.T) {
	weights := types.WeightVector{Tag: 0.4, Popularity: 0.3, AI: 0.3}

	t.Run("weighted blend", func(t *testing.T) {
		score := FinalScore(10.0, 8.2, 8.0, weights, 0)
		assert.Equal(t, 8.86, score)
	})

	t.Run("crowd penalty subtracts", func(t *testing.T) {
		penalized := types.WeightVector{Tag: 0.4, Popularity: 0.3, AI: 0.3, CrowdPenalty: 0.5}
		score := FinalScore(10.0, 8.2, 8.0, penalized, 8.2)
		assert.Equal(t, 4.76, score)
	})

	t.Run("zero weights give zero", func(t *testing.T) {
		assert.Equal(t, 0.0, FinalScore(10.0, 10.0, 10.0, types.WeightVector{}, 5.0))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		score := FinalScore(3.33, 7.77, 5.55, weights, 0)
		assert.Equal(t, 5.33, score)
	})
}
