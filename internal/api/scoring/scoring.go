package scoring

import (
	"math"

	"github.com/wanderio/go-smart-destinations/internal/types"
)

// neutralTagScore is returned when the user selected no tags: no information
// means no bias either way.
const neutralTagScore = 5.0

// TagMatchScore scores the overlap between the user's selected tags and a
// destination's tags on a 0-10 scale, rounded to 2 decimals. Duplicate
// destination tags count once; the denominator is the raw selected list.
func TagMatchScore(selectedTags, destinationTags []string) float64 {
	if len(selectedTags) == 0 {
		return neutralTagScore
	}

	destSet := make(map[string]struct{}, len(destinationTags))
	for _, tag := range destinationTags {
		destSet[tag] = struct{}{}
	}

	matched := make(map[string]struct{}, len(selectedTags))
	for _, tag := range selectedTags {
		if _, ok := destSet[tag]; ok {
			matched[tag] = struct{}{}
		}
	}

	ratio := float64(len(matched)) / float64(len(selectedTags))
	return round2(ratio * 10)
}

// FinalScore blends the three signals with the supplied weights and
// subtracts the crowd penalty, rounded to 2 decimals. Callers are
// responsible for passing a normalized weight vector; the blend itself does
// not validate the sum invariant.
func FinalScore(tagScore, popularityScore, aiScore float64, weights types.WeightVector, crowdFactor float64) float64 {
	final := weights.Tag*tagScore +
		weights.Popularity*popularityScore +
		weights.AI*aiScore -
		weights.CrowdPenalty*crowdFactor

	return round2(final)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
