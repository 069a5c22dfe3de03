package personality

import (
	"slices"

	"github.com/wanderio/go-smart-destinations/internal/types"
)

// defaultWeights maps each archetype to its scoring weight vector. Built
// once at init, always copied by value.
var defaultWeights = map[types.PersonalityType]types.WeightVector{
	types.PersonalityLuxuryTraveler:   {Tag: 0.3, Popularity: 0.4, AI: 0.3},
	types.PersonalityAdventureJunkie:  {Tag: 0.5, Popularity: 0.2, AI: 0.3},
	types.PersonalityRomanticExplorer: {Tag: 0.4, Popularity: 0.2, AI: 0.4},
}

var balancedWeights = types.WeightVector{Tag: 0.4, Popularity: 0.3, AI: 0.3}

// DefaultWeights returns the weight vector for a personality type, falling
// back to the balanced profile for types without a dedicated entry.
func DefaultWeights(personality types.PersonalityType) types.WeightVector {
	if w, ok := defaultWeights[personality]; ok {
		return w
	}
	return balancedWeights
}

// Detect classifies the user's travel personality from the trip context.
// Rules are evaluated in priority order, first match wins.
func Detect(tripTags []string, budget, companion string) types.PersonalityProfile {
	personality := types.PersonalityBalancedTraveler
	confidence := 0.5

	switch {
	case slices.Contains(tripTags, "romantic") && companion == "couples":
		personality = types.PersonalityRomanticExplorer
		confidence = 0.85
	case slices.Contains(tripTags, "adventure"):
		personality = types.PersonalityAdventureJunkie
		confidence = 0.8
	case budget == "premium":
		personality = types.PersonalityLuxuryTraveler
		confidence = 0.75
	case budget == "low":
		personality = types.PersonalityBudgetBackpacker
		confidence = 0.8
	case companion == "family":
		personality = types.PersonalityFamilyPlanner
		confidence = 0.85
	}

	return types.PersonalityProfile{
		Type:              personality,
		Confidence:        confidence,
		WeightAdjustments: DefaultWeights(personality),
	}
}
