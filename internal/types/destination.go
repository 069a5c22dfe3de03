package types

import (
	"github.com/google/uuid"
)

// PersonalityType is the closed set of traveler archetypes the classifier
// can produce.
type PersonalityType string

const (
	PersonalityBalancedTraveler PersonalityType = "Balanced Traveler"
	PersonalityRomanticExplorer PersonalityType = "Romantic Explorer"
	PersonalityAdventureJunkie  PersonalityType = "Adventure Junkie"
	PersonalityLuxuryTraveler   PersonalityType = "Luxury Traveler"
	PersonalityBudgetBackpacker PersonalityType = "Budget Backpacker"
	PersonalityFamilyPlanner    PersonalityType = "Family Planner"
)

type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

// WeightVector holds the coefficients blending tag, popularity and AI
// signals into a final score. Tag + Popularity + AI is expected to sum to 1;
// CrowdPenalty stays in [0, 0.5].
type WeightVector struct {
	Tag          float64 `json:"tag_weight"`
	Popularity   float64 `json:"popularity_weight"`
	AI           float64 `json:"ai_weight"`
	CrowdPenalty float64 `json:"crowd_penalty,omitempty"`
}

// PersonalityProfile is the inferred travel style of the requesting user.
type PersonalityProfile struct {
	Type              PersonalityType `json:"type"`
	Confidence        float64         `json:"confidence"`
	WeightAdjustments WeightVector    `json:"weight_adjustments"`
}

// DestinationCandidate is one destination eligible for ranking. Name is the
// join key against model output and must be unique within a batch. Records
// come from the store and are never mutated by the ranking pipeline.
type DestinationCandidate struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Country         string    `json:"country"`
	Region          string    `json:"region"`
	TripTags        []string  `json:"trip_tags"`
	BestSeasons     []string  `json:"best_seasons"`
	BudgetLevels    []string  `json:"budget_levels"`
	CompanionTags   []string  `json:"companion_tags"`
	PopularityScore float64   `json:"popularity_score"`
}

// CandidateFilter narrows the candidate query. Zero-valued fields are
// skipped.
type CandidateFilter struct {
	TripTags  []string
	Companion string
	Budget    string
	Season    Season
}

// UserPreferences is the per-request trip context fed to the ranker.
type UserPreferences struct {
	SelectedTags []string
	Companion    string
	Budget       string
	Season       Season
}

// RankedDestination joins one candidate with the model's ranking entry and
// the computed scores. FinalScore is the descending sort key.
type RankedDestination struct {
	Name            string   `json:"name"`
	Country         string   `json:"country"`
	Region          string   `json:"region"`
	TripTags        []string `json:"trip_tags"`
	PopularityScore float64  `json:"popularity_score"`
	AIScore         float64  `json:"ai_score"`
	TagScore        float64  `json:"tag_score"`
	FinalScore      float64  `json:"final_score"`
	Reason          string   `json:"reason"`
}

// DestinationSummary is the trimmed candidate shape returned by the non-AI
// discovery path.
type DestinationSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Country         string    `json:"country"`
	Region          string    `json:"region"`
	TripTags        []string  `json:"trip_tags"`
	PopularityScore float64   `json:"popularity_score"`
}

// FindDestinationsRequest is the body for both /find and /find-ai.
type FindDestinationsRequest struct {
	TripTags    []string `json:"trip_tags"`
	Companion   string   `json:"companion,omitempty"`
	Budget      string   `json:"budget,omitempty"`
	TravelMonth int      `json:"travel_month,omitempty"`
}

type FindDestinationsResponse struct {
	Season       Season               `json:"season"`
	Count        int                  `json:"count"`
	Destinations []DestinationSummary `json:"destinations"`
}

type FindDestinationsAIResponse struct {
	Season       Season              `json:"season"`
	Personality  PersonalityProfile  `json:"personality"`
	Count        int                 `json:"count"`
	Destinations []RankedDestination `json:"destinations"`
}

// RefineDestinationsRequest re-scores a previously returned ranking from a
// free-text instruction.
type RefineDestinationsRequest struct {
	PreviousResults []RankedDestination `json:"previous_results"`
	Instruction     string              `json:"instruction"`
}

type RefineDestinationsResponse struct {
	Instruction        string              `json:"instruction"`
	AppliedAdjustments WeightVector        `json:"applied_adjustments"`
	Destinations       []RankedDestination `json:"destinations"`
}

type ExplainDestinationRequest struct {
	Destination string `json:"destination"`
	Personality string `json:"personality"`
}

type ExplainDestinationResponse struct {
	Destination string `json:"destination"`
	Personality string `json:"personality"`
	Cached      bool   `json:"cached"`
	Explanation string `json:"explanation"`
}
