package ranking

import (
	"encoding/json"
	"fmt"

	"github.com/wanderio/go-smart-destinations/internal/types"
)

// candidateProjection is the minimal candidate view embedded in the ranking
// prompt. Keeping it small bounds prompt size and avoids leaking fields the
// model has no business seeing.
type candidateProjection struct {
	Name            string   `json:"name"`
	PopularityScore float64  `json:"popularity_score"`
	TripTags        []string `json:"trip_tags"`
}

func getRankingPrompt(profile types.PersonalityProfile, prefs types.UserPreferences, candidates []candidateProjection) string {
	candidateJSON, _ := json.MarshalIndent(candidates, "", "  ")

	return fmt.Sprintf(`You are a travel ranking engine.

STRICT RULES (MUST FOLLOW):
- Rank ONLY from the provided list.
- Use EXACT names.
- Do NOT invent new places.
- You MUST rank ALL provided destinations, each exactly once.
- The number of ranked items MUST equal the number of provided destinations.
- Return JSON only. No markdown. No explanation.

Personality Type: %s
Confidence: %.2f

User preferences:
Trip tags: %v
Companion: %s
Budget: %s
Season: %s

Available destinations:
%s

Return JSON:

{
  "ranked": [
    {
      "name": "",
      "reason": "",
      "ai_score": 0
    }
  ]
}

The "ranked" array length MUST match the number of provided destinations.
ai_score must be between 0 and 10.`,
		profile.Type, profile.Confidence,
		prefs.SelectedTags, prefs.Companion, prefs.Budget, prefs.Season,
		string(candidateJSON))
}

func getRefinementPrompt(instruction string) string {
	return fmt.Sprintf(`You are a travel AI system.

User refinement instruction:
%q

Interpret what the user wants.

Return ONLY valid JSON:

{
  "tag_weight": float,
  "popularity_weight": float,
  "ai_weight": float,
  "crowd_penalty": float
}

Hard rules (must be obeyed):
- All weights (tag_weight, popularity_weight, ai_weight) must be between 0 and 1.
- The sum of tag_weight + popularity_weight + ai_weight should approximately equal 1.
- crowd_penalty must be between 0 and 0.5.
- Keep adjustments subtle and realistic (no extreme jumps).
- Do NOT include extra fields.
- Return JSON only. No markdown, no explanation, no extra text.

Use the table below to map intents to adjustments:
- "less crowded", "avoid crowds" -> increase crowd_penalty
- "luxury", "premium", "high-end" -> increase popularity_weight
- "adventure", "thrill", "hiking", "nature" -> increase tag_weight
- "personalized", "curated", "insights" -> increase ai_weight

No explanation. Only JSON.`, instruction)
}

// GetExplanationPrompt is shared with the destination service, which owns
// the explanation call and its cache.
func GetExplanationPrompt(destination, personality string) string {
	return fmt.Sprintf(`You are a travel assistant.

Explain in 3-4 sentences why %s is a good fit for a traveler whose
personality type is %q. Mention concrete things to see or do there.
Plain text only, no markdown, no lists.`, destination, personality)
}
