package ranking

import (
	"encoding/json"
	"errors"
	"strings"
)

// decodeModelJSON parses free-form model text that is expected to contain a
// JSON object. It first attempts a strict parse, then falls back to the
// substring between the first '{' and the last '}'. Models wrap JSON in
// prose or markdown fences often enough that the recovery pass is required.
// Callers validate and clamp fields themselves after the decode.
func decodeModelJSON(raw string, dst any) error {
	cleaned := stripMarkdownFences(raw)

	if err := json.Unmarshal([]byte(cleaned), dst); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return &ModelOutputError{Raw: raw, Err: errors.New("no JSON object found in response")}
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), dst); err != nil {
		return &ModelOutputError{Raw: raw, Err: err}
	}
	return nil
}

func stripMarkdownFences(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")

	return strings.TrimSpace(response)
}

// asScore coerces a decoded ai_score value into a float64 clamped to
// [0, 10]. Absent or non-numeric values fall back to the neutral 5.0 so a
// single malformed entry cannot poison the blend.
func asScore(v any) float64 {
	score := 5.0
	switch n := v.(type) {
	case float64:
		score = n
	case json.Number:
		if f, err := n.Float64(); err == nil {
			score = f
		}
	}
	return clamp(score, 0, 10)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
