package llm

import "strings"

// ModelCost is the USD price per million tokens for one model.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of a call with the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// OpenRouter IDs such as "google/gemini-2.5-flash" resolve to the
// vendor model they route to.
func LookupCost(modelID string) *ModelCost {
	id := strings.ToLower(strings.TrimSpace(modelID))
	if c, ok := modelCosts[id]; ok {
		return &c
	}
	if _, vendorModel, ok := strings.Cut(id, "/"); ok {
		if c, ok := modelCosts[vendorModel]; ok {
			return &c
		}
	}
	return nil
}

// UsageCost prices a batch of calls and reports whether the model is known.
func UsageCost(modelID string, inputTokens, outputTokens int) (float64, bool) {
	c := LookupCost(modelID)
	if c == nil {
		return 0, false
	}
	return c.Cost(inputTokens, outputTokens), true
}

// modelCosts covers the defaults in Config plus the models lecturers
// commonly override them with. The mock provider is free.
var modelCosts = map[string]ModelCost{
	"mock": {},

	// Anthropic
	"claude-haiku":              {1, 5},
	"claude-haiku-4-5":          {1, 5},
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-3-5-haiku-latest":   {0.8, 4},
	"claude-sonnet-4-5":         {3, 15},
	"claude-sonnet-4-0":         {3, 15},
	"claude-opus-4-1":           {15, 75},

	// OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"o4-mini":      {1.1, 4.4},

	// Google
	"gemini-flash":           {0.3, 2.5},
	"gemini-flash-image":     {0.3, 30},
	"gemini-2.0-flash":       {0.1, 0.4},
	"gemini-2.5-flash":       {0.3, 2.5},
	"gemini-2.5-flash-image": {0.3, 30},
	"gemini-2.5-flash-lite":  {0.1, 0.4},
	"gemini-2.5-pro":         {1.25, 10},
	"gemini-flash-latest":    {0.3, 2.5},
}
