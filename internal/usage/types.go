package usage

// UsageFile holds the persisted token counts.
const UsageFile = "llm_usage.json"

// Data is the persisted document.
type Data struct {
	Version   string          `json:"version"`
	Aggregate AggregatedStats `json:"aggregate"`
}

// AggregatedStats holds counters broken down by model and persona.
type AggregatedStats struct {
	Total     TokenCounts            `json:"total"`
	Requests  int64                  `json:"requests"`
	ByModel   map[string]TokenCounts `json:"by_model"`
	ByPersona map[string]TokenCounts `json:"by_persona"`
}

// TokenCounts holds input/output sums.
type TokenCounts struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Total  int64 `json:"total"`
}

func (tc *TokenCounts) Add(input, output int) {
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
}
