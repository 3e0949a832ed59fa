package config

// LLMConfig configures the hosted model that drives tool calls.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`

	// MaxToolRounds bounds model→tool→model round trips within one user turn.
	MaxToolRounds int `yaml:"max_tool_rounds"`

	// Temperature is passed through when non-zero.
	Temperature float32 `yaml:"temperature"`
}

// Enabled reports whether enough is configured to create a client.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}
