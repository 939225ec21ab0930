package config

const (
	defaultOpenAIBase = "https://api.openai.com/v1"
	defaultXAIBase    = "https://api.x.ai/v1"

	defaultModel          = "gpt-4o-mini"
	defaultReasoningModel = "o1-mini"
	defaultSearchModel    = "gpt-4o"
	defaultImageModel     = "gpt-image-1"

	defaultHistoryDriver = "memory"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			OpenAIBase: defaultOpenAIBase,
			XAIBase:    defaultXAIBase,
		},
		Models: ModelsConfig{
			Default:   defaultModel,
			Reasoning: defaultReasoningModel,
			Search:    defaultSearchModel,
			Image:     defaultImageModel,
		},
		History: HistoryConfig{
			Driver: defaultHistoryDriver,
		},
	}
}
