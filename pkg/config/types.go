package config

// Config represents the persistent skein configuration stored as config.toml
// in the .skein/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	API     APIConfig     `toml:"api"`
	Models  ModelsConfig  `toml:"models"`
	Persona PersonaConfig `toml:"persona"`
	History HistoryConfig `toml:"history"`
}

// APIConfig holds the upstream endpoint base URLs.
type APIConfig struct {
	OpenAIBase string `toml:"openai_base,omitempty"`
	XAIBase    string `toml:"xai_base,omitempty"`
}

// ModelsConfig holds model selection settings. Reasoning names the model
// routed to the chat-completions decoder; Search names the fixed model
// forced for web-search turns.
type ModelsConfig struct {
	Default   string `toml:"default,omitempty"`
	Reasoning string `toml:"reasoning,omitempty"`
	Search    string `toml:"search,omitempty"`
	Image     string `toml:"image,omitempty"`
}

// PersonaConfig holds the custom system prompt and reference text injected
// into every outgoing turn.
type PersonaConfig struct {
	Name         string `toml:"name,omitempty"`
	SystemPrompt string `toml:"system_prompt,omitempty"`
	Knowledge    string `toml:"knowledge,omitempty"`
}

// HistoryConfig holds conversation persistence settings. Driver selects
// the backend: "memory", "sqlite", or "postgres".
type HistoryConfig struct {
	Driver      string `toml:"driver,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresURL string `toml:"postgres_url,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"api.openai_base": {
		get: func(c *Config) string { return c.API.OpenAIBase },
		set: func(c *Config, v string) error { c.API.OpenAIBase = v; return nil },
	},
	"api.xai_base": {
		get: func(c *Config) string { return c.API.XAIBase },
		set: func(c *Config, v string) error { c.API.XAIBase = v; return nil },
	},
	"models.default": {
		get: func(c *Config) string { return c.Models.Default },
		set: func(c *Config, v string) error { c.Models.Default = v; return nil },
	},
	"models.reasoning": {
		get: func(c *Config) string { return c.Models.Reasoning },
		set: func(c *Config, v string) error { c.Models.Reasoning = v; return nil },
	},
	"models.search": {
		get: func(c *Config) string { return c.Models.Search },
		set: func(c *Config, v string) error { c.Models.Search = v; return nil },
	},
	"models.image": {
		get: func(c *Config) string { return c.Models.Image },
		set: func(c *Config, v string) error { c.Models.Image = v; return nil },
	},
	"persona.name": {
		get: func(c *Config) string { return c.Persona.Name },
		set: func(c *Config, v string) error { c.Persona.Name = v; return nil },
	},
	"persona.system_prompt": {
		get: func(c *Config) string { return c.Persona.SystemPrompt },
		set: func(c *Config, v string) error { c.Persona.SystemPrompt = v; return nil },
	},
	"persona.knowledge": {
		get: func(c *Config) string { return c.Persona.Knowledge },
		set: func(c *Config, v string) error { c.Persona.Knowledge = v; return nil },
	},
	"history.driver": {
		get: func(c *Config) string { return c.History.Driver },
		set: func(c *Config, v string) error { c.History.Driver = v; return nil },
	},
	"history.sqlite_path": {
		get: func(c *Config) string { return c.History.SQLitePath },
		set: func(c *Config, v string) error { c.History.SQLitePath = v; return nil },
	},
	"history.postgres_url": {
		get: func(c *Config) string { return c.History.PostgresURL },
		set: func(c *Config, v string) error { c.History.PostgresURL = v; return nil },
	},
}
