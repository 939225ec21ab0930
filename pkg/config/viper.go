package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/skeinhq/skein/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the SKEIN_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (SKEIN_MODELS_DEFAULT, SKEIN_API_OPENAI_BASE, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: SKEIN_MODELS_DEFAULT, SKEIN_HISTORY_DRIVER, etc.
	v.SetEnvPrefix("SKEIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// API
	v.SetDefault("api.openai_base", d.API.OpenAIBase)
	v.SetDefault("api.xai_base", d.API.XAIBase)

	// Models
	v.SetDefault("models.default", d.Models.Default)
	v.SetDefault("models.reasoning", d.Models.Reasoning)
	v.SetDefault("models.search", d.Models.Search)
	v.SetDefault("models.image", d.Models.Image)

	// Persona
	v.SetDefault("persona.name", d.Persona.Name)
	v.SetDefault("persona.system_prompt", d.Persona.SystemPrompt)
	v.SetDefault("persona.knowledge", d.Persona.Knowledge)

	// History
	v.SetDefault("history.driver", d.History.Driver)
	v.SetDefault("history.sqlite_path", d.History.SQLitePath)
	v.SetDefault("history.postgres_url", d.History.PostgresURL)
}

// ConfigFromViper materializes a Config from the viper precedence chain.
func ConfigFromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		API: APIConfig{
			OpenAIBase: v.GetString("api.openai_base"),
			XAIBase:    v.GetString("api.xai_base"),
		},
		Models: ModelsConfig{
			Default:   v.GetString("models.default"),
			Reasoning: v.GetString("models.reasoning"),
			Search:    v.GetString("models.search"),
			Image:     v.GetString("models.image"),
		},
		Persona: PersonaConfig{
			Name:         v.GetString("persona.name"),
			SystemPrompt: v.GetString("persona.system_prompt"),
			Knowledge:    v.GetString("persona.knowledge"),
		},
		History: HistoryConfig{
			Driver:      v.GetString("history.driver"),
			SQLitePath:  v.GetString("history.sqlite_path"),
			PostgresURL: v.GetString("history.postgres_url"),
		},
	}
}
