// Package configcmder provides the config command for managing persistent
// skein configuration stored in the .skein/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent skein configuration.

Configuration is stored as config.toml in the .skein/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  api.openai_base, api.xai_base,
  models.default, models.reasoning, models.search, models.image,
  persona.name, persona.system_prompt, persona.knowledge,
  history.driver, history.sqlite_path, history.postgres_url

Use subcommands to get, set, or list configuration values:
  skein config set <key> <value>    Set a configuration value
  skein config get <key>            Get a configuration value
  skein config list                 List all configuration values

Examples:
  skein config set models.default gpt-4o
  skein config set persona.name pirate
  skein config get history.driver
  skein config list`

const configShortDesc string = "Manage persistent skein configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
