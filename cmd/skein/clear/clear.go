// Package clearcmder provides the clear command for discarding saved
// conversation session state.
package clearcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skeinhq/skein/pkg/cliui"
	"github.com/skeinhq/skein/pkg/dotdir"
)

const clearLongDesc string = `Clear the saved conversation session.

Removes the session state stored in the .skein/ directory, including any
provider continuation token. The next "skein chat" starts a completely
fresh conversation with no carried-over server-side context.

Examples:
  skein clear`

const clearShortDesc string = "Clear the saved conversation session"

func NewClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: clearShortDesc,
		Long:  clearLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runClear(configDir)
		},
	}

	return cmd
}

func runClear(configDir string) error {
	store := dotdir.NewSessionStore(configDir)
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	fmt.Printf("\n  %s Session cleared. Next chat starts a new conversation.\n\n", cliui.SuccessMark)
	return nil
}
