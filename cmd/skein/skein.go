// Package skeincmder
package skeincmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/skeinhq/skein/cmd/skein/auth"
	chatcmder "github.com/skeinhq/skein/cmd/skein/chat"
	clearcmder "github.com/skeinhq/skein/cmd/skein/clear"
	configcmder "github.com/skeinhq/skein/cmd/skein/config"
	versioncmder "github.com/skeinhq/skein/cmd/version"
)

const skeinLongDesc string = `Skein is a streaming chat client for LLM providers.

Start a conversation using:
  skein chat               Interactive chat with the configured default model
  skein chat -m o1-mini    Chat with a specific model

Store credentials first:
  skein auth openai        Store an OpenAI API key
  skein auth xai           Store an X.AI API key`

const skeinShortDesc string = "Skein - Streaming LLM chat"

func NewSkeinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skein",
		Short: skeinShortDesc,
		Long:  skeinLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .skein/ config directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(clearcmder.NewClearCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
