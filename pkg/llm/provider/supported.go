package provider

import (
	"fmt"

	"github.com/skeinhq/skein/pkg/llm/provider/completions"
	"github.com/skeinhq/skein/pkg/llm/provider/grok"
	"github.com/skeinhq/skein/pkg/llm/provider/responses"
)

// Supported provider type constants
const (
	Completions = "completions"
	Responses   = "responses"
	Grok        = "grok"
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{Completions, Responses, Grok}
}

// New creates a new Provider instance for the given provider type.
// Returns an error if the provider type is not recognized.
func New(providerType string) (Provider, error) {
	switch providerType {
	case Completions:
		return completions.New(), nil
	case Responses:
		return responses.New(), nil
	case Grok:
		return grok.New(), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", providerType, SupportedProviders())
	}
}
