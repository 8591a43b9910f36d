package provider

import (
	"context"
	"errors"

	"github.com/axpress-labs/scholard/config"
	azure_provider "github.com/axpress-labs/scholard/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	AzureOpenAI Client = "azure_openai"
)

// Provider is the interface that all chat model implementations must satisfy
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewProvider creates a new chat client based on the provided configuration
func NewProvider(client Client, cfg config.ProvidersConfig) (Provider, error) {
	switch client {
	case AzureOpenAI:
		if err := cfg.AzureOpenAI.Validate(); err != nil {
			return nil, err
		}
		return azure_provider.NewClient(cfg.AzureOpenAI), nil
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
