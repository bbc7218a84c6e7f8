package ai

import "context"

// CompletionProvider generates one text completion for a prompt. The model
// name is provider specific and may be empty to use the provider default.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
}
