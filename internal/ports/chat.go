package ports

import "context"

// ChatCompleter submits one prompt to a chat-completion endpoint and returns
// the raw text of the first choice. Adapters own model, temperature and
// token-budget settings.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
