// pkg/ai/client.go

package ai

import "context"

// Client sends a prompt to a text-generation service and returns the raw
// model text. apiKey overrides the key the client was built with when set.
type Client interface {
	GenerateText(ctx context.Context, prompt, apiKey string) (string, error)
}
