// Package keycheck verifies that a stored API credential actually works
// by making the cheapest possible call against the Anthropic API.
package keycheck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// verifyTimeout bounds the probe call independently of the caller's ctx.
const verifyTimeout = 15 * time.Second

// Verify makes a one-token Messages call with the given key. A nil error
// means the key is accepted by the API. The key value never appears in
// the returned error.
func Verify(ctx context.Context, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("no API key configured")
	}

	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	_, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude3_5Haiku20241022,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "ping"},
			}},
		}},
	})
	if err != nil {
		return fmt.Errorf("key verification failed: %w", err)
	}
	return nil
}
