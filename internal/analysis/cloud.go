package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/scribeworks/meetscribe/internal/logger"
)

// cloudProvider sends the transcript to the Gemini API. With no API key
// configured it reports unavailable, so the router skips it without a
// network call.
type cloudProvider struct {
	apiKey  string
	model   string
	timeout time.Duration
	logger  logger.Logger
}

func newCloudProvider(apiKey, model string, timeout time.Duration, log logger.Logger) *cloudProvider {
	return &cloudProvider{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		logger:  log,
	}
}

func (c *cloudProvider) Name() Provider { return ProviderCloud }

func (c *cloudProvider) Available() bool { return c.apiKey != "" }

func (c *cloudProvider) Analyze(ctx context.Context, text string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	prompt := fmt.Sprintf(analysisPrompt, text)
	result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		if isQuotaError(err) {
			return nil, fmt.Errorf("gemini quota exhausted: %w", err)
		}
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var out string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			out += part.Text
		}
	}

	return parsePayload(out)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
