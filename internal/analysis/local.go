package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/scribeworks/meetscribe/internal/logger"
)

// localProvider talks to an Ollama-compatible inference service on the
// local loopback. Its timeouts are deliberately short: the service is
// expected to be used interactively, and an unreachable socket should fall
// through to the next provider quickly.
type localProvider struct {
	host   string
	model  string
	client *http.Client
	logger logger.Logger
}

func newLocalProvider(host, model string, timeout time.Duration, log logger.Logger) *localProvider {
	return &localProvider{
		host:  strings.TrimSuffix(host, "/"),
		model: model,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 2 * time.Second}).DialContext,
			},
		},
		logger: log,
	}
}

func (l *localProvider) Name() Provider { return ProviderLocal }

func (l *localProvider) Available() bool { return l.host != "" }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (l *localProvider) Analyze(ctx context.Context, text string) (*Result, error) {
	reqBody, err := json.Marshal(ollamaRequest{
		Model:  l.model,
		Prompt: fmt.Sprintf(analysisPrompt, text),
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.host+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("local model service unreachable at %s: %w", l.host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read local model response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("model %q not registered with local service", l.model)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("local model service http %d: %s", resp.StatusCode, string(body))
	}

	var or ollamaResponse
	if err := json.Unmarshal(body, &or); err != nil {
		return nil, fmt.Errorf("malformed local model response: %w", err)
	}
	if or.Error != "" {
		return nil, fmt.Errorf("local model error: %s", or.Error)
	}

	return parsePayload(or.Response)
}
