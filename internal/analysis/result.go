package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTranscript is the only error Analyze raises: provider failures
// are recovered through the fallback chain instead.
var ErrEmptyTranscript = errors.New("transcript text is empty")

// Provider identifies an analysis strategy.
type Provider string

const (
	ProviderLocal Provider = "local"
	ProviderCloud Provider = "cloud"
	ProviderBasic Provider = "basic"
)

// ParseProvider validates a requested provider mode.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(s)) {
	case ProviderLocal:
		return ProviderLocal, nil
	case ProviderCloud:
		return ProviderCloud, nil
	case ProviderBasic:
		return ProviderBasic, nil
	default:
		return "", fmt.Errorf("unknown analysis provider %q (use local, cloud or basic)", s)
	}
}

// Tier is the quality/confidence tier of a result.
type Tier string

const (
	TierRich  Tier = "rich"  // AI-derived
	TierBasic Tier = "basic" // keyword-derived
)

// ActionItem is one task extracted from the meeting.
type ActionItem struct {
	Description string `json:"description"`
	Owner       string `json:"owner,omitempty"`
	Due         string `json:"due,omitempty"`
}

// Result is the structured intelligence derived from one transcript.
// Provider always names the strategy that actually produced the result,
// which may differ from the requested one after fallback.
type Result struct {
	Summary      string       `json:"summary"`
	ActionItems  []ActionItem `json:"action_items"`
	Decisions    []string     `json:"key_decisions"`
	Topics       []string     `json:"topics_discussed"`
	Participants []string     `json:"participants"`
	NextSteps    []string     `json:"next_steps"`
	Provider     Provider     `json:"provider"`
	Tier         Tier         `json:"tier"`
}
