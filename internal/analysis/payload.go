package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

const analysisPrompt = `You are an expert meeting analyst. Analyze the meeting transcript below and extract key information. Be precise and only include information that is clearly stated or strongly implied.

Respond with a single JSON object containing:
- "summary": a concise 2-3 sentence summary of the meeting
- "action_items": array of objects with "description", optional "owner", optional "due"
- "key_decisions": array of important decisions that were made
- "topics_discussed": array of main topics
- "participants": array of participant names mentioned
- "next_steps": array of follow-up actions

Transcript:
---
%s
---`

// payloadItem accepts an action item either as a bare string or as an
// object, since models are inconsistent about which they emit.
type payloadItem ActionItem

func (p *payloadItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Description = s
		return nil
	}
	var obj struct {
		Description string `json:"description"`
		Owner       string `json:"owner"`
		Due         string `json:"due"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*p = payloadItem(ActionItem{Description: obj.Description, Owner: obj.Owner, Due: obj.Due})
	return nil
}

type analysisPayload struct {
	Summary      string        `json:"summary"`
	ActionItems  []payloadItem `json:"action_items"`
	KeyDecisions []string      `json:"key_decisions"`
	Topics       []string      `json:"topics_discussed"`
	Participants []string      `json:"participants"`
	NextSteps    []string      `json:"next_steps"`
}

// parsePayload decodes a model response into a Result. Provider and Tier are
// left for the router to stamp.
func parsePayload(raw string) (*Result, error) {
	raw = stripCodeFence(raw)

	var p analysisPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("malformed analysis response: %w", err)
	}
	if strings.TrimSpace(p.Summary) == "" {
		return nil, fmt.Errorf("malformed analysis response: missing summary")
	}

	items := make([]ActionItem, 0, len(p.ActionItems))
	for _, it := range p.ActionItems {
		if strings.TrimSpace(it.Description) == "" {
			continue
		}
		items = append(items, ActionItem(it))
	}

	return &Result{
		Summary:      strings.TrimSpace(p.Summary),
		ActionItems:  items,
		Decisions:    p.KeyDecisions,
		Topics:       p.Topics,
		Participants: p.Participants,
		NextSteps:    p.NextSteps,
	}, nil
}

// stripCodeFence removes a ```json ... ``` wrapper if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
