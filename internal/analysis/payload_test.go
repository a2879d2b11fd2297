package analysis

import "testing"

func TestParsePayload(t *testing.T) {
	raw := `{"summary":"Weekly sync.","action_items":["Update the deck",{"description":"File the report","owner":"Ana","due":"Friday"}],"key_decisions":["Hire two engineers"],"topics_discussed":["hiring"],"participants":["Ana"],"next_steps":["Review CVs"]}`

	res, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload() error = %v", err)
	}

	if res.Summary != "Weekly sync." {
		t.Errorf("Summary = %q", res.Summary)
	}
	if len(res.ActionItems) != 2 {
		t.Fatalf("got %d action items, want 2", len(res.ActionItems))
	}
	if res.ActionItems[0].Description != "Update the deck" {
		t.Errorf("string-form item = %+v", res.ActionItems[0])
	}
	if res.ActionItems[1].Owner != "Ana" || res.ActionItems[1].Due != "Friday" {
		t.Errorf("object-form item = %+v", res.ActionItems[1])
	}
}

func TestParsePayloadCodeFence(t *testing.T) {
	raw := "```json\n{\"summary\":\"Fenced.\"}\n```"

	res, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload() error = %v", err)
	}
	if res.Summary != "Fenced." {
		t.Errorf("Summary = %q", res.Summary)
	}
}

func TestParsePayloadMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "plain prose response"},
		{"missing summary", `{"action_items":[]}`},
		{"blank summary", `{"summary":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePayload(tt.raw); err == nil {
				t.Error("parsePayload() should fail")
			}
		})
	}
}
