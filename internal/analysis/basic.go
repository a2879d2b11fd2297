package analysis

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// basicProvider is the terminal link of the fallback chain: a deterministic
// keyword extraction that always returns a non-empty result. The system's
// availability guarantee rests on it never failing.
type basicProvider struct{}

func (b *basicProvider) Name() Provider { return ProviderBasic }

func (b *basicProvider) Available() bool { return true }

var (
	actionKeywords = []string{
		"will ", "need to", "needs to", "should ", "must ", "todo",
		"action item", "task", "follow up", "follow-up", "take care of",
	}
	decisionKeywords = []string{
		"decided", "agreed", "agreement", "conclusion", "resolved",
		"determined", "approved", "let's ", "we will go with",
	}
	nextStepKeywords = []string{
		"next step", "next time", "next meeting", "follow up",
		"follow-up", "moving forward", "going forward", "schedule",
	}

	reSpeakerLabel = regexp.MustCompile(`(?m)^\s*([A-Z][a-zA-Z .'-]{0,40}?):`)
	reOwner        = regexp.MustCompile(`^([A-Z][a-z]+)\s+(?:will|should|must|needs to)\b`)
	reWord         = regexp.MustCompile(`[a-zA-Z']+`)
)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "have": true, "will": true, "from": true, "they": true,
	"been": true, "were": true, "was": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"our": true, "out": true, "get": true, "has": true, "him": true,
	"his": true, "her": true, "she": true, "its": true, "who": true,
	"what": true, "when": true, "where": true, "which": true, "would": true,
	"could": true, "should": true, "there": true, "their": true, "then": true,
	"them": true, "these": true, "those": true, "about": true, "into": true,
	"going": true, "just": true, "like": true, "also": true, "some": true,
	"want": true, "need": true, "think": true, "know": true, "make": true,
	"well": true, "okay": true, "yeah": true, "right": true, "really": true,
	"very": true, "here": true, "more": true, "than": true, "because": true,
	"let's": true, "lets": true,
}

// Analyze never fails for non-empty input; the router guards emptiness.
func (b *basicProvider) Analyze(ctx context.Context, text string) (*Result, error) {
	sentences := splitSentences(text)
	freq := wordFrequencies(text)

	return &Result{
		Summary:      buildSummary(sentences, freq),
		ActionItems:  extractActionItems(sentences),
		Decisions:    matchSentences(sentences, decisionKeywords, 5),
		Topics:       topTerms(freq, 5),
		Participants: extractParticipants(text, sentences),
		NextSteps:    matchSentences(sentences, nextStepKeywords, 5),
	}, nil
}

func splitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder
	for _, r := range text {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(cur.String()); s != "" {
				sentences = append(sentences, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func wordFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, w := range reWord.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 3 || stopwords[w] {
			continue
		}
		freq[w]++
	}
	return freq
}

// buildSummary combines the first sentence, the highest keyword-density
// middle sentence, and the last sentence.
func buildSummary(sentences []string, freq map[string]int) string {
	switch len(sentences) {
	case 0:
		return ""
	case 1:
		return sentences[0]
	case 2:
		return sentences[0] + " " + sentences[1]
	}

	bestIdx := -1
	bestScore := 0
	for i := 1; i < len(sentences)-1; i++ {
		score := 0
		for _, w := range reWord.FindAllString(strings.ToLower(sentences[i]), -1) {
			score += freq[w]
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	parts := []string{sentences[0]}
	if bestIdx > 0 {
		parts = append(parts, sentences[bestIdx])
	}
	parts = append(parts, sentences[len(sentences)-1])
	return strings.Join(parts, " ")
}

func matchSentences(sentences, keywords []string, limit int) []string {
	var out []string
	for _, s := range sentences {
		lower := strings.ToLower(s)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				out = append(out, s)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

func extractActionItems(sentences []string) []ActionItem {
	var items []ActionItem
	for _, s := range sentences {
		lower := strings.ToLower(s)
		matched := false
		for _, kw := range actionKeywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		item := ActionItem{Description: s}
		if m := reOwner.FindStringSubmatch(stripSpeakerLabel(s)); m != nil {
			item.Owner = m[1]
		}
		items = append(items, item)
		if len(items) == 5 {
			break
		}
	}
	return items
}

func stripSpeakerLabel(s string) string {
	if idx := strings.Index(s, ":"); idx > 0 && idx < 40 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}

// extractParticipants collects speaker labels plus owners named before an
// action verb, deduplicated in first-seen order.
func extractParticipants(text string, sentences []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	for _, m := range reSpeakerLabel.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, s := range sentences {
		if m := reOwner.FindStringSubmatch(stripSpeakerLabel(s)); m != nil {
			add(m[1])
		}
	}
	return out
}

func topTerms(freq map[string]int, n int) []string {
	terms := make([]string, 0, len(freq))
	for w := range freq {
		terms = append(terms, w)
	}
	// Deterministic order: frequency descending, then alphabetical.
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
