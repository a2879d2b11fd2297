package transcribe

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// CleanTranscript normalizes raw transcript text: collapses whitespace,
// removes space before punctuation, capitalizes sentence starts and makes
// sure the text ends with punctuation.
func CleanTranscript(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	text = reSpaces.ReplaceAllString(text, " ")

	for _, p := range []string{".", ",", "?", "!"} {
		text = strings.ReplaceAll(text, " "+p, p)
	}

	sentences := strings.Split(text, ". ")
	cleaned := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		r := []rune(s)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		cleaned = append(cleaned, string(r))
	}
	text = strings.Join(cleaned, ". ")

	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
		text += "."
	}

	return text
}
