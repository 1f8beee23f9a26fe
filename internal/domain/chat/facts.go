package chat

import (
	"regexp"
	"strings"
)

// MaxFacts bounds the fact-memory blob per session.
const MaxFacts = 10

// Fact extraction patterns. Each maps a labelled capture over the user text
// to a "Label: value" fact line. Spanish first (the original deployment's
// audience) with English equivalents.
var factPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"Nombre", regexp.MustCompile(`(?i)\bme llamo\s+([\p{L} ]{2,40})`)},
	{"Nombre", regexp.MustCompile(`(?i)\bmy name is\s+([\p{L} ]{2,40})`)},
	{"Preferencias", regexp.MustCompile(`(?i)\b(?:me gusta|prefiero|soy fan de)\s+([^.,;]{2,60})`)},
	{"Preferencias", regexp.MustCompile(`(?i)\b(?:i like|i prefer)\s+([^.,;]{2,60})`)},
	{"Objetivo", regexp.MustCompile(`(?i)\b(?:mi objetivo|quiero lograr|necesito)\s+([^.,;]{2,60})`)},
	{"Ciudad", regexp.MustCompile(`(?i)\bsoy de\s+([^.,;]{2,40})`)},
	{"Ciudad", regexp.MustCompile(`(?i)\bi(?:'| a)m from\s+([^.,;]{2,40})`)},
	{"Deadline", regexp.MustCompile(`(?i)\b(?:antes de|para el|hasta el)\s+([0-9]{1,2}/[0-9]{1,2}|\p{L}+\s+\d{1,2})`)},
}

// ExtractFacts derives short fact lines from one user message. Pure and
// deterministic; returns nil when nothing matches.
func ExtractFacts(userText string) []string {
	var facts []string
	for _, p := range factPatterns {
		m := p.re.FindStringSubmatch(userText)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			continue
		}
		facts = append(facts, p.label+": "+value)
	}
	return facts
}

// MergeFacts folds newly extracted facts into an existing newline-separated
// blob, deduplicating and keeping the most recent MaxFacts entries.
func MergeFacts(blob string, fresh []string) string {
	var lines []string
	for _, l := range strings.Split(blob, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		seen[l] = true
	}
	for _, f := range fresh {
		if !seen[f] {
			lines = append(lines, f)
			seen[f] = true
		}
	}

	if len(lines) > MaxFacts {
		lines = lines[len(lines)-MaxFacts:]
	}
	return strings.Join(lines, "\n")
}
