package chat

import "strings"

// MaxTags bounds the number of labels derived from one turn.
const MaxTags = 5

// tagKeywords maps category labels to the keywords that trigger them.
// Matching is case-insensitive on whole words.
var tagKeywords = map[string][]string{
	"greeting": {"hola", "hello", "hi", "hey", "buenas"},
	"farewell": {"bye", "goodbye", "adios", "chau", "hasta"},
	"question": {"how", "what", "why", "when", "where", "who", "?"},
	"pricing":  {"price", "cost", "precio", "pricing", "plan", "pay"},
	"support":  {"help", "ayuda", "problem", "issue", "error", "broken"},
	"schedule": {"schedule", "meeting", "appointment", "book", "agenda", "cita"},
	"contact":  {"email", "phone", "contact", "call", "whatsapp"},
	"thanks":   {"thanks", "thank", "gracias"},
}

// DeriveTags maps message text to a bounded set of short lowercase category
// labels. Deterministic and side-effect-free; the same text always yields
// the same tags in the same order.
func DeriveTags(text string) []string {
	lowered := strings.ToLower(text)
	words := tokenize(lowered)

	// Fixed iteration order keeps the output deterministic.
	order := []string{"greeting", "farewell", "question", "pricing", "support", "schedule", "contact", "thanks"}

	var tags []string
	for _, tag := range order {
		if len(tags) >= MaxTags {
			break
		}
		for _, kw := range tagKeywords[tag] {
			if kw == "?" {
				if strings.Contains(lowered, "?") {
					tags = append(tags, tag)
					break
				}
				continue
			}
			if words[kw] {
				tags = append(tags, tag)
				break
			}
		}
	}

	if len(tags) == 0 {
		tags = append(tags, "general")
	}
	return tags
}

func tokenize(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127)
	}) {
		words[w] = true
	}
	return words
}
