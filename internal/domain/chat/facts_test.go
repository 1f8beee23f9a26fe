package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFactsName(t *testing.T) {
	facts := ExtractFacts("me llamo Ana")
	assert.Equal(t, []string{"Nombre: Ana"}, facts)
}

func TestExtractFactsEnglish(t *testing.T) {
	facts := ExtractFacts("my name is Pat, I like hiking")
	assert.Contains(t, facts, "Nombre: Pat")
	assert.Contains(t, facts, "Preferencias: hiking")
}

func TestExtractFactsNoMatch(t *testing.T) {
	assert.Empty(t, ExtractFacts("just a plain message"))
}

func TestExtractFactsDeterministic(t *testing.T) {
	text := "me llamo Ana, prefiero el turno de tarde"
	first := ExtractFacts(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ExtractFacts(text))
	}
}

func TestMergeFacts(t *testing.T) {
	blob := MergeFacts("", []string{"Nombre: Ana"})
	assert.Equal(t, "Nombre: Ana", blob)

	// Duplicate facts are not repeated.
	blob = MergeFacts(blob, []string{"Nombre: Ana", "Ciudad: Rosario"})
	assert.Equal(t, "Nombre: Ana\nCiudad: Rosario", blob)
}

func TestMergeFactsBounded(t *testing.T) {
	blob := ""
	for i := 0; i < MaxFacts+5; i++ {
		blob = MergeFacts(blob, []string{"Objetivo: goal " + strings.Repeat("x", i+1)})
	}
	lines := strings.Split(blob, "\n")
	assert.Len(t, lines, MaxFacts)
	// Most recent facts survive.
	assert.Contains(t, lines[len(lines)-1], strings.Repeat("x", MaxFacts+5))
}
