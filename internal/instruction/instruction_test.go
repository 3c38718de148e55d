package instruction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_IncludesSharedFragments(t *testing.T) {
	for _, target := range append(append([]Target(nil), Targets...), Target("mistral"), Target("")) {
		t.Run(string(target), func(t *testing.T) {
			text := Build(target)
			assert.Contains(t, text, AntiHallucination)
			assert.Contains(t, text, FinalOutput)
			assert.NotContains(t, text, "{{")
		})
	}
}

func TestBuild_ModelSpecificBlocks(t *testing.T) {
	tests := []struct {
		target Target
		marker string
	}{
		{Gemini, "<gemini_optimization_framework>"},
		{Anthropic, "<optimization_framework>"},
		{ChatGPT, "<openai_optimization_framework>"},
		{Llama, "<llama_optimization_framework>"},
	}

	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			text := Build(tt.target)
			assert.Contains(t, text, tt.marker)
			assert.True(t, strings.HasSuffix(text, FinalOutput))
		})
	}
}

func TestBuild_ChatGPTKeepsBackticks(t *testing.T) {
	assert.Contains(t, Build(ChatGPT), "triple backticks (```)")
}

func TestBuild_DefaultForUnknownTarget(t *testing.T) {
	text := Build(Target("mistral"))

	assert.True(t, strings.HasPrefix(text, "You are a world-class prompt engineering expert. Your task"))
	assert.Equal(t, text, Build(Target("default")))
	for _, target := range Targets {
		assert.NotEqual(t, text, Build(target))
	}
}

func TestBuild_Deterministic(t *testing.T) {
	for _, target := range Targets {
		assert.Equal(t, Build(target), Build(target))
	}
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget(" Anthropic ")
	require.NoError(t, err)
	assert.Equal(t, Anthropic, got)

	_, err = ParseTarget("bard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target model")
}

func TestTarget_DisplayName(t *testing.T) {
	assert.Equal(t, "Meta (Llama)", Llama.DisplayName())
	assert.Equal(t, "OpenAI (ChatGPT)", ChatGPT.DisplayName())
	assert.Equal(t, "Mistral", Target("mistral").DisplayName())
	assert.False(t, Target("mistral").Valid())
}
