// Package instruction builds the system instruction sent to the optimizing
// model for each target model family.
package instruction

import (
	"embed"
	"fmt"
	"strings"

	"github.com/HartBrook/sharpen/internal/errors"
	"github.com/HartBrook/sharpen/internal/template"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Target is the model family a prompt is being optimized for.
type Target string

const (
	Gemini    Target = "gemini"
	Anthropic Target = "anthropic"
	ChatGPT   Target = "chatgpt"
	Llama     Target = "llama"
)

// Targets lists the supported targets in display order.
var Targets = []Target{Gemini, Anthropic, ChatGPT, Llama}

// Shared fragments included in every instruction.
const (
	AntiHallucination = `<critical_constraint>CRITICAL: Do not invent, assume, or hallucinate any information, facts, or data that is not explicitly provided in the original prompt's context. Base the optimized prompt ONLY on the information given by the user.</critical_constraint>`

	FinalOutput = `IMPORTANT: Your output MUST be ONLY the rewritten prompt text. Do not include any explanations, introductions, or conversational text like "Here is the optimized prompt:". Just output the final, ready-to-use prompt.`
)

var displayNames = map[Target]string{
	Gemini:    "Gemini",
	Anthropic: "Anthropic (Claude)",
	ChatGPT:   "OpenAI (ChatGPT)",
	Llama:     "Meta (Llama)",
}

//go:embed blocks/*.md
var blocksFS embed.FS

const defaultBlock = "default"

// table maps a target (or defaultBlock) to its finished instruction text.
var table = loadTable()

func loadTable() map[Target]string {
	fragments := map[string]string{
		"anti_hallucination": AntiHallucination,
		"final_output":       FinalOutput,
	}

	t := make(map[Target]string, len(Targets)+1)
	for _, name := range append(append([]Target(nil), Targets...), defaultBlock) {
		raw, err := blocksFS.ReadFile(fmt.Sprintf("blocks/%s.md", name))
		if err != nil {
			panic(fmt.Sprintf("instruction: missing block for %s: %v", name, err))
		}
		t[name] = template.Substitute(strings.TrimSpace(string(raw)), fragments)
	}
	return t
}

// Build returns the system instruction for target. Targets outside the
// supported set get the generic instruction.
func Build(target Target) string {
	if text, ok := table[target]; ok && target != defaultBlock {
		return text
	}
	return table[defaultBlock]
}

// ParseTarget validates a target id.
func ParseTarget(s string) (Target, error) {
	t := Target(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t, nil
	}
	return "", errors.Invalid("unknown target model %q (use gemini, anthropic, chatgpt, or llama)", s)
}

// Valid reports whether t is one of the supported targets.
func (t Target) Valid() bool {
	_, ok := displayNames[t]
	return ok
}

// DisplayName returns the human-readable name for t.
func (t Target) DisplayName() string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return cases.Title(language.English).String(string(t))
}

func (t Target) String() string {
	return string(t)
}
