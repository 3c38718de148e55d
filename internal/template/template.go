// Package template resolves {{variable}} placeholders in prompts.
package template

import (
	"regexp"
)

// placeholderPattern matches {{name}} placeholders. Names are case-sensitive.
var placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z0-9_]+)\}\}`)

// ExtractVariables returns the unique placeholder names in prompt, in order
// of first appearance.
func ExtractVariables(prompt string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(prompt, -1)
	seen := make(map[string]bool, len(matches))
	var names []string

	for _, match := range matches {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}

// Substitute replaces every placeholder that has an entry in values.
// Placeholders without an entry are left as-is. Values are inserted verbatim
// and never re-scanned, so a value containing {{other}} stays literal.
func Substitute(prompt string, values map[string]string) string {
	if len(values) == 0 {
		return prompt
	}

	return placeholderPattern.ReplaceAllStringFunc(prompt, func(match string) string {
		name := match[2 : len(match)-2]
		if val, ok := values[name]; ok {
			return val
		}
		return match
	})
}

// Reconcile rebuilds a variable map for the given placeholder names.
// Names already in prev keep their value, new names default to "", and
// names no longer present are dropped.
func Reconcile(prev map[string]string, names []string) map[string]string {
	next := make(map[string]string, len(names))
	for _, name := range names {
		next[name] = prev[name]
	}
	return next
}

// Missing returns the names in order whose value is empty.
func Missing(values map[string]string, names []string) []string {
	var missing []string
	for _, name := range names {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
