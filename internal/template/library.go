package template

import (
	"sort"
	"strings"
)

// Template is a named starter prompt.
type Template struct {
	Category string `yaml:"category"`
	Name     string `yaml:"name"`
	Prompt   string `yaml:"prompt"`
}

// Variables returns the placeholder names used by the template.
func (t Template) Variables() []string {
	return ExtractVariables(t.Prompt)
}

// CategoryOrDefault returns the category, or "Other" when unset.
func (t Template) CategoryOrDefault() string {
	if t.Category == "" {
		return "Other"
	}
	return t.Category
}

// builtins are the starter templates shipped with sharpen.
var builtins = []Template{
	{
		Category: "Content Creation",
		Name:     "Summarize Content",
		Prompt:   "Summarize the key points from the following text in {{language}}:\n\n{{text}}",
	},
	{
		Category: "Content Creation",
		Name:     "Blog Post Idea Generator",
		Prompt:   "Generate 5 blog post titles about {{topic}} for an audience of {{audience}}.",
	},
	{
		Category: "Code Generation",
		Name:     "Python Function",
		Prompt:   "Write a Python function that {{task}}. The function should accept the following arguments: {{arguments}}. It should return {{return_value}}.",
	},
	{
		Category: "Code Generation",
		Name:     "SQL Query",
		Prompt:   "Write a SQL query to {{objective}} from a table named `{{table_name}}`. The table has the following columns: {{columns}}.",
	},
	{
		Category: "Marketing",
		Name:     "Ad Copy",
		Prompt:   "Generate 3 variations of ad copy for {{product_name}}. The target audience is {{audience}} and the key benefit is {{benefit}}. The tone should be {{tone}}.",
	},
}

// Library holds the built-in templates plus any user templates.
type Library struct {
	templates []Template
}

// NewLibrary creates a library of the built-ins followed by extra.
// A user template with the same name as a built-in replaces it.
func NewLibrary(extra []Template) *Library {
	lib := &Library{templates: append([]Template(nil), builtins...)}
	for _, t := range extra {
		if t.Name == "" || t.Prompt == "" {
			continue
		}
		if i := lib.index(t.Name); i >= 0 {
			lib.templates[i] = t
			continue
		}
		lib.templates = append(lib.templates, t)
	}
	return lib
}

// All returns every template in definition order.
func (l *Library) All() []Template {
	return append([]Template(nil), l.templates...)
}

// Lookup finds a template by name, ignoring case.
func (l *Library) Lookup(name string) (Template, bool) {
	if i := l.index(name); i >= 0 {
		return l.templates[i], true
	}
	return Template{}, false
}

// Categories returns the distinct categories, sorted.
func (l *Library) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, t := range l.templates {
		cat := t.CategoryOrDefault()
		if !seen[cat] {
			seen[cat] = true
			cats = append(cats, cat)
		}
	}
	sort.Strings(cats)
	return cats
}

func (l *Library) index(name string) int {
	for i, t := range l.templates {
		if strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return -1
}
