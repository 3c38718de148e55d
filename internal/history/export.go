package history

import (
	"fmt"
	"strings"
	"time"
)

// Markdown renders entries as a markdown document, one section per entry.
func Markdown(title string, entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)

	if len(entries) == 0 {
		b.WriteString("\n_No entries._\n")
		return b.String()
	}

	for _, e := range entries {
		star := ""
		if e.IsFavorite {
			star = " ★"
		}
		fmt.Fprintf(&b, "\n## %s%s\n\n", e.TargetModel.DisplayName(), star)
		fmt.Fprintf(&b, "_%s · id %d_\n\n", e.CreatedAt().UTC().Format(time.RFC3339), e.ID)
		b.WriteString("### Original\n\n")
		writeFenced(&b, e.OriginalPrompt)
		b.WriteString("\n### Optimized\n\n")
		writeFenced(&b, e.OptimizedPrompt)
	}
	return b.String()
}

// writeFenced writes s in a code fence longer than any backtick run in s.
func writeFenced(b *strings.Builder, s string) {
	fence := "```"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	fmt.Fprintf(b, "%s\n%s\n%s\n", fence, s, fence)
}
