package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLibrary_Builtins(t *testing.T) {
	lib := NewLibrary(nil)

	all := lib.All()
	require.Len(t, all, 5)
	assert.Equal(t, "Summarize Content", all[0].Name)

	tmpl, ok := lib.Lookup("summarize content")
	require.True(t, ok)
	assert.Equal(t, []string{"language", "text"}, tmpl.Variables())
}

func TestNewLibrary_UserTemplates(t *testing.T) {
	lib := NewLibrary([]Template{
		{Category: "Support", Name: "Reply", Prompt: "Reply to {{customer}}"},
		{Name: "Ad Copy", Prompt: "Short ad for {{product}}"},
		{Name: "", Prompt: "skipped"},
		{Name: "No prompt"},
	})

	all := lib.All()
	require.Len(t, all, 6)

	reply, ok := lib.Lookup("Reply")
	require.True(t, ok)
	assert.Equal(t, "Support", reply.Category)

	ad, ok := lib.Lookup("ad copy")
	require.True(t, ok)
	assert.Equal(t, "Short ad for {{product}}", ad.Prompt)

	_, ok = lib.Lookup("No prompt")
	assert.False(t, ok)
}

func TestLibrary_AllReturnsCopy(t *testing.T) {
	lib := NewLibrary(nil)

	all := lib.All()
	all[0].Name = "changed"

	first := lib.All()[0]
	assert.Equal(t, "Summarize Content", first.Name)
}

func TestLibrary_Categories(t *testing.T) {
	lib := NewLibrary([]Template{{Name: "Loose", Prompt: "x"}})

	assert.Equal(t, []string{"Code Generation", "Content Creation", "Marketing", "Other"}, lib.Categories())
}
