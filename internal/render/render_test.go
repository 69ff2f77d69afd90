package render

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkup_Render(t *testing.T) {
	m := NewMarkup()

	t.Run("Paragraphs", func(t *testing.T) {
		out, err := m.Render("Description here.\n\nMore description.")
		require.NoError(t, err)
		assert.Equal(t, "<p>Description here.</p>\n<p>More description.</p>\n", out)
	})

	t.Run("Empty input", func(t *testing.T) {
		out, err := m.Render("")
		require.NoError(t, err)
		assert.Empty(t, out)

		out, err = m.Render("  \n\n ")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("Raw HTML is not passed through", func(t *testing.T) {
		out, err := m.Render("<script>alert(1)</script>")
		require.NoError(t, err)
		assert.NotContains(t, out, "<script>")
	})
}

func TestTemplate_Render(t *testing.T) {
	tpl, err := NewTemplate()
	require.NoError(t, err)

	t.Run("Modifier bound", func(t *testing.T) {
		out, err := tpl.Render(`<p class="{{ modifier }}">fox</p>`, map[string]string{"modifier": "emphasis"})
		require.NoError(t, err)
		assert.Equal(t, `<p class="emphasis">fox</p>`, out)
	})

	t.Run("Empty modifier", func(t *testing.T) {
		out, err := tpl.Render(`<p class="{{ modifier }}">fox</p>`, map[string]string{"modifier": ""})
		require.NoError(t, err)
		assert.Equal(t, `<p class="">fox</p>`, out)
	})

	t.Run("Unknown variable renders empty", func(t *testing.T) {
		out, err := tpl.Render(`<b>{{ other }}</b>`, nil)
		require.NoError(t, err)
		assert.Equal(t, `<b></b>`, out)
	})

	t.Run("Syntax error", func(t *testing.T) {
		_, err := tpl.Render(`{% if %}`, nil)
		assert.Error(t, err)
	})

	t.Run("Include is banned", func(t *testing.T) {
		_, err := tpl.Render(`{% include "/etc/passwd" %}`, nil)
		assert.Error(t, err)
	})
}

func TestTemplate_ConcurrentUse(t *testing.T) {
	tpl, err := NewTemplate()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, mod := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := tpl.Render(`{{ modifier }}`, map[string]string{"modifier": mod})
			assert.NoError(t, err)
			assert.Equal(t, mod, out)
		}()
	}
	wg.Wait()
}
