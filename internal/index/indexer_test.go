package index

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"styledoc/internal/crawler"
	"styledoc/internal/docblock"
	"styledoc/internal/extractor"
	"styledoc/internal/render"
	"styledoc/internal/styleguide"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer(t *testing.T, log logrus.FieldLogger) *Indexer {
	t.Helper()
	tpl, err := render.NewTemplate()
	require.NoError(t, err)
	return NewIndexer(
		extractor.NewLineExtractor(extractor.DefaultSyntax),
		docblock.NewParser(render.NewMarkup(), tpl),
		4,
		log,
	)
}

func positions(sections []styleguide.Section) []string {
	var out []string
	for _, s := range sections {
		out = append(out, s.Position)
	}
	return out
}

func TestIndexer_BuildGuide_Example(t *testing.T) {
	ix := newTestIndexer(t, nil)

	res, err := ix.BuildGuide(context.Background(), "", crawler.ExampleSources())
	require.NoError(t, err)

	doc := res.Document
	assert.Equal(t, styleguide.DefaultTitle, doc.Title)
	assert.Equal(t, []string{"1", "1.1", "1.2", "1.3"}, positions(doc.Sections("")))
	assert.Equal(t, Stats{Sources: 1, Fragments: 4, Sections: 4}, res.Stats)
	assert.Empty(t, res.Diagnostics)

	lists, ok := doc.Section("1.3")
	require.True(t, ok)
	assert.Equal(t, "Lists", lists.Title)
	assert.Equal(t, "example.scss", lists.Source)
	require.Len(t, lists.Modifiers, 2)
	assert.Contains(t, lists.Modifiers[1].Template, `<ul class="fancy">`)
	assert.Contains(t, lists.Template, `<ul class="">`)
}

func TestIndexer_BuildGuide_MergesAcrossSources(t *testing.T) {
	ix := newTestIndexer(t, nil)
	sources := crawler.Static{
		{Name: "b.scss", Text: "// Forms\n//\n// Styleguide 2\n\n// Inputs\n//\n// Styleguide 1.11\n"},
		{Name: "a.css", Text: "/* Base\n\nStyleguide 1 */\n\n/* Links\n\nStyleguide 1.2 */\n\n/* no declaration */\n"},
	}

	res, err := ix.BuildGuide(context.Background(), "Components", sources)
	require.NoError(t, err)

	assert.Equal(t, "Components", res.Document.Title)
	assert.Equal(t, []string{"1", "1.2", "1.11", "2"}, positions(res.Document.Sections("")))
	assert.Equal(t, []string{"1", "2"}, positions(res.Document.RootSections()))
	assert.Equal(t, 1, res.Stats.Skipped)
	assert.Equal(t, 5, res.Stats.Fragments)
}

func TestIndexer_BuildGuide_FragmentFailureIsIsolated(t *testing.T) {
	logger, hook := test.NewNullLogger()
	ix := newTestIndexer(t, logger)

	sources := crawler.Static{{
		Name: "broken.scss",
		Text: "// Bad\n//\n// <p>{% if %}</p>\n//\n// Styleguide 1\n\n// Good\n//\n// Styleguide 2\n",
	}}

	res, err := ix.BuildGuide(context.Background(), "", sources)
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, positions(res.Document.Sections("")))
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, "broken.scss", d.Source)
	assert.Contains(t, d.Fragment, "Styleguide 1")
	assert.True(t, errors.Is(d.Err, docblock.ErrRender))

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, "broken.scss", e.Data["source"])
		}
	}
	assert.True(t, warned)
}

type failingProvider struct{}

func (failingProvider) Sources(context.Context) ([]crawler.Source, error) {
	return nil, errors.New("disk on fire")
}

func TestIndexer_BuildGuide_ProviderError(t *testing.T) {
	_, err := newTestIndexer(t, nil).BuildGuide(context.Background(), "", failingProvider{})
	assert.ErrorContains(t, err, "disk on fire")
}

func TestIndexer_BuildGuide_Deterministic(t *testing.T) {
	ix := newTestIndexer(t, nil)
	first, err := ix.BuildGuide(context.Background(), "", crawler.ExampleSources())
	require.NoError(t, err)
	second, err := ix.BuildGuide(context.Background(), "", crawler.ExampleSources())
	require.NoError(t, err)
	assert.Equal(t, first.Document.Sections(""), second.Document.Sections(""))
}

func TestIndexer_SaveLoadGuide(t *testing.T) {
	ix := newTestIndexer(t, nil)
	res, err := ix.BuildGuide(context.Background(), "Saved", crawler.ExampleSources())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "guide.json")
	require.NoError(t, SaveGuide(res.Document, path))

	loaded, err := LoadGuide(path)
	require.NoError(t, err)
	assert.Equal(t, "Saved", loaded.Title)
	assert.Equal(t, res.Document.Sections(""), loaded.Sections(""))
}
