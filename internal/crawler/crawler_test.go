package crawler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCrawler_Sources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "base.css", "/* base */\n")
	writeFile(t, root, "components/buttons.SCSS", "// buttons\n")
	writeFile(t, root, "components/readme.md", "# not a stylesheet\n")
	writeFile(t, root, "node_modules/lib/lib.css", "/* vendored */\n")
	writeFile(t, root, "theme/dark.less", "// dark\n")

	c := NewCrawler(root)
	sources, err := c.Sources(context.Background())
	require.NoError(t, err)

	var names []string
	for _, s := range sources {
		names = append(names, s.Name)
	}

	t.Run("Matching files in walk order", func(t *testing.T) {
		assert.Equal(t, []string{"base.css", "components/buttons.SCSS", "theme/dark.less"}, names)
	})

	t.Run("Contents", func(t *testing.T) {
		assert.Equal(t, "/* base */\n", sources[0].Text)
	})
}

func TestCrawler_Options(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.css", "a")
	writeFile(t, root, "b.styl", "b")
	writeFile(t, root, "node_modules/c.styl", "c")

	c := NewCrawler(root, WithExtensions(".styl"), WithIgnored("build"), WithWorkers(1))
	sources, err := c.Sources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "b.styl", sources[0].Name)
	assert.Equal(t, "node_modules/c.styl", sources[1].Name)
}

func TestCrawler_UnreadableFileIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	root := t.TempDir()
	writeFile(t, root, "ok.css", "ok")
	writeFile(t, root, "locked.css", "locked")
	require.NoError(t, os.Chmod(filepath.Join(root, "locked.css"), 0))

	logger, hook := test.NewNullLogger()
	sources, err := NewCrawler(root, WithLogger(logger)).Sources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "ok.css", sources[0].Name)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestCrawler_MissingRoot(t *testing.T) {
	_, err := NewCrawler(filepath.Join(t.TempDir(), "missing")).Sources(context.Background())
	assert.Error(t, err)
}

func TestExampleSources(t *testing.T) {
	sources, err := ExampleSources().Sources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "example.scss", sources[0].Name)
	assert.Contains(t, sources[0].Text, "Styleguide 1.3")
}
