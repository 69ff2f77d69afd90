package render

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Tags that reach outside the template text.
var bannedTags = []string{"include", "ssi", "extends", "import"}

var errNoLoader = errors.New("template loading is disabled")

// Template renders example markup written in Django template syntax, e.g.
// <p class="{{ modifier }}">. Unknown variables render as the empty string.
type Template struct {
	mu  sync.Mutex // FromString writes to the set
	set *pongo2.TemplateSet
}

// NewTemplate creates a sandboxed template renderer.
func NewTemplate() (*Template, error) {
	set := pongo2.NewSet("styleguide", denyLoader{})
	for _, tag := range bannedTags {
		if err := set.BanTag(tag); err != nil {
			return nil, fmt.Errorf("ban tag %q: %w", tag, err)
		}
	}
	return &Template{set: set}, nil
}

// Render executes text with bindings.
func (t *Template) Render(text string, bindings map[string]string) (string, error) {
	t.mu.Lock()
	tpl, err := t.set.FromString(text)
	t.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("template: %w", err)
	}

	ctx := make(pongo2.Context, len(bindings))
	for k, v := range bindings {
		ctx[k] = v
	}

	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("template: %w", err)
	}
	return out, nil
}

// denyLoader refuses every lookup so templates cannot pull in files.
type denyLoader struct{}

func (denyLoader) Abs(base, name string) string {
	return name
}

func (denyLoader) Get(path string) (io.Reader, error) {
	return nil, fmt.Errorf("%w: %s", errNoLoader, path)
}
