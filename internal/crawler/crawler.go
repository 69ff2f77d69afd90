package crawler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultExtensions are the stylesheet file types scanned when none are configured.
var DefaultExtensions = []string{".css", ".less", ".sass", ".scss"}

// DefaultIgnored directories are never descended into.
var DefaultIgnored = []string{".git", "node_modules", "vendor"}

// Source is the text of one stylesheet and the name it is reported under.
type Source struct {
	Name string
	Text string
}

// Provider supplies stylesheet sources.
type Provider interface {
	Sources(ctx context.Context) ([]Source, error)
}

// Crawler scans a directory tree for stylesheets.
type Crawler struct {
	root       string
	extensions []string
	ignored    []string
	workers    int
	log        logrus.FieldLogger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithExtensions overrides the file extensions to scan.
func WithExtensions(exts ...string) Option {
	return func(c *Crawler) {
		if len(exts) > 0 {
			c.extensions = exts
		}
	}
}

// WithIgnored overrides the directory names to skip.
func WithIgnored(dirs ...string) Option {
	return func(c *Crawler) {
		if len(dirs) > 0 {
			c.ignored = dirs
		}
	}
}

// WithWorkers bounds the number of files read at once.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Crawler) {
		c.log = log
	}
}

// NewCrawler creates a new crawler rooted at root.
func NewCrawler(root string, opts ...Option) *Crawler {
	c := &Crawler{
		root:       root,
		extensions: DefaultExtensions,
		ignored:    DefaultIgnored,
		workers:    8,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Match reports whether name has one of the configured extensions.
func (c *Crawler) Match(name string) bool {
	return slices.Contains(c.extensions, strings.ToLower(filepath.Ext(name)))
}

// Ignored reports whether a directory with this name is skipped.
func (c *Crawler) Ignored(name string) bool {
	return slices.Contains(c.ignored, name)
}

// ScanProject walks the root and calls onFile for every matching stylesheet,
// in lexical order.
func (c *Crawler) ScanProject(onFile func(path string) error) error {
	return filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != c.root && c.Ignored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !c.Match(d.Name()) {
			return nil
		}
		return onFile(path)
	})
}

// Sources reads every matching stylesheet. Files that cannot be read are
// logged and skipped; a failed walk aborts.
func (c *Crawler) Sources(ctx context.Context) ([]Source, error) {
	var paths []string
	if err := c.ScanProject(func(path string) error {
		paths = append(paths, path)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.root, err)
	}

	results := make([]*Source, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.workers)

	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				c.log.WithError(err).WithField("path", path).Warn("skipping unreadable stylesheet")
				return nil
			}
			results[i] = &Source{Name: c.name(path), Text: string(data)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(results))
	for _, s := range results {
		if s != nil {
			sources = append(sources, *s)
		}
	}
	return sources, nil
}

// name reports path relative to the root, with forward slashes.
func (c *Crawler) name(path string) string {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
