// Package index builds a style guide document from stylesheet sources.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"styledoc/internal/crawler"
	"styledoc/internal/docblock"
	"styledoc/internal/extractor"
	"styledoc/internal/styleguide"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Diagnostic records a fragment that declared a position but failed to parse.
type Diagnostic struct {
	Source   string
	Fragment string
	Err      error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %v", d.Source, d.Err)
}

// Stats counts what a build saw.
type Stats struct {
	Sources   int
	Fragments int
	Sections  int
	Skipped   int // fragments without a valid declaration
}

// Result is the outcome of a build.
type Result struct {
	Document    *styleguide.Document
	Stats       Stats
	Diagnostics []Diagnostic
}

// Indexer orchestrates extraction and parsing.
type Indexer struct {
	extractor extractor.Extractor
	parser    *docblock.Parser
	workers   int
	log       logrus.FieldLogger
}

// NewIndexer creates a new indexer. workers bounds how many sources are
// parsed at once; values below 1 mean one.
func NewIndexer(ext extractor.Extractor, parser *docblock.Parser, workers int, log logrus.FieldLogger) *Indexer {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Indexer{
		extractor: ext,
		parser:    parser,
		workers:   workers,
		log:       log,
	}
}

type sourceResult struct {
	sections    []styleguide.Section
	fragments   int
	skipped     int
	diagnostics []Diagnostic
}

// BuildGuide parses every source from p and merges the sections into one
// document. Fragments that fail to render are reported as diagnostics and
// do not stop the build.
func (i *Indexer) BuildGuide(ctx context.Context, title string, p crawler.Provider) (*Result, error) {
	sources, err := p.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect sources: %w", err)
	}

	results := make([]sourceResult, len(sources))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(i.workers)

	for n, src := range sources {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[n] = i.parseSource(src)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Merge once every source is done.
	res := &Result{Stats: Stats{Sources: len(sources)}}
	var sections []styleguide.Section
	for _, r := range results {
		sections = append(sections, r.sections...)
		res.Stats.Fragments += r.fragments
		res.Stats.Skipped += r.skipped
		res.Diagnostics = append(res.Diagnostics, r.diagnostics...)
	}
	res.Document = styleguide.NewDocument(title, sections)
	res.Stats.Sections = res.Document.Len()
	return res, nil
}

func (i *Indexer) parseSource(src crawler.Source) sourceResult {
	var r sourceResult
	for fragment := range i.extractor.Blocks(src.Text) {
		r.fragments++

		section, ok, err := i.parser.Parse(fragment)
		if err != nil {
			d := Diagnostic{Source: src.Name, Fragment: fragment, Err: err}
			i.log.WithFields(logrus.Fields{
				"source":   src.Name,
				"fragment": fragment,
			}).WithError(err).Warn("skipping fragment")
			r.diagnostics = append(r.diagnostics, d)
			continue
		}
		if !ok {
			r.skipped++
			continue
		}
		section.Source = src.Name
		r.sections = append(r.sections, section)
	}

	i.log.WithFields(logrus.Fields{
		"source":    src.Name,
		"fragments": r.fragments,
		"sections":  len(r.sections),
	}).Debug("parsed source")
	return r
}

// SaveGuide writes the document to a JSON file.
func SaveGuide(doc *styleguide.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create guide file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode guide: %w", err)
	}
	return nil
}

// LoadGuide loads a document from a JSON file.
func LoadGuide(path string) (*styleguide.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open guide file: %w", err)
	}
	defer f.Close()

	doc := &styleguide.Document{}
	if err := json.NewDecoder(f).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode guide: %w", err)
	}
	return doc, nil
}
