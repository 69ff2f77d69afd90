package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"styledoc/internal/config"
	"styledoc/internal/crawler"
	"styledoc/internal/docblock"
	"styledoc/internal/extractor"
	"styledoc/internal/generator"
	"styledoc/internal/index"
	"styledoc/internal/render"
	"styledoc/internal/server"
	"styledoc/internal/storage"
	"styledoc/internal/styleguide"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "styledoc",
		Short: "Build living style guides from stylesheet comments",
	}
	configPath string
	dbPath     string
	useExample bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "styledoc.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the style guide database (SQLite); overrides storage.db_path")
	rootCmd.PersistentFlags().BoolVar(&useExample, "example", false, "Use the built-in example stylesheet instead of scanning")

	buildCmd.Flags().String("out", "", "Also write the built guide as JSON to this path")
	buildCmd.Flags().String("report", "", "Write a pipeline report to this path")
	exportCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown or html")
	exportCmd.Flags().StringP("output", "o", "docs", "Output directory")
	exportCmd.Flags().Bool("fresh", false, "Rebuild from sources instead of reading the database")
	exportCmd.Flags().String("from", "", "Read the guide from a JSON file written by build --out")
	sectionsCmd.Flags().Bool("fresh", false, "Rebuild from sources instead of reading the database")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

// app holds what every command needs.
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

func setup(args []string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Project.Root = args[0]
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	return &app{cfg: cfg, log: log}, nil
}

func (a *app) provider() crawler.Provider {
	if useExample {
		return crawler.ExampleSources()
	}
	return a.crawler()
}

func (a *app) crawler() *crawler.Crawler {
	return crawler.NewCrawler(a.cfg.Project.Root,
		crawler.WithExtensions(a.cfg.Project.Extensions...),
		crawler.WithIgnored(slices.Concat(crawler.DefaultIgnored, a.cfg.Project.Ignore)...),
		crawler.WithWorkers(a.cfg.Extractor.Workers),
		crawler.WithLogger(a.log),
	)
}

func (a *app) indexer() (*index.Indexer, error) {
	ext, err := extractor.NewExtractor(a.cfg.Extractor.Mode)
	if err != nil {
		return nil, err
	}
	tpl, err := render.NewTemplate()
	if err != nil {
		return nil, err
	}
	parser := docblock.NewParser(render.NewMarkup(), tpl)
	return index.NewIndexer(ext, parser, a.cfg.Extractor.Workers, a.log), nil
}

func (a *app) build(ctx context.Context) (*index.Result, error) {
	idx, err := a.indexer()
	if err != nil {
		return nil, err
	}
	return idx.BuildGuide(ctx, a.cfg.Guide.Title, a.provider())
}

// document reads the stored guide, or builds one when fresh is set or
// nothing has been stored yet.
func (a *app) document(ctx context.Context, fresh bool) (*styleguide.Document, error) {
	if !fresh {
		store, err := storage.NewSQLiteStore(a.cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		doc, err := store.LoadDocument(ctx)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		a.log.WithField("db", a.cfg.Storage.DBPath).Info("no stored guide, building from sources")
	}
	res, err := a.build(ctx)
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

// sections looks position up in the database, or in a fresh build when
// fresh is set or nothing has been stored yet.
func (a *app) sections(ctx context.Context, position string, fresh bool) ([]styleguide.Section, error) {
	if !fresh {
		store, err := storage.NewSQLiteStore(a.cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		sections, err := store.FindSections(ctx, position)
		if err == nil {
			return sections, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		a.log.WithField("db", a.cfg.Storage.DBPath).Info("no stored guide, building from sources")
	}
	res, err := a.build(ctx)
	if err != nil {
		return nil, err
	}
	return res.Document.Sections(position), nil
}

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Scan stylesheets and store the style guide",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out, _ := cmd.Flags().GetString("out")
		reportPath, _ := cmd.Flags().GetString("report")
		report := generator.NewPipelineReport("build")

		fmt.Printf("📂 Scanning: %s\n", a.cfg.Project.Root)
		stage := report.BeginStage("index")
		start := time.Now()
		res, err := a.build(ctx)
		if err != nil {
			report.EndStage(stage, nil, err)
			saveReport(a, report, reportPath)
			return fmt.Errorf("build failed: %w", err)
		}
		report.EndStage(stage, map[string]float64{
			"sources":   float64(res.Stats.Sources),
			"fragments": float64(res.Stats.Fragments),
			"sections":  float64(res.Stats.Sections),
			"skipped":   float64(res.Stats.Skipped),
		}, nil)
		for _, d := range res.Diagnostics {
			report.AddSignal("render_failed", "index", "warning", d.Err.Error(), d.Source)
		}
		fmt.Printf("✅ Built %d sections from %d sources in %v.\n", res.Stats.Sections, res.Stats.Sources, time.Since(start))

		stage = report.BeginStage("store")
		store, err := storage.NewSQLiteStore(a.cfg.Storage.DBPath)
		if err != nil {
			report.EndStage(stage, nil, err)
			saveReport(a, report, reportPath)
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		err = store.SaveDocument(ctx, res.Document)
		report.EndStage(stage, nil, err)
		if err != nil {
			saveReport(a, report, reportPath)
			return fmt.Errorf("failed to save guide: %w", err)
		}

		if out != "" {
			if err := index.SaveGuide(res.Document, out); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
		}
		saveReport(a, report, reportPath)

		fmt.Printf("🎉 Done! Database: %s\n", a.cfg.Storage.DBPath)
		return nil
	},
}

func saveReport(a *app, report *generator.PipelineReport, path string) {
	if path == "" {
		return
	}
	if err := report.Save(path); err != nil {
		a.log.WithError(err).WithField("path", path).Warn("failed to write pipeline report")
	}
}

var sectionsCmd = &cobra.Command{
	Use:   "sections [position]",
	Short: "List sections at or below a position",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(nil)
		if err != nil {
			return err
		}
		fresh, _ := cmd.Flags().GetBool("fresh")
		position := ""
		if len(args) > 0 {
			position = args[0]
		}

		sections, err := a.sections(cmd.Context(), position, fresh)
		if err != nil {
			return err
		}
		for _, s := range sections {
			fmt.Printf("%*s%s\n", 2*s.Depth(), "", s)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the style guide as Markdown or static HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(nil)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		fresh, _ := cmd.Flags().GetBool("fresh")
		from, _ := cmd.Flags().GetString("from")

		var doc *styleguide.Document
		if from != "" {
			doc, err = index.LoadGuide(from)
		} else {
			doc, err = a.document(cmd.Context(), fresh)
		}
		if err != nil {
			return err
		}

		switch format {
		case "markdown", "md":
			path, err := generator.GenerateDocs(doc, output)
			if err != nil {
				return fmt.Errorf("failed to generate docs: %w", err)
			}
			fmt.Printf("✅ Documentation generated in %s\n", path)
		case "html":
			pages, err := generator.NewHTMLRenderer(a.cfg.Guide.TemplatesDir)
			if err != nil {
				return err
			}
			files, err := pages.ExportHTML(doc, output)
			if err != nil {
				return fmt.Errorf("failed to export html: %w", err)
			}
			fmt.Printf("✅ %d pages written to %s\n", len(files), filepath.Clean(output))
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Browse the style guide over HTTP",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(args)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := a.build(ctx)
		if err != nil {
			return err
		}
		pages, err := generator.NewHTMLRenderer(a.cfg.Guide.TemplatesDir)
		if err != nil {
			return err
		}
		srv := server.New(res.Document, pages, a.log)

		if a.cfg.Server.Watch && !useExample {
			cr := a.crawler()
			w := &server.Watcher{
				Root:  a.cfg.Project.Root,
				Match: cr.Match,
				Skip:  cr.Ignored,
				Rebuild: func(ctx context.Context) error {
					res, err := a.build(ctx)
					if err != nil {
						return err
					}
					srv.Reload(res.Document)
					return nil
				},
				Log: a.log,
			}
			go func() {
				if err := w.Run(ctx); err != nil {
					a.log.WithError(err).Error("watcher stopped")
				}
			}()
		}

		fmt.Printf("🚀 Serving %d sections on %s\n", res.Document.Len(), a.cfg.Server.Addr)
		return srv.ListenAndServe(ctx, a.cfg.Server.Addr)
	},
}
