// Command talksearch serves and queries a keyword index over recorded talks.
//
//	talksearch serve                        # HTTP API + search page
//	talksearch search --limit 5 faith hope  # one-shot query
//	talksearch import --in talks.json.gz --db talks.db
//
// Configuration comes from the environment (and a .env file when present).
//
// @title       Talk Search API
// @version     1.0
// @description Keyword search over recorded talks with transcript passages.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/tbourn/go-talk-search/internal/config"
	"github.com/tbourn/go-talk-search/internal/corpus"
	httpapi "github.com/tbourn/go-talk-search/internal/http"
	"github.com/tbourn/go-talk-search/internal/observability"
	"github.com/tbourn/go-talk-search/internal/repo"
	"github.com/tbourn/go-talk-search/internal/services"
	"github.com/tbourn/go-talk-search/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	metaConfig      = "config"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("talksearch failed")
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "talksearch",
		Usage:   "Keyword search over recorded talks",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override LOG_LEVEL (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file if it exists",
				Value: ".env",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serveCommand,
			},
			{
				Name:      "search",
				Usage:     "Search the corpus and print ranked talks",
				ArgsUsage: "<query words...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results (0 = DEFAULT_MAX_RESULTS)",
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Copy a JSON corpus (optionally gzip) into a SQLite database",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "in",
						Aliases:  []string{"i"},
						Usage:    "Path to the JSON corpus file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the SQLite database file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Import only the first N records (0 = all)",
					},
				},
			},
		},
	}
}

// setup loads .env and the configuration, then configures the global logger.
func setup(c *cli.Context) error {
	if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.LogLevel = sysutil.FirstNonEmpty(c.String("log-level"), cfg.LogLevel)
	sysutil.ConfigureLogger(c.App.ErrWriter, cfg.LogLevel, cfg.LogPretty)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[metaConfig] = cfg
	return nil
}

func configFrom(c *cli.Context) config.Config {
	cfg, _ := c.App.Metadata[metaConfig].(config.Config)
	return cfg
}

// openSource returns the configured record source and a function releasing it.
func openSource(cc config.CorpusConfig) (corpus.Source, func(), error) {
	switch cc.Source {
	case config.SourceSQLite:
		src, err := corpus.OpenSQLiteSource(cc.DBPath)
		if err != nil {
			return nil, nil, err
		}
		release := func() {
			if sqlDB, err := src.DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return src, release, nil
	default:
		return corpus.JSONSource{Path: cc.Path}, func() {}, nil
	}
}

func newService(cfg config.Config, src corpus.Source) *services.SearchService {
	return services.NewSearchService(src, services.SearchOptions{
		Limit:             cfg.Corpus.Limit,
		DefaultMaxResults: cfg.Search.DefaultMaxResults,
		MaxResultsCap:     cfg.Search.MaxResultsCap,
		MaxQueryRunes:     cfg.Search.MaxQueryRunes,
	})
}

func serveCommand(c *cli.Context) error {
	cfg := configFrom(c)
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, release, err := openSource(cfg.Corpus)
	if err != nil {
		return err
	}
	defer release()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, observability.BuildInfo{
		Version:      version,
		CorpusSource: src.Name(),
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	svc := newService(cfg, src)
	if cfg.Corpus.EagerLoad {
		// /ready answers 503 until this finishes; a failure is retried on
		// the next search.
		go func() {
			if err := svc.EnsureLoaded(ctx); err != nil {
				log.Warn().Err(err).Msg("initial corpus load failed")
			}
		}()
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, svc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("corpus", src.Name()).
			Str("version", version).
			Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("search: a query is required")
	}
	if c.Int("limit") < 0 {
		return errors.New("search: --limit must not be negative")
	}

	cfg := configFrom(c)
	src, release, err := openSource(cfg.Corpus)
	if err != nil {
		return err
	}
	defer release()

	svc := newService(cfg, src)
	if err := svc.EnsureLoaded(c.Context); err != nil {
		return err
	}
	out, err := svc.Search(c.Context, query, c.Int("limit"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(out.Results) == 0 {
		fmt.Fprintf(w, "No results for %q in %d talks.\n", query, out.CorpusSize)
		return nil
	}
	for i, r := range out.Results {
		fmt.Fprintf(w, "%d. %s (%s)  score=%d\n", i+1, r.Title, r.Date, r.Score)
		if r.URL != "" {
			fmt.Fprintf(w, "   %s\n", r.URL)
		}
		for _, p := range r.Passages {
			fmt.Fprintf(w, "   > %s\n", p)
		}
	}
	return nil
}

func importCommand(c *cli.Context) error {
	in, dbPath := c.String("in"), c.String("db")
	if c.Int("limit") < 0 {
		return errors.New("import: --limit must not be negative")
	}

	// The loader applies the limit and rejects duplicate identifiers before
	// anything is written.
	cor, err := corpus.NewLoader(corpus.JSONSource{Path: in}, corpus.WithLimit(c.Int("limit"))).
		EnsureLoaded(c.Context)
	if err != nil {
		return err
	}

	db, err := repo.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	n, err := repo.ReplaceTalks(c.Context, db, cor.All())
	if err != nil {
		return fmt.Errorf("write talks: %w", err)
	}

	log.Info().Str("in", in).Str("db", dbPath).Int("talks", n).Msg("import complete")
	fmt.Fprintf(c.App.Writer, "Imported %d talks into %s\n", n, dbPath)
	return nil
}
