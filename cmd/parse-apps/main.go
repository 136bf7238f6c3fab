package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/patentflow/patentflow/internal/run"
	"github.com/patentflow/patentflow/pkg/patent/classify"
	"github.com/patentflow/patentflow/pkg/patent/config"
	"github.com/patentflow/patentflow/pkg/patent/decompose"
	"github.com/patentflow/patentflow/pkg/patent/entity"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
		dir        = flag.String("dir", "", "Work directory for downloads (overrides config)")
		url        = flag.String("url", "", "Bulk listing URL (overrides config)")
		parse      = flag.String("parse", "", "Process one local XML file instead of the listing")
		parseAll   = flag.Bool("parseall", false, "With -force, reprocess finished files")
		force      = flag.Bool("force", false, "Allow the gate to supersede same-date documents")
		pretty     = flag.Bool("pretty", false, "Human-readable console log")
	)
	flag.Parse()

	log := buildLogger(*pretty)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("config", *configPath).Msg("load configuration")
		}
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *dir != "" {
		cfg.WorkDir = *dir
	}
	if *url != "" {
		cfg.ListingURL = *url
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	classes := classify.NewAccumulator()
	corpus := decompose.NewApp(classes)
	opts := run.Options{Parse: *parse, ParseAll: *parseAll, Force: *force}

	if err := run.Run(ctx, corpus, classes, entity.RelApplication, cfg, opts, log); err != nil {
		log.Fatal().Err(err).Msg("application run failed")
	}
}

func buildLogger(pretty bool) zerolog.Logger {
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
