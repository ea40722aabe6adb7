package app

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/piwi3910/packga/internal/model"
	"github.com/piwi3910/packga/internal/project"
)

// commonFlags are shared by the search commands. Values only override the
// config file when the flag was given on the command line.
type commonFlags struct {
	config         string
	seed           int64
	maxGenerations int
	image          string
	save           string
	historyDB      string
	metricsAddr    string
	logLevel       string
	logFormat      string
	progressEvery  int
	compareSeeds   string

	seeds []int64
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.config, "config", project.DefaultConfigPath(), "YAML run config")
	fs.Int64Var(&c.seed, "seed", 0, "random seed, 0 picks one from the clock")
	fs.IntVar(&c.maxGenerations, "max-generations", 0, "stop after this many generations, 0 runs until optimum or interrupt")
	fs.StringVar(&c.image, "image", "", "render the best layout to this .png, .pdf or .dxf file")
	fs.StringVar(&c.save, "save", "", "write a JSON result snapshot to this file")
	fs.StringVar(&c.historyDB, "history-db", "", "record the run in this SQLite database")
	fs.StringVar(&c.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	fs.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&c.logFormat, "log-format", "", "text or json")
	fs.IntVar(&c.progressEvery, "progress-every", 0, "log every Nth generation")
	fs.StringVar(&c.compareSeeds, "compare-seeds", "", "comma separated seeds to compare with bounded runs")
	return c
}

// resolve loads the config file and applies the flags that were set.
func (c *commonFlags) resolve(fs *flag.FlagSet) (model.AppConfig, error) {
	cfg, err := project.LoadConfig(c.config)
	if err != nil {
		return model.AppConfig{}, configError{err}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Genetic.Seed = c.seed
		case "max-generations":
			cfg.Genetic.MaxGenerations = c.maxGenerations
		case "image":
			cfg.Output.Image = c.image
		case "save":
			cfg.Output.Snapshot = c.save
		case "history-db":
			cfg.Output.HistoryDB = c.historyDB
		case "metrics-addr":
			cfg.Metrics.Addr = c.metricsAddr
		case "log-level":
			cfg.Logging.Level = c.logLevel
		case "log-format":
			cfg.Logging.Format = c.logFormat
		case "progress-every":
			cfg.Output.ProgressEvery = c.progressEvery
		}
	})

	if err := cfg.Genetic.Validate(); err != nil {
		return model.AppConfig{}, configError{err}
	}
	if c.compareSeeds != "" {
		if c.seeds, err = parseSeeds(c.compareSeeds); err != nil {
			return model.AppConfig{}, configError{err}
		}
		if cfg.Genetic.MaxGenerations <= 0 {
			return model.AppConfig{}, configErrorf("--compare-seeds needs --max-generations")
		}
	}
	return cfg, nil
}

func parseSeeds(s string) ([]int64, error) {
	var seeds []int64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		seed, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q", field)
		}
		seeds = append(seeds, seed)
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no seeds in %q", s)
	}
	return seeds, nil
}

// newLogger builds the slog logger selected by the logging config.
func newLogger(w io.Writer, cfg model.LoggingConfig) (*slog.Logger, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, configErrorf("invalid log level %q", cfg.Level)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, configErrorf("invalid log format %q", cfg.Format)
	}
}
