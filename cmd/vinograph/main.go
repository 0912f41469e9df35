// vinograph turns wine reviews into flavor timelines and recommendations.
//
// Usage:
//
//	vinograph profile -id 1234        # build or load a wine's flavor profile
//	vinograph curves  -id 1234        # synthesize streamgraph bands
//	vinograph similar -id 1234 -k 5   # rank similar wines as cards (-save stores them)
//	vinograph search  -q "chateau"    # accent-insensitive catalog search
//	vinograph regions                 # refresh the winery -> region map
//	vinograph rebuild -force          # regenerate stored profiles
//	vinograph coverage                # lexicon coverage of the review corpus
//	vinograph serve                   # read-only HTTP API + /metrics
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/internal/metrics"
	"github.com/cognicore/vinograph/pkg/vinograph"
	"github.com/cognicore/vinograph/pkg/vinograph/config"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string, out io.Writer) error
}

var commands = []command{
	{"profile", "build or load a wine's flavor profile", runProfile},
	{"curves", "print the streamgraph bands for a wine", runCurves},
	{"similar", "recommend wines that taste alike", runSimilar},
	{"search", "search the catalog by name, winery or region", runSearch},
	{"regions", "rebuild the winery -> region map", runRegions},
	{"rebuild", "regenerate stored profiles", runRebuild},
	{"coverage", "report review words the lexicon misses", runCoverage},
	{"serve", "serve the HTTP API", runServe},
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage(os.Stdout)
		return
	}

	cmd, ok := findCommand(os.Args[1])
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := cmd.run(context.Background(), os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vinograph <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Every command accepts -config <file.yaml>; run `vinograph <command> -h` for its flags.")
}

// app bundles what a command needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	comp   *config.Components
	engine *vinograph.Engine
	log    *zap.Logger
}

// context returns ctx carrying the app's logger.
func (a *app) context(ctx context.Context) context.Context {
	return logger.ContextWithLogger(ctx, a.log)
}

// buildEngine loads configuration (defaults when configPath is empty) and
// wires the engine. The returned cleanup closes the store and flushes logs.
func buildEngine(ctx context.Context, configPath string) (*app, func(), error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
	}

	log, err := logger.NewLogger(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	metrics.Register()

	loader := config.Loader{Config: cfg}
	comp, err := loader.Load(logger.ContextWithLogger(ctx, log))
	if err != nil {
		_ = log.Sync()
		return nil, nil, fmt.Errorf("load components: %w", err)
	}

	engine := vinograph.FromComponents(comp, cfg)
	cleanup := func() {
		if err := engine.Close(); err != nil {
			log.Warn("closing store", zap.Error(err))
		}
		_ = log.Sync()
	}
	return &app{cfg: cfg, comp: comp, engine: engine, log: log}, cleanup, nil
}

// newFlagSet returns a flag set with the shared -config flag.
func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "Config file (optional, defaults apply)")
	return fs, configPath
}
