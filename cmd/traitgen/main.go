package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/setanarut/traitgen"
	"github.com/setanarut/traitgen/config"
	"github.com/setanarut/traitgen/metrics"
	"github.com/setanarut/traitgen/utils"
)

const (
	exitOK           = 0
	exitFailure      = 1
	exitUsage        = 2
	exitInsufficient = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	cfg, err := config.Load(args, errOut)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(errOut, "traitgen: %v\n", err)
		return exitUsage
	}

	log := utils.NewLogger(cfg.Log.Level, cfg.Log.Format, errOut)
	slog.SetDefault(log)

	if err := generate(ctx, cfg, log, out); err != nil {
		log.Error("run failed", "error", err)
		if traitgen.IsInsufficientAssets(err) {
			return exitInsufficient
		}
		return exitFailure
	}
	return exitOK
}

func generate(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer) error {
	if created, err := utils.EnsureDir(cfg.Assets); err != nil {
		return err
	} else if created {
		log.Info("created assets directory", "path", cfg.Assets)
	}

	cat := traitgen.NewCatalog(cfg.Assets)
	layers := cfg.Layers
	if len(layers) == 0 {
		var err error
		if layers, err = cat.Layers(); err != nil {
			return err
		}
		if len(layers) == 0 {
			return fmt.Errorf("no layer directories under %s", cfg.Assets)
		}
		log.Info("using discovered layers", "layers", layers)
	}

	// Reject infeasible requests before touching the output directory.
	capacity, err := cat.Capacity(layers)
	if err != nil {
		return err
	}
	if uint64(cfg.Amount) > capacity {
		return &traitgen.InsufficientAssetsError{Amount: cfg.Amount, Capacity: capacity}
	}

	sink := traitgen.NewDirSink(cfg.Output)
	if _, err := utils.EnsureDir(cfg.Output); err != nil {
		return err
	}
	for _, dir := range []string{sink.ImagesDir, sink.MetadataDir} {
		if err := utils.ResetDir(dir); err != nil {
			return err
		}
	}

	reporter := metrics.NewReporter(cfg.Amount, log)
	opt := cfg.Options()
	opt.Progress = reporter
	opt.Logger = log

	tokens, genErr := traitgen.NewGenerator(cat, sink, opt).Generate(ctx, cfg.Amount, layers, cfg.Collection)

	if cfg.Metrics.Textfile != "" {
		if err := reporter.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}
	if genErr != nil {
		return genErr
	}

	if cfg.Rarity.Report {
		report := traitgen.BuildRarityReport(layers, tokens)
		doc, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.Output, "rarity.json")
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return &traitgen.WriteError{Path: path, Err: err}
		}
	}

	fmt.Fprintf(out, "generated %d tokens in %s\n", reporter.Done(), cfg.Output)
	return nil
}
