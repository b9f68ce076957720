package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/hwstat/internal/config"
	"codeberg.org/mutker/hwstat/internal/errors"
	"codeberg.org/mutker/hwstat/internal/export"
	"codeberg.org/mutker/hwstat/internal/iostat"
	"codeberg.org/mutker/hwstat/internal/logger"
	"codeberg.org/mutker/hwstat/internal/runner"
	"codeberg.org/mutker/hwstat/internal/sensors"
	"codeberg.org/mutker/hwstat/internal/store"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	logger.Debug().
		Str("command", string(cfg.Command)).
		Str("format", cfg.Format).
		Str("input", cfg.Input).
		Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx, cfg); err != nil {
		var coded errors.Error
		if errors.As(err, &coded) {
			logger.ErrorWithCode(coded).Msg("hwstat failed")
		} else {
			logger.Error().Err(err).Msg("hwstat failed")
		}
		cancel()
		os.Exit(1)
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func run(ctx context.Context, cfg *config.Config) error {
	doc, err := collect(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.Format == string(export.FormatSQLite) {
		return save(ctx, cfg, doc)
	}

	w, closeFn, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	if err := export.Write(w, export.Format(cfg.Format), doc); err != nil {
		closeFn()
		return err
	}

	return closeFn()
}

func collect(ctx context.Context, cfg *config.Config) (export.Document, error) {
	var doc export.Document

	switch cfg.Command {
	case config.CommandSensors:
		report, err := collectSensors(ctx, cfg)
		if err != nil {
			return doc, err
		}
		doc.Sensors = report

	case config.CommandIOStat:
		snapshot, err := collectIOStat(ctx, cfg)
		if err != nil {
			return doc, err
		}
		doc.IOStat = snapshot

	case config.CommandAll:
		eg, ctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			report, err := collectSensors(ctx, cfg)
			doc.Sensors = report
			return err
		})
		eg.Go(func() error {
			snapshot, err := collectIOStat(ctx, cfg)
			doc.IOStat = snapshot
			return err
		})
		if err := eg.Wait(); err != nil {
			return export.Document{}, err
		}
	}

	return doc, nil
}

func source(cfg *config.Config, bin string, args []string) runner.Source {
	if cfg.Input != "" {
		return runner.File{Path: cfg.Input}
	}
	return runner.Command{Path: bin, Args: args, Timeout: cfg.Timeout}
}

func collectSensors(ctx context.Context, cfg *config.Config) (*sensors.Report, error) {
	text, err := source(cfg, cfg.SensorsBin, cfg.SensorsArgs).Output(ctx)
	if err != nil {
		return nil, err
	}

	report, err := sensors.Parse(ctx, text)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("groups", len(report.Groups)).
		Int("sensors", report.Len()).
		Msg("Parsed sensors output")

	return report, nil
}

func collectIOStat(ctx context.Context, cfg *config.Config) (*iostat.Snapshot, error) {
	text, err := source(cfg, cfg.IOStatBin, cfg.IOStatArgs).Output(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := iostat.Parse(text)
	if err != nil {
		return nil, err
	}

	devices := 0
	if snapshot.Devices != nil {
		devices = len(snapshot.Devices.Rows)
	}
	logger.Info().
		Bool("kernel", snapshot.Kernel != nil).
		Bool("cpu", snapshot.CPU != nil).
		Int("devices", devices).
		Msg("Parsed iostat output")

	return snapshot, nil
}

func save(ctx context.Context, cfg *config.Config, doc export.Document) error {
	storeCfg := store.DefaultConfig()
	storeCfg.DBPath = cfg.Database

	repo, err := store.NewRepository(storeCfg, logger.Default())
	if err != nil {
		return err
	}

	if doc.Sensors != nil {
		if err := repo.SaveReport(ctx, doc.Sensors); err != nil {
			repo.Close()
			return err
		}
	}

	if doc.IOStat != nil {
		if err := repo.SaveSnapshot(ctx, doc.IOStat); err != nil {
			repo.Close()
			return err
		}
	}

	return repo.Close()
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.New().Wrap(errors.ErrWriteOutput, err)
	}

	return f, f.Close, nil
}
