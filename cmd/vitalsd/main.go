package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/nholm/vitals/internal/config"
	"codeberg.org/nholm/vitals/internal/export"
	"codeberg.org/nholm/vitals/internal/health"
	"codeberg.org/nholm/vitals/internal/logger"
	"codeberg.org/nholm/vitals/internal/pid"
	"codeberg.org/nholm/vitals/internal/producer"
	"codeberg.org/nholm/vitals/internal/stats"
	"codeberg.org/nholm/vitals/internal/store"
	"codeberg.org/nholm/vitals/internal/threshold"
)

const reportDays = 7

var (
	cfg     *config.Config
	vitals  store.Store
	sampler producer.Producer
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")

	vitals, err = store.NewService(store.Config{
		DBPath:        cfg.Database,
		RetentionDays: cfg.RetentionDays,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open vitals store")
	}

	sampler = producer.NewSimulated(rand.NewSource(time.Now().UnixNano()))
}

func main() {
	defer closeStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Report {
		report(ctx)
		return
	}
	if cfg.Export != "" {
		if err := exportStreams(ctx, cfg.Export); err != nil {
			logger.Fatal().Err(err).Msg("export failed")
		}
		return
	}

	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	go handleSignals(cancel)

	if err := loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	logger.Info().Msg("Exiting...")
}

func loop(ctx context.Context) error {
	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	thresholds := vitals.Thresholds(ctx)

	logger.Info().
		Int("interval_seconds", cfg.Interval).
		Int("retention_days", cfg.RetentionDays).
		Str("database", cfg.Database).
		Msg("Sampling vitals...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			rec := sampler.Next(now)

			if ok := vitals.Append(ctx, store.StreamHeartRate, health.NewRecord(rec.Value, rec.Timestamp)); !ok {
				logger.Warn().Msg("Heart rate sample not persisted; will retry on next tick")
			}
			if ok := vitals.Append(ctx, store.StreamHealthRecords, rec); !ok {
				logger.Warn().Msg("Health record not persisted; will retry on next tick")
			}

			logReading(rec, thresholds)
		}
	}
}

func logReading(rec health.Record, thresholds health.Thresholds) {
	hr := threshold.EvaluateHeartRate(rec.Value, thresholds, cfg.Age)
	event := logger.Debug()
	switch hr.Severity {
	case health.SeverityWarning:
		event = logger.Warn()
	case health.SeverityDanger:
		event = logger.Error()
	}
	event.
		Float64("heart_rate", rec.Value).
		Str("status", string(hr.Status)).
		Msg(hr.Message)

	if rec.BloodOxygen != nil {
		ox := threshold.EvaluateBloodOxygen(*rec.BloodOxygen, thresholds)
		if ox.Severity != health.SeverityNormal {
			event := logger.Warn()
			if ox.Severity == health.SeverityDanger {
				event = logger.Error()
			}
			event.
				Float64("blood_oxygen", *rec.BloodOxygen).
				Str("status", string(ox.Status)).
				Msg(ox.Message)
		}
	}
}

func report(ctx context.Context) {
	records := vitals.Query(ctx, store.StreamHeartRate, store.LastDays(reportDays))
	summary := stats.Compute(records)

	fmt.Printf("Heart rate, last %d days: %d samples\n", reportDays, summary.Count)
	fmt.Printf("  average %.0f BPM, min %.0f, max %.0f, trend %s\n",
		summary.Average, summary.Min, summary.Max, summary.Trend)

	for _, day := range stats.GroupByDay(records) {
		fmt.Printf("  %s: avg %.0f (min %.0f, max %.0f, n=%d)\n",
			day.Date, day.Average, day.Min, day.Max, day.Count)
	}

	size := vitals.EstimateSize(ctx, store.StreamHeartRate) +
		vitals.EstimateSize(ctx, store.StreamHealthRecords)
	fmt.Printf("Storage: ~%d bytes\n", size)
}

func exportStreams(ctx context.Context, format string) error {
	heartRate := vitals.Query(ctx, store.StreamHeartRate, store.All())

	switch format {
	case "csv":
		out, err := export.ToCSV(heartRate)
		if err != nil {
			return err
		}
		fmt.Print(out)
	case "json":
		records := vitals.Query(ctx, store.StreamHealthRecords, store.All())
		bundle := export.NewBundle(heartRate, records, vitals.Thresholds(ctx), vitals.Settings(ctx))
		out, err := bundle.Marshal()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}

	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func closeStore() {
	if err := vitals.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close vitals store")
	}
}
