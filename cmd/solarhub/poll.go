package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"solarhub/internal/config"
	"solarhub/internal/masterdata"
	"solarhub/internal/measurement"
	"solarhub/internal/notify"
	"solarhub/internal/observability/metrics"
	"solarhub/internal/openweather"
	"solarhub/internal/poller"
	"solarhub/internal/polllog"
	"solarhub/internal/ratelimit"
	"solarhub/internal/solax"
	"solarhub/internal/storage"
	"solarhub/internal/weatherbit"
)

var pollTimeout time.Duration

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Run one poll cycle over every configured source",
	Long: `Polls each source that has credentials configured, subject to the
per-source rate policy, and upserts the normalized measurements. The process
exits non-zero only when the database is unreachable: per-source failures are
logged and recorded in the request log, and the next scheduled run retries.`,
	RunE: runPoll,
}

func init() {
	pollCmd.Flags().DurationVar(&pollTimeout, "timeout", 2*time.Minute, "overall cycle timeout")
	rootCmd.AddCommand(pollCmd)
}

func runPoll(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), pollTimeout)
	defer cancel()

	db, err := storage.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.InitSchema(ctx, db); err != nil {
		return err
	}

	metrics.Init()

	store := measurement.NewStore(db)
	requestLog := polllog.NewRepository(db)

	sources, policies, err := buildSources(cfg, db, store, logger)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New("no source has credentials configured")
	}

	gate, err := ratelimit.NewGate(requestLog, policies)
	if err != nil {
		return err
	}
	orch, err := poller.New(gate, requestLog, sources, logger)
	if err != nil {
		return err
	}

	logger.Printf("poll cycle starting with %d source(s)", len(sources))
	if err := orch.Run(ctx); err != nil {
		// Recorded per source; the scheduler retries on the next run.
		logger.Printf("poll cycle finished with failures: %v", err)
		return nil
	}
	logger.Printf("poll cycle finished")
	return nil
}

// buildSources assembles a poll source for every provider with credentials.
// Providers without credentials are skipped so a partial setup still runs.
func buildSources(cfg *config.Config, db *sql.DB, store *measurement.Store, logger *log.Logger) ([]poller.Source, map[polllog.Source]ratelimit.Policy, error) {
	var sources []poller.Source
	policies := map[polllog.Source]ratelimit.Policy{}

	if cfg.Solax.TokenID != "" && cfg.Solax.WifiSN != "" {
		client, err := solax.NewClient(cfg.Solax.APIURL, cfg.Solax.TokenID, cfg.Solax.WifiSN)
		if err != nil {
			return nil, nil, err
		}
		checker, err := buildChecker(cfg, db)
		if err != nil {
			return nil, nil, err
		}
		src, err := solax.NewSource(client, masterdata.NewInverterRepository(db), store, checker, logger)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
		policies[src.ID()] = ratelimit.Policy{
			DailyLimit:  cfg.Solax.Rate.DailyLimit,
			MinInterval: cfg.Solax.Rate.MinInterval.Std(),
		}
	} else {
		logger.Printf("solax: no credentials, source disabled")
	}

	if cfg.OpenWeather.APIKey != "" {
		client, err := openweather.NewClient(
			cfg.OpenWeather.CurrentURL, cfg.OpenWeather.AirPollutionURL, cfg.OpenWeather.APIKey,
			cfg.OpenWeather.Lat, cfg.OpenWeather.Lon, cfg.OpenWeather.Units, cfg.OpenWeather.Lang)
		if err != nil {
			return nil, nil, err
		}
		src, err := openweather.NewSource(client, store, logger)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
		policies[src.ID()] = ratelimit.Policy{
			DailyLimit:  cfg.OpenWeather.Rate.DailyLimit,
			MinInterval: cfg.OpenWeather.Rate.MinInterval.Std(),
		}
	} else {
		logger.Printf("openweather: no api key, source disabled")
	}

	if cfg.Weatherbit.APIKey != "" {
		client, err := weatherbit.NewClient(
			cfg.Weatherbit.APIURL, cfg.Weatherbit.APIKey,
			cfg.Weatherbit.Lat, cfg.Weatherbit.Lon, cfg.Weatherbit.Units, cfg.Weatherbit.Lang)
		if err != nil {
			return nil, nil, err
		}
		src, err := weatherbit.NewSource(client, store, logger)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
		policies[src.ID()] = ratelimit.Policy{
			DailyLimit:  cfg.Weatherbit.Rate.DailyLimit,
			MinInterval: cfg.Weatherbit.Rate.MinInterval.Std(),
		}
	} else {
		logger.Printf("weatherbit: no api key, source disabled")
	}

	return sources, policies, nil
}

// buildChecker wires the debounced ntfy alerting, or returns nil when
// notifications are disabled.
func buildChecker(cfg *config.Config, db *sql.DB) (solax.EnergyChecker, error) {
	if !cfg.Notify.Enabled {
		return nil, nil
	}
	var opts []notify.NtfyOption
	if cfg.Notify.Username != "" {
		opts = append(opts, notify.WithNtfyAuth(cfg.Notify.Username, cfg.Notify.Password))
	}
	sender, err := notify.NewNtfySender(cfg.Notify.Server, cfg.Notify.Topic, opts...)
	if err != nil {
		return nil, err
	}
	return notify.NewDebouncer(
		notify.NewPostgresStateStore(db),
		sender,
		cfg.Notify.ExcessMargin,
		cfg.Notify.RepeatInterval.Std(),
	)
}
