// Rebuilds the analytics weekly aggregate on a fixed schedule so catalog
// popularity reads stay cheap. Staleness is bounded by the cron cadence.

package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"pincast/internal/modkit/repokit"
	"pincast/internal/platform/config"
	"pincast/internal/platform/logger"
	"pincast/internal/platform/store"

	arepo "pincast/internal/services/api/analytics/repo"
	asvc "pincast/internal/services/api/analytics/service"
)

func main() {
	root := config.New()
	refCfg := root.Prefix("REFRESHER_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		AppName: "pincast-refresher",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	repokit.MustGuard(context.Background(), st)
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var fOnce = flag.Bool("once", false, "refresh a single time and exit")
	flag.Parse()

	svc := asvc.New(st.PG, arepo.NewPG(), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refresh := func() {
		out, err := svc.RefreshWeekly(ctx)
		if err != nil {
			l.Error().Err(err).Msg("weekly aggregate refresh failed")
			return
		}
		l.Info().Str("duration", out.Duration).Msg(out.Message)
	}

	// run once on boot so a fresh deploy never serves an empty aggregate
	refresh()
	if *fOnce {
		return
	}

	schedule := refCfg.MayString("SCHEDULE", "*/15 * * * *")
	c := cron.New()
	if _, err := c.AddFunc(schedule, refresh); err != nil {
		l.Panic().Err(err).Str("schedule", schedule).Msg("bad refresher schedule")
	}
	c.Start()
	l.Info().Str("schedule", schedule).Msg("refresher running")

	<-ctx.Done()
	cronCtx := c.Stop()
	// let an in-flight refresh finish before exiting
	<-cronCtx.Done()
	l.Info().Msg("refresher stopped")
}
