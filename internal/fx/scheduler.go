package fx

import (
	"context"

	"Grana/config"
	"Grana/internal/domain/recurring"
	"Grana/internal/logger"
	"Grana/internal/scheduler"

	"go.uber.org/fx"
)

// SchedulerModule fornece o agendador de recorrências e o liga ao ciclo de
// vida da aplicação quando habilitado.
var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		newScheduler,
	),
	fx.Invoke(
		runScheduler,
	),
)

func newScheduler(cfg *config.Config, recurringSvc *recurring.Service) *scheduler.Scheduler {
	return scheduler.New(recurringSvc, cfg.Scheduler.Interval)
}

func runScheduler(lc fx.Lifecycle, cfg *config.Config, sched *scheduler.Scheduler) {
	if !cfg.Scheduler.Enabled {
		logger.Info().Msg("Agendador de recorrências desabilitado")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sched.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
