// Package scheduler varre periodicamente as recorrências vencidas e aciona o
// motor de geração. A varredura também pode ser disparada sob demanda via
// Notify, sem esperar o próximo tick.
package scheduler

import (
	"context"
	"time"

	"Grana/internal/domain/recurring"
	"Grana/internal/logger"
	"Grana/internal/observability"
)

// Generator é o motor acionado a cada varredura.
type Generator interface {
	GenerateDue(ctx context.Context, asOf time.Time) (*recurring.BatchResult, error)
}

type Scheduler struct {
	generator     Generator
	checkInterval time.Duration
	startupDelay  time.Duration
	notifyCh      chan struct{}
}

func New(generator Generator, checkInterval time.Duration) *Scheduler {
	if checkInterval <= 0 {
		checkInterval = time.Hour
	}
	return &Scheduler{
		generator:     generator,
		checkInterval: checkInterval,
		startupDelay:  2 * time.Second,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify dispara uma varredura imediata. Não bloqueia se já houver uma pendente.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Start roda o laço de varredura até o contexto ser cancelado.
func (s *Scheduler) Start(ctx context.Context) {
	logger.Info().Dur("interval", s.checkInterval).Msg("Agendador de recorrências iniciado")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Breve espera para o restante da aplicação terminar de subir.
	select {
	case <-ctx.Done():
		return
	case <-time.After(s.startupDelay):
	}

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Agendador de recorrências encerrado")
			return
		case <-ticker.C:
			s.tick(ctx)
		case <-s.notifyCh:
			logger.Debug().Msg("Varredura disparada por notificação")
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()
	result, err := s.generator.GenerateDue(ctx, start)
	observability.RecordTick(time.Since(start))

	if err != nil {
		logger.Error().Err(err).Msg("Varredura de recorrências falhou")
		return
	}

	if result.Generated > 0 || len(result.Failures) > 0 {
		logger.Info().
			Int("processed", result.Processed).
			Int("generated", result.Generated).
			Int("failures", len(result.Failures)).
			Msg("Varredura de recorrências concluída")
	}
}
