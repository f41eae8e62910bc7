// Package scheduler ejecuta las tareas periódicas de la API sobre robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/metrics"
)

// defaultRunTimeout tiempo máximo de una pasada del aviso de vencimientos.
const defaultRunTimeout = 5 * time.Minute

// ExpiryJob pasada de avisos de vencimiento (usecase.ExpiryNotifier).
type ExpiryJob interface {
	Run(ctx context.Context) (usecase.ExpiryRunResult, error)
}

// Scheduler programa el aviso de vencimientos con una expresión cron estándar de 5 campos.
type Scheduler struct {
	cron    *cron.Cron
	job     ExpiryJob
	log     zerolog.Logger
	timeout time.Duration
}

// New valida spec y registra la tarea. No arranca hasta Start.
func New(spec string, job ExpiryJob, log zerolog.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("scheduler: expresión cron %q inválida: %w", spec, err)
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		job:     job,
		log:     log,
		timeout: defaultRunTimeout,
	}
	// SkipIfStillRunning: una pasada lenta no se solapa con la siguiente.
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		_, _ = s.RunOnce(context.Background())
	}))
	if _, err := s.cron.AddJob(spec, wrapped); err != nil {
		return nil, fmt.Errorf("scheduler: registrar tarea: %w", err)
	}
	return s, nil
}

// Start arranca el planificador en segundo plano.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Time("next", s.Next()).Msg("scheduler: aviso de vencimientos programado")
}

// Stop detiene el planificador y espera la pasada en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler: pasada en curso interrumpida por el apagado")
	}
}

// Next próxima ejecución programada (cero si no hay tareas).
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce ejecuta una pasada con timeout, la registra en logs y métricas.
func (s *Scheduler) RunOnce(ctx context.Context) (usecase.ExpiryRunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.job.Run(ctx)
	metrics.ObserveExpiryNotification("sent", res.Sent)
	metrics.ObserveExpiryNotification("skipped", res.Skipped)
	metrics.ObserveExpiryNotification("failed", res.Failed)

	ev := s.log.Info()
	if err != nil {
		ev = s.log.Error().Err(err)
	}
	ev.Int("companies", res.Companies).
		Int("sent", res.Sent).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Dur("duration", time.Since(start)).
		Msg("scheduler: aviso de vencimientos ejecutado")
	return res, err
}
