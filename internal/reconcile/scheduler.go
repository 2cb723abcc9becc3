package reconcile

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs the reconciler on a cron schedule.
type Scheduler struct {
	rec  *Reconciler
	spec string
	log  zerolog.Logger
	cron *cron.Cron
}

// NewScheduler creates a scheduler. spec uses six-field cron syntax (with
// seconds); the default audits every ten minutes.
func NewScheduler(rec *Reconciler, spec string, log zerolog.Logger) *Scheduler {
	if spec == "" {
		spec = "0 */10 * * * *"
	}
	return &Scheduler{rec: rec, spec: spec, log: log}
}

// Start registers the cron entry and begins scheduling.
func (s *Scheduler) Start() error {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		repaired, err := s.rec.Run(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("aggregate reconciliation failed")
			return
		}
		s.log.Info().Int("repaired", repaired).Msg("aggregate reconciliation finished")
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("schedule", s.spec).Msg("reconciler scheduler started")
	c.Start()
	s.cron = c
	return nil
}

// Stop halts scheduling and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
