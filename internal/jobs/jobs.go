package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Every minute is enough: expired blacklist entries are also skipped on lookup.
const MaintenanceSpec = "@every 1m"

// Task performs one unit of housekeeping and reports how many items it removed.
type Task func() int

type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

func New(log *slog.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger{log: log}))),
		log:  log,
	}
}

func (s *Scheduler) Add(spec, name string, task Task) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, func() {
		started := time.Now()
		if removed := task(); removed > 0 {
			s.log.Info("jobs "+name+": ok",
				slog.Int("removed", removed),
				slog.Duration("duration", time.Since(started)),
			)
		}
	})
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("jobs stop: timed out waiting for running jobs")
	}
}

type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("jobs cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{slog.String("error", err.Error())}, keysAndValues...)
	l.log.Error("jobs cron: "+msg, args...)
}
