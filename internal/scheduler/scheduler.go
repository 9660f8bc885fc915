package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic media retention sweep.
type Scheduler struct {
	cron      *cron.Cron
	sweepFunc func()
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithLocation(time.UTC))}
}

func (s *Scheduler) SetSweepFunction(f func()) {
	s.sweepFunc = f
}

func (s *Scheduler) Start() error {
	if s.sweepFunc == nil {
		log.Println("⚠️ Sweep function not set, scheduler will not clean media")
		return nil
	}

	_, err := s.cron.AddFunc("@hourly", func() {
		s.sweepFunc()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("📅 Scheduler started - stale media swept hourly")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	log.Println("📅 Scheduler stopped")
}
