package scheduler

import (
	"context"
	"log"
	"time"
)

// Scheduler periodically sweeps pending bookings that were never accepted.
type Scheduler struct {
	interval time.Duration
	sweep    func(now time.Time) (int, error)
}

// New builds a scheduler around a sweep function so the booking service stays
// decoupled from the ticker loop. sweep returns how many bookings it expired.
func New(interval time.Duration, sweep func(now time.Time) (int, error)) *Scheduler {
	return &Scheduler{interval: interval, sweep: sweep}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.sweep(now)
			if err != nil {
				log.Printf("[scheduler] expiry sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[scheduler] expired %d pending bookings", n)
			}
		}
	}
}
