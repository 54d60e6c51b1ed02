package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"vims/internal/service"
)

// Scheduler runs the daily invoice maintenance pass: flag overdue
// invoices, escalate the ones still unpaid, remind about upcoming due
// dates, then refresh vendor risk scores.
type Scheduler struct {
	invoiceService service.InvoiceService
	riskService    service.RiskService
	interval       time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	stopped sync.Once
}

func New(invoiceService service.InvoiceService, riskService service.RiskService, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		invoiceService: invoiceService,
		riskService:    riskService,
		interval:       interval,
		stop:           make(chan struct{}),
	}
}

// Start launches the ticker loop. An initial pass runs immediately so a
// restart does not postpone overdue detection by a full interval.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.runOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runOnce(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.stopped.Do(func() { close(s.stop) })
}

// runOnce executes one maintenance pass. The mutex guards against
// overlapping passes when a run outlasts the interval.
func (s *Scheduler) runOnce(ctx context.Context) {
	if !s.mu.TryLock() {
		log.Println("scheduler: previous maintenance pass still running, skipping")
		return
	}
	defer s.mu.Unlock()

	marked, err := s.invoiceService.MarkOverdueInvoices(ctx)
	if err != nil {
		log.Printf("scheduler: overdue pass failed: %v", err)
	} else if marked > 0 {
		log.Printf("scheduler: marked %d invoices overdue", marked)
	}

	escalated, err := s.invoiceService.EscalateOverdueInvoices(ctx)
	if err != nil {
		log.Printf("scheduler: escalation pass failed: %v", err)
	} else if escalated > 0 {
		log.Printf("scheduler: escalated %d overdue invoices", escalated)
	}

	reminded, err := s.invoiceService.SendDueDateReminders(ctx)
	if err != nil {
		log.Printf("scheduler: reminder pass failed: %v", err)
	} else if reminded > 0 {
		log.Printf("scheduler: sent %d due date reminders", reminded)
	}

	updated, err := s.riskService.RefreshAllRiskScores(ctx)
	if err != nil {
		log.Printf("scheduler: risk refresh failed: %v", err)
	} else if updated > 0 {
		log.Printf("scheduler: refreshed risk scores for %d vendors", updated)
	}
}
