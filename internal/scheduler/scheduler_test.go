package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"vims/internal/service"

	"github.com/stretchr/testify/assert"
)

type stubInvoiceService struct {
	service.InvoiceService
	marked    atomic.Int32
	escalated atomic.Int32
	reminded  atomic.Int32
}

func (s *stubInvoiceService) MarkOverdueInvoices(context.Context) (int, error) {
	s.marked.Add(1)
	return 1, nil
}

func (s *stubInvoiceService) EscalateOverdueInvoices(context.Context) (int, error) {
	s.escalated.Add(1)
	return 1, nil
}

func (s *stubInvoiceService) SendDueDateReminders(context.Context) (int, error) {
	s.reminded.Add(1)
	return 1, nil
}

type stubRiskService struct {
	service.RiskService
	refreshed atomic.Int32
}

func (s *stubRiskService) RefreshAllRiskScores(context.Context) (int, error) {
	s.refreshed.Add(1)
	return 0, nil
}

func TestScheduler_RunsMaintenancePass(t *testing.T) {
	invoices := &stubInvoiceService{}
	risk := &stubRiskService{}

	s := New(invoices, risk, 10*time.Millisecond)
	s.Start(context.Background())
	defer s.Stop()

	deadline := time.After(time.Second)
	for invoices.marked.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("scheduler never completed two passes")
		case <-time.After(5 * time.Millisecond):
		}
	}

	assert.GreaterOrEqual(t, invoices.escalated.Load(), int32(1))
	assert.GreaterOrEqual(t, invoices.reminded.Load(), int32(1))
	assert.GreaterOrEqual(t, risk.refreshed.Load(), int32(1))
}

func TestScheduler_StopEndsLoop(t *testing.T) {
	invoices := &stubInvoiceService{}
	risk := &stubRiskService{}

	s := New(invoices, risk, 5*time.Millisecond)
	s.Start(context.Background())

	deadline := time.After(time.Second)
	for invoices.marked.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("scheduler never ran")
		case <-time.After(2 * time.Millisecond):
		}
	}

	s.Stop()
	s.Stop() // idempotent

	after := invoices.marked.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, invoices.marked.Load(), after+1)
}
