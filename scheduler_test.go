package moneybook

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recordingSink captures scheduler events for assertions.
type recordingSink struct {
	batches   [][]Transaction
	reminders []RecurringPayment
	leads     []int
}

func (s *recordingSink) PaymentsProcessed(_ Date, created []Transaction) {
	s.batches = append(s.batches, created)
}

func (s *recordingSink) UpcomingPayment(p RecurringPayment, daysUntilDue int) {
	s.reminders = append(s.reminders, p)
	s.leads = append(s.leads, daysUntilDue)
}

func newTestScheduler() (*Scheduler, *Ledger, *Registry, *recordingSink) {
	ledger := NewLedger()
	registry := NewRegistry()
	sink := &recordingSink{}
	s := NewScheduler()
	s.Configure(ledger, registry)
	s.SetNotificationSink(sink)
	return s, ledger, registry, sink
}

func TestProcessDuePaymentOnce(t *testing.T) {
	s, ledger, registry, sink := newTestScheduler()
	a := ledger.CreateAccount("Checking", usd(100), Asset)
	p, err := registry.Add(netflix(a.ID))
	if err != nil {
		t.Fatal(err)
	}

	dueDay := NewDate(2025, time.June, 15)
	created := s.CheckAndProcessDuePayments(dueDay)
	if len(created) != 1 {
		t.Fatalf("created %d transactions, want 1", len(created))
	}
	tx := created[0]
	if tx.AccountID != a.ID || tx.Type != Expense || !tx.Amount.Equal(usd(15.99)) || tx.Date != dueDay {
		t.Errorf("materialized transaction = %+v", tx)
	}
	// A definition without a payee falls back to its name.
	if tx.Payee != "Netflix" {
		t.Errorf("payee = %q, want Netflix", tx.Payee)
	}

	got, _ := ledger.Account(a.ID)
	if !got.CurrentBalance.Equal(usd(84.01)) {
		t.Errorf("balance = %s, want $84.01", got.CurrentBalance)
	}

	after, _ := registry.Payment(p.ID)
	if after.NextDueDate != NewDate(2025, time.July, 15) {
		t.Errorf("NextDueDate = %v, want 2025-07-15", after.NextDueDate)
	}
	if after.LastProcessedDate != dueDay {
		t.Errorf("LastProcessedDate = %v, want %v", after.LastProcessedDate, dueDay)
	}

	// One aggregated notification for the batch.
	if len(sink.batches) != 1 || len(sink.batches[0]) != 1 {
		t.Errorf("sink batches = %v", sink.batches)
	}
}

func TestSecondInvocationSameDayIsNoOp(t *testing.T) {
	s, ledger, registry, sink := newTestScheduler()
	a := ledger.CreateAccount("Checking", usd(100), Asset)
	if _, err := registry.Add(netflix(a.ID)); err != nil {
		t.Fatal(err)
	}

	dueDay := NewDate(2025, time.June, 15)
	if created := s.CheckAndProcessDuePayments(dueDay); len(created) != 1 {
		t.Fatalf("first invocation created %d, want 1", len(created))
	}
	state := registry.Payments()[0]

	// Any number of same-day re-checks, from any trigger: no new transactions,
	// no schedule movement, no notifications.
	for i := 0; i < 3; i++ {
		if created := s.CheckAndProcessDuePayments(dueDay); len(created) != 0 {
			t.Fatalf("re-check %d created %d transactions", i, len(created))
		}
	}
	txs, _ := ledger.Transactions(a.ID)
	if len(txs) != 1 {
		t.Errorf("ledger has %d transactions, want 1", len(txs))
	}
	after := registry.Payments()[0]
	if after.NextDueDate != state.NextDueDate || after.LastProcessedDate != state.LastProcessedDate {
		t.Errorf("no-op invocations moved schedule state: %+v -> %+v", state, after)
	}
	if len(sink.batches) != 1 {
		t.Errorf("sink got %d batches, want 1", len(sink.batches))
	}
}

func TestConcurrentInvocationsMaterializeOnce(t *testing.T) {
	s, ledger, registry, sink := newTestScheduler()
	a := ledger.CreateAccount("Checking", usd(100), Asset)
	if _, err := registry.Add(netflix(a.ID)); err != nil {
		t.Fatal(err)
	}

	// A background wake racing a foreground check, several times over: the
	// whole fetch-process-advance cycle is one critical section, so exactly
	// one invocation materializes the payment.
	dueDay := NewDate(2025, time.June, 15)
	var wg sync.WaitGroup
	var created atomic.Int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created.Add(int64(len(s.CheckAndProcessDuePayments(dueDay))))
		}()
	}
	wg.Wait()

	if got := created.Load(); got != 1 {
		t.Errorf("concurrent invocations created %d transactions, want 1", got)
	}
	txs, err := ledger.Transactions(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 1 {
		t.Errorf("ledger has %d transactions, want 1", len(txs))
	}
	p := registry.Payments()[0]
	if p.NextDueDate != NewDate(2025, time.July, 15) || p.LastProcessedDate != dueDay {
		t.Errorf("schedule state advanced more than once: %+v", p)
	}
	if len(sink.batches) != 1 {
		t.Errorf("sink got %d batches, want 1", len(sink.batches))
	}
}

func TestNothingDueBeforeDueDay(t *testing.T) {
	s, ledger, registry, _ := newTestScheduler()
	a := ledger.CreateAccount("Checking", usd(100), Asset)
	if _, err := registry.Add(netflix(a.ID)); err != nil {
		t.Fatal(err)
	}

	if created := s.CheckAndProcessDuePayments(NewDate(2025, time.June, 14)); len(created) != 0 {
		t.Errorf("created %d transactions before the due day", len(created))
	}
}

func TestNextCycleProcessesAgain(t *testing.T) {
	s, ledger, registry, _ := newTestScheduler()
	a := ledger.CreateAccount("Checking", usd(100), Asset)
	if _, err := registry.Add(netflix(a.ID)); err != nil {
		t.Fatal(err)
	}

	s.CheckAndProcessDuePayments(NewDate(2025, time.June, 15))
	if created := s.CheckAndProcessDuePayments(NewDate(2025, time.July, 15)); len(created) != 1 {
		t.Fatalf("next cycle created %d, want 1", len(created))
	}
	txs, _ := ledger.Transactions(a.ID)
	if len(txs) != 2 {
		t.Errorf("ledger has %d transactions, want 2", len(txs))
	}
}

func TestOverdueCatchesUpOneCyclePerInvocation(t *testing.T) {
	s, ledger, registry, _ := newTestScheduler()
	a := ledger.CreateAccount("Checking", usd(100), Asset)
	if _, err := registry.Add(netflix(a.ID)); err != nil {
		t.Fatal(err)
	}

	// Three cycles missed; each invocation on a distinct day materializes one.
	if created := s.CheckAndProcessDuePayments(NewDate(2025, time.September, 20)); len(created) != 1 {
		t.Fatalf("created %d, want 1", len(created))
	}
	p := registry.Payments()[0]
	if p.NextDueDate != NewDate(2025, time.July, 15) {
		t.Errorf("NextDueDate = %v, want 2025-07-15 (one step, anchored on the grid)", p.NextDueDate)
	}

	// Still overdue, but already processed today: the guard holds.
	if created := s.CheckAndProcessDuePayments(NewDate(2025, time.September, 20)); len(created) != 0 {
		t.Fatalf("same-day catch-up created %d, want 0", len(created))
	}
	// The next day it catches up one more cycle.
	if created := s.CheckAndProcessDuePayments(NewDate(2025, time.September, 21)); len(created) != 1 {
		t.Fatalf("next-day catch-up created %d, want 1", len(created))
	}
}

func TestFailingPaymentDoesNotBlockBatch(t *testing.T) {
	s, ledger, registry, sink := newTestScheduler()
	gone := ledger.CreateAccount("Old", usd(100), Asset)
	kept := ledger.CreateAccount("Checking", usd(100), Asset)

	broken := netflix(gone.ID)
	if _, err := registry.Add(broken); err != nil {
		t.Fatal(err)
	}
	healthy := netflix(kept.ID)
	healthy.Name = "Gym"
	if _, err := registry.Add(healthy); err != nil {
		t.Fatal(err)
	}
	if err := ledger.DeleteAccount(gone.ID); err != nil {
		t.Fatal(err)
	}

	dueDay := NewDate(2025, time.June, 15)
	created := s.CheckAndProcessDuePayments(dueDay)
	if len(created) != 1 || created[0].Payee != "Gym" {
		t.Fatalf("created = %v, want just the healthy payment", created)
	}

	// The failed definition kept its schedule state and stays due for retry.
	for _, p := range registry.Payments() {
		if p.Name != "Netflix" {
			continue
		}
		if p.NextDueDate != NewDate(2025, time.June, 15) || !p.LastProcessedDate.IsZero() {
			t.Errorf("failed definition schedule moved: %+v", p)
		}
	}
	if len(sink.batches) != 1 || len(sink.batches[0]) != 1 {
		t.Errorf("sink batches = %v", sink.batches)
	}
}

func TestNoNotificationForEmptyBatch(t *testing.T) {
	s, _, _, sink := newTestScheduler()
	if created := s.CheckAndProcessDuePayments(NewDate(2025, time.June, 15)); len(created) != 0 {
		t.Fatalf("empty registry created %d", len(created))
	}
	if len(sink.batches) != 0 {
		t.Errorf("sink got %d batches for an empty run", len(sink.batches))
	}
}

func TestScheduleUpcomingReminders(t *testing.T) {
	s, ledger, registry, sink := newTestScheduler()
	a := ledger.CreateAccount("Checking", usd(100), Asset)

	soon := netflix(a.ID) // due June 15
	if _, err := registry.Add(soon); err != nil {
		t.Fatal(err)
	}
	far := netflix(a.ID)
	far.Name = "Insurance"
	far.NextDueDate = NewDate(2025, time.June, 25)
	if _, err := registry.Add(far); err != nil {
		t.Fatal(err)
	}
	paused := netflix(a.ID)
	paused.Name = "Paused"
	paused.Active = false
	if _, err := registry.Add(paused); err != nil {
		t.Fatal(err)
	}

	s.ScheduleUpcomingReminders(NewDate(2025, time.June, 13))
	if len(sink.reminders) != 1 || sink.reminders[0].Name != "Netflix" || sink.leads[0] != 2 {
		t.Fatalf("reminders = %v leads = %v", sink.reminders, sink.leads)
	}

	// Already-due payments are processing's business, not a reminder.
	sink.reminders, sink.leads = nil, nil
	s.ScheduleUpcomingReminders(NewDate(2025, time.June, 15))
	if len(sink.reminders) != 0 {
		t.Errorf("due-today payment got a reminder: %v", sink.reminders)
	}

	// A wider lead window reaches the far definition.
	sink.reminders, sink.leads = nil, nil
	s.SetReminderLeadDays(30)
	s.ScheduleUpcomingReminders(NewDate(2025, time.June, 13))
	if len(sink.reminders) != 2 {
		t.Errorf("reminders with 30-day lead = %d, want 2", len(sink.reminders))
	}
}

func TestSchedulerUnconfigured(t *testing.T) {
	s := NewScheduler()
	if created := s.CheckAndProcessDuePayments(NewDate(2025, time.June, 15)); created != nil {
		t.Errorf("unconfigured scheduler created %v", created)
	}
	if due := s.DuePayments(NewDate(2025, time.June, 15)); due != nil {
		t.Errorf("unconfigured scheduler reported due payments %v", due)
	}
}
