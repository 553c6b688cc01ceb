package moneybook

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// NotificationSink receives scheduler events. The core never builds
// user-facing notification content; it hands the facts to the host.
type NotificationSink interface {
	// PaymentsProcessed is called once per batch that created at least one
	// transaction, never once per payment.
	PaymentsProcessed(day Date, created []Transaction)

	// UpcomingPayment announces a payment falling due in daysUntilDue days.
	UpcomingPayment(p RecurringPayment, daysUntilDue int)
}

// DefaultReminderLeadDays is how far ahead ScheduleUpcomingReminders looks.
const DefaultReminderLeadDays = 3

// Scheduler converts due recurring payment definitions into ledger
// transactions, exactly once per due cycle.
//
// Its single entry point is safe to call any number of times per day from
// any trigger (periodic wake, app foreground, manual re-check): correctness
// rests only on the day-granularity due check and the per-day idempotency
// guard, never on which trigger fired or how often. The whole
// fetch-process-advance cycle runs under one mutex, so concurrent triggers
// cannot double-materialize a payment.
type Scheduler struct {
	mu       sync.Mutex
	ledger   *Ledger
	registry *Registry
	sink     NotificationSink
	lead     int
	log      zerolog.Logger
}

// NewScheduler creates an unconfigured scheduler with a no-op logger.
// Call Configure before use.
func NewScheduler() *Scheduler {
	return &Scheduler{lead: DefaultReminderLeadDays, log: zerolog.Nop()}
}

// Configure points the scheduler at its collaborators.
func (s *Scheduler) Configure(ledger *Ledger, registry *Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = ledger
	s.registry = registry
}

// SetNotificationSink installs the host's notification collaborator.
func (s *Scheduler) SetNotificationSink(sink NotificationSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// SetLogger installs the diagnostics logger. Batch failures have no
// synchronous observer, so this is where they surface.
func (s *Scheduler) SetLogger(log zerolog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log
}

// SetReminderLeadDays changes how far ahead upcoming-payment reminders look.
func (s *Scheduler) SetReminderLeadDays(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lead = days
}

// DuePayments returns the active definitions due on or before asOf.
func (s *Scheduler) DuePayments(asOf Date) []RecurringPayment {
	s.mu.Lock()
	registry := s.registry
	s.mu.Unlock()
	if registry == nil {
		return nil
	}
	return registry.DuePayments(asOf)
}

// CheckAndProcessDuePayments materializes every due definition into a ledger
// transaction dated asOf and returns the created transactions.
//
// Per definition: if it was already processed on asOf's calendar day it is
// skipped (a no-op, not an error); otherwise a transaction built from its
// template fields is appended to the ledger, and only on success does the
// schedule advance. A definition whose submission fails (say, its account was
// deleted) keeps its schedule state untouched, stays due, and is retried on
// the next invocation; it never blocks the rest of the batch. When multiple
// cycles were missed, at most one is materialized per invocation per
// definition.
//
// If any transactions were created, the notification sink gets one aggregated
// event for the whole batch.
func (s *Scheduler) CheckAndProcessDuePayments(asOf Date) []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ledger == nil || s.registry == nil {
		s.log.Warn().Msg("scheduler invoked before Configure")
		return nil
	}

	due := s.registry.DuePayments(asOf)
	var created []Transaction
	for _, p := range due {
		tx, err := s.process(p, asOf)
		switch {
		case errors.Is(err, ErrAlreadyProcessedToday):
			s.log.Debug().Str("payment", p.Name).Stringer("day", asOf).Msg("skipping, already processed today")
		case err != nil:
			// Schedule state untouched: the definition stays due and is
			// implicitly retried on the next invocation.
			s.log.Error().Err(err).Str("payment", p.Name).Str("account", p.AccountID).Msg("could not materialize recurring payment")
		default:
			created = append(created, tx)
			s.log.Info().Str("payment", p.Name).Stringer("amount", tx.Amount).Stringer("day", asOf).Msg("recurring payment materialized")
		}
	}

	if len(created) > 0 && s.sink != nil {
		s.sink.PaymentsProcessed(asOf, created)
	}
	return created
}

// process materializes a single due definition. Mutation order matters: the
// ledger append happens first, and the schedule advances only after it
// succeeded.
func (s *Scheduler) process(p RecurringPayment, asOf Date) (Transaction, error) {
	if !p.LastProcessedDate.IsZero() && !p.LastProcessedDate.Before(asOf) {
		return Transaction{}, ErrAlreadyProcessedToday
	}

	tx := Transaction{
		ID:        NewID(),
		Type:      p.Type,
		AccountID: p.AccountID,
		Amount:    p.Amount,
		Date:      asOf,
		Payee:     p.Payee,
		Category:  p.Category,
		Notes:     p.Notes,
	}
	if tx.Payee == "" {
		tx.Payee = p.Name
	}
	if err := s.ledger.AddTransaction(tx); err != nil {
		return Transaction{}, fmt.Errorf("payment %q: %w", p.Name, err)
	}
	if err := s.registry.advanceSchedule(p.ID, asOf); err != nil {
		// The definition vanished between the due fetch and now; the
		// transaction stands, there is just no schedule left to advance.
		return tx, nil
	}
	return tx, nil
}

// ScheduleUpcomingReminders hands payments falling due within the reminder
// lead window to the notification sink, one event per payment. Content and
// delivery are the sink's concern.
func (s *Scheduler) ScheduleUpcomingReminders(asOf Date) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry == nil || s.sink == nil {
		return
	}
	for _, p := range s.registry.Payments() {
		if !p.Active {
			continue
		}
		days := asOf.DaysUntil(p.NextDueDate)
		if days > 0 && days <= s.lead {
			s.sink.UpcomingPayment(p, days)
		}
	}
}

// Run invokes the entry point immediately and then on every tick until the
// context is cancelled. It is the optional in-process periodic trigger; hosts
// with their own wake-up facility simply never call it.
func (s *Scheduler) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	s.CheckAndProcessDuePayments(Today())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckAndProcessDuePayments(Today())
		}
	}
}
