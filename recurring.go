package moneybook

import (
	"fmt"
	"sync"
)

// RecurringPayment is the template and schedule of a subscription or bill
// that the scheduler materializes into ledger transactions.
//
// NextDueDate only ever advances, strictly by Frequency.Advance and only as
// the result of a successful materialization, so the cadence grid (say, the
// 15th of every month) is anchored on the definition, not on whenever a check
// happened to run. LastProcessedDate is the idempotency guard: at most one
// materialization per calendar day.
type RecurringPayment struct {
	ID           string
	Name         string
	Amount       Money
	Category     string
	CategoryIcon string
	AccountID    string
	Payee        string
	Notes        string
	Type         TxType

	Frequency         Frequency
	NextDueDate       Date
	LastProcessedDate Date // zero until first materialization
	Active            bool
}

// validate checks the fields every definition must carry.
func (p RecurringPayment) validate() error {
	if p.AccountID == "" {
		return fmt.Errorf("recurring payment account id is missing")
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("recurring payment amount %s: %w", p.Amount, ErrInvalidAmount)
	}
	if p.NextDueDate.IsZero() {
		return fmt.Errorf("recurring payment next due date is missing")
	}
	if p.Type == Transfer {
		return fmt.Errorf("recurring payments cannot be transfers")
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for RecurringPayment.
func (p RecurringPayment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.ID)
	w.Append("name", p.Name)
	w.EmbedFrom(p.Amount)
	w.Optional("category", p.Category)
	w.Optional("categoryIcon", p.CategoryIcon)
	w.Append("accountId", p.AccountID)
	w.Optional("payee", p.Payee)
	w.Optional("notes", p.Notes)
	w.Append("type", p.Type)
	w.Append("frequency", p.Frequency)
	w.Append("nextDueDate", p.NextDueDate)
	if !p.LastProcessedDate.IsZero() {
		w.Append("lastProcessedDate", p.LastProcessedDate)
	}
	w.Append("active", p.Active)
	return w.MarshalJSON()
}

// Registry owns the recurring payment definitions, indexed by id.
//
// User CRUD goes through the exported methods; the schedule state
// (NextDueDate, LastProcessedDate) is mutated only by the scheduler through
// advanceSchedule.
type Registry struct {
	mu       sync.Mutex
	payments []*RecurringPayment // insertion order
	byID     map[string]*RecurringPayment
}

// NewRegistry creates an empty recurring payment registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*RecurringPayment)}
}

// Add registers a new definition. A missing id is filled in; a zero Active
// flag is taken at face value, so callers wanting an enabled payment must say
// so.
func (r *Registry) Add(p RecurringPayment) (RecurringPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = NewID()
	}
	if err := p.validate(); err != nil {
		return RecurringPayment{}, err
	}
	if _, ok := r.byID[p.ID]; ok {
		return RecurringPayment{}, fmt.Errorf("duplicate recurring payment %q", p.ID)
	}
	c := p
	r.payments = append(r.payments, &c)
	r.byID[c.ID] = &c
	return c, nil
}

// Update replaces an existing definition. Rescheduling through NextDueDate,
// in either direction, is the one schedule mutation granted to user CRUD;
// everything else about the schedule belongs to the scheduler, and
// LastProcessedDate is always preserved from the stored definition, so an
// update can never reset the idempotency guard.
func (r *Registry) Update(p RecurringPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := p.validate(); err != nil {
		return err
	}
	cur, ok := r.byID[p.ID]
	if !ok {
		return fmt.Errorf("recurring payment %q: %w", p.ID, ErrNotFound)
	}
	p.LastProcessedDate = cur.LastProcessedDate
	*cur = p
	return nil
}

// Delete removes a definition by id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("recurring payment %q: %w", id, ErrNotFound)
	}
	delete(r.byID, id)
	for i, p := range r.payments {
		if p.ID == id {
			r.payments = append(r.payments[:i], r.payments[i+1:]...)
			break
		}
	}
	return nil
}

// ToggleActive flips the active flag of a definition and returns the new value.
func (r *Registry) ToggleActive(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return false, fmt.Errorf("recurring payment %q: %w", id, ErrNotFound)
	}
	p.Active = !p.Active
	return p.Active, nil
}

// Payment returns a copy of the definition with the given id.
func (r *Registry) Payment(id string) (RecurringPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return RecurringPayment{}, fmt.Errorf("recurring payment %q: %w", id, ErrNotFound)
	}
	return *p, nil
}

// Payments returns copies of all definitions in insertion order.
func (r *Registry) Payments() []RecurringPayment {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RecurringPayment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, *p)
	}
	return out
}

// PaymentsForAccount returns copies of the definitions owned by an account.
func (r *Registry) PaymentsForAccount(accountID string) []RecurringPayment {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []RecurringPayment
	for _, p := range r.payments {
		if p.AccountID == accountID {
			out = append(out, *p)
		}
	}
	return out
}

// DuePayments returns the active definitions whose next due date's calendar
// day is on or before asOf. A payment due at any time on its due date stays
// due for the rest of that day and every following day until processed.
func (r *Registry) DuePayments(asOf Date) []RecurringPayment {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []RecurringPayment
	for _, p := range r.payments {
		if p.Active && !p.NextDueDate.After(asOf) {
			due = append(due, *p)
		}
	}
	return due
}

// advanceSchedule records a successful materialization: the last processed
// day becomes `processed` and the next due date advances by exactly one
// frequency step from the previous due date, never from the processing day.
func (r *Registry) advanceSchedule(id string, processed Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("recurring payment %q: %w", id, ErrNotFound)
	}
	p.LastProcessedDate = processed
	p.NextDueDate = p.Frequency.Advance(p.NextDueDate)
	return nil
}

// restorePayment reinstates a persisted definition, schedule state included.
func (r *Registry) restorePayment(p RecurringPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return fmt.Errorf("recurring payment record has no id")
	}
	if _, ok := r.byID[p.ID]; ok {
		return fmt.Errorf("duplicate recurring payment record %q", p.ID)
	}
	c := p
	r.payments = append(r.payments, &c)
	r.byID[c.ID] = &c
	return nil
}
