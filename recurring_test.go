package moneybook

import (
	"errors"
	"testing"
	"time"
)

func netflix(accountID string) RecurringPayment {
	return RecurringPayment{
		Name:        "Netflix",
		Amount:      usd(15.99),
		Category:    "entertainment",
		AccountID:   accountID,
		Type:        Expense,
		Frequency:   Monthly,
		NextDueDate: NewDate(2025, time.June, 15),
		Active:      true,
	}
}

func TestRegistryAdd(t *testing.T) {
	r := NewRegistry()

	p, err := r.Add(netflix("acc"))
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == "" {
		t.Error("Add should fill in a missing id")
	}

	if _, err := r.Add(p); err == nil {
		t.Error("Add should reject a duplicate id")
	}

	bad := netflix("acc")
	bad.Amount = usd(0)
	if _, err := r.Add(bad); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Add with zero amount = %v, want ErrInvalidAmount", err)
	}

	transfer := netflix("acc")
	transfer.Type = Transfer
	if _, err := r.Add(transfer); err == nil {
		t.Error("Add should reject transfer definitions")
	}
}

func TestRegistryUpdatePreservesScheduleState(t *testing.T) {
	r := NewRegistry()
	p, err := r.Add(netflix("acc"))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.advanceSchedule(p.ID, NewDate(2025, time.June, 15)); err != nil {
		t.Fatal(err)
	}

	p.Amount = usd(17.99)
	p.LastProcessedDate = Date{} // an update cannot reset the idempotency guard
	if err := r.Update(p); err != nil {
		t.Fatal(err)
	}

	got, _ := r.Payment(p.ID)
	if !got.Amount.Equal(usd(17.99)) {
		t.Errorf("updated amount = %s, want $17.99", got.Amount)
	}
	if got.LastProcessedDate != NewDate(2025, time.June, 15) {
		t.Errorf("LastProcessedDate = %v, want 2025-06-15", got.LastProcessedDate)
	}
	// Rescheduling is a user affordance, backwards included: the stored
	// NextDueDate (advanced to July 15) takes the updated value.
	if got.NextDueDate != NewDate(2025, time.June, 15) {
		t.Errorf("NextDueDate = %v, want the rescheduled 2025-06-15", got.NextDueDate)
	}
}

func TestDuePayments(t *testing.T) {
	r := NewRegistry()
	p, err := r.Add(netflix("acc"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		asOf Date
		due  int
	}{
		{"day before", NewDate(2025, time.June, 14), 0},
		{"due day", NewDate(2025, time.June, 15), 1},
		{"stays due after", NewDate(2025, time.July, 1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.DuePayments(tt.asOf); len(got) != tt.due {
				t.Errorf("DuePayments(%v) = %d payments, want %d", tt.asOf, len(got), tt.due)
			}
		})
	}

	// Paused definitions are never due, but keep their schedule.
	if _, err := r.ToggleActive(p.ID); err != nil {
		t.Fatal(err)
	}
	if got := r.DuePayments(NewDate(2025, time.July, 1)); len(got) != 0 {
		t.Errorf("paused definition still due: %d", len(got))
	}
	if _, err := r.ToggleActive(p.ID); err != nil {
		t.Fatal(err)
	}
	if got := r.DuePayments(NewDate(2025, time.July, 1)); len(got) != 1 {
		t.Errorf("resumed overdue definition not due: %d", len(got))
	}
}

func TestAdvanceScheduleKeepsCadenceGrid(t *testing.T) {
	r := NewRegistry()
	p, err := r.Add(netflix("acc"))
	if err != nil {
		t.Fatal(err)
	}

	// Processed late, on the 20th: the next due date still advances from the
	// previous due date, not from the processing day.
	if err := r.advanceSchedule(p.ID, NewDate(2025, time.June, 20)); err != nil {
		t.Fatal(err)
	}
	got, _ := r.Payment(p.ID)
	if got.NextDueDate != NewDate(2025, time.July, 15) {
		t.Errorf("NextDueDate = %v, want 2025-07-15", got.NextDueDate)
	}
	if got.LastProcessedDate != NewDate(2025, time.June, 20) {
		t.Errorf("LastProcessedDate = %v, want 2025-06-20", got.LastProcessedDate)
	}
}

func TestRegistryDeleteAndPerAccount(t *testing.T) {
	r := NewRegistry()
	a, err := r.Add(netflix("acc-a"))
	if err != nil {
		t.Fatal(err)
	}
	b := netflix("acc-b")
	b.Name = "Gym"
	if _, err := r.Add(b); err != nil {
		t.Fatal(err)
	}

	if got := r.PaymentsForAccount("acc-a"); len(got) != 1 || got[0].Name != "Netflix" {
		t.Errorf("PaymentsForAccount(acc-a) = %v", got)
	}

	if err := r.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.Delete(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
	if got := r.Payments(); len(got) != 1 {
		t.Errorf("Payments() = %d, want 1", len(got))
	}
}
