package moneybook

import (
	"fmt"
	"sync"
)

// Ledger owns the accounts and their transactions.
//
// Every public method leaves the store in a state where each account's
// CurrentBalance equals the pure recomputation from its starting balance and
// full transaction history, including on error paths (failed operations
// mutate nothing). A single mutex serializes all access; transaction volumes
// are consumer-scale so there is no point in anything finer.
type Ledger struct {
	mu       sync.Mutex
	accounts []*Account // insertion order
	byID     map[string]*Account
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{byID: make(map[string]*Account)}
}

// CreateAccount creates an account, applying the account type's sign
// multiplier once to the starting balance. The returned snapshot carries the
// adjusted starting balance as its current balance.
func (l *Ledger) CreateAccount(name string, starting Money, typ AccountType) Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	if typ.Multiplier() < 0 {
		starting = starting.Neg()
	}
	a := &Account{
		ID:              NewID(),
		Name:            name,
		Type:            typ,
		StartingBalance: starting,
		CurrentBalance:  starting,
	}
	l.accounts = append(l.accounts, a)
	l.byID[a.ID] = a
	return a.snapshot()
}

// Account returns a snapshot of the account with the given id.
func (l *Ledger) Account(id string) (Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.byID[id]
	if !ok {
		return Account{}, fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	return a.snapshot(), nil
}

// Accounts returns snapshots of all accounts in creation order.
func (l *Ledger) Accounts() []Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, a.snapshot())
	}
	return out
}

// Transactions returns a copy of an account's transactions in insertion order.
func (l *Ledger) Transactions(accountID string) ([]Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", accountID, ErrNotFound)
	}
	return a.Transactions(), nil
}

// AddTransaction appends a transaction to its owning account and recomputes
// that account's balance. Transfer legs cannot be added this way; use
// AddTransfer so both sides stay linked.
func (l *Ledger) AddTransaction(tx Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := tx.validate(); err != nil {
		return err
	}
	if tx.IsTransfer() {
		return fmt.Errorf("transfer transactions must be created with AddTransfer")
	}
	a, ok := l.byID[tx.AccountID]
	if !ok {
		return fmt.Errorf("account %q: %w", tx.AccountID, ErrNotFound)
	}
	a.txs = append(a.txs, tx)
	a.CurrentBalance = a.recalculateBalance()
	return nil
}

// UpdateTransaction replaces the transaction with the same id in its owning
// account and recomputes the balance.
func (l *Ledger) UpdateTransaction(tx Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := tx.validate(); err != nil {
		return err
	}
	a, ok := l.byID[tx.AccountID]
	if !ok {
		return fmt.Errorf("account %q: %w", tx.AccountID, ErrNotFound)
	}
	i := a.transaction(tx.ID)
	if i < 0 {
		return fmt.Errorf("transaction %q: %w", tx.ID, ErrNotFound)
	}
	a.txs[i] = tx
	a.CurrentBalance = a.recalculateBalance()
	return nil
}

// DeleteTransaction removes a transaction from its account and recomputes the
// balance. Deleting one leg of a transfer also deletes the linked leg in the
// other account and recomputes that account too. The deletion is
// all-or-nothing: both legs are located before either is touched.
func (l *Ledger) DeleteTransaction(txID, accountID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.byID[accountID]
	if !ok {
		return fmt.Errorf("account %q: %w", accountID, ErrNotFound)
	}
	i := a.transaction(txID)
	if i < 0 {
		return fmt.Errorf("transaction %q: %w", txID, ErrNotFound)
	}
	tx := a.txs[i]

	// Locate the linked leg first so a broken link aborts before any mutation.
	var linked *Account
	linkedIdx := -1
	if tx.IsTransfer() && tx.LinkedTransactionID != "" {
		for _, other := range l.accounts {
			if j := other.transaction(tx.LinkedTransactionID); j >= 0 {
				linked, linkedIdx = other, j
				break
			}
		}
		if linked == nil {
			return fmt.Errorf("linked transaction %q: %w", tx.LinkedTransactionID, ErrNotFound)
		}
	}

	a.txs = append(a.txs[:i], a.txs[i+1:]...)
	a.CurrentBalance = a.recalculateBalance()
	if linked != nil {
		linked.txs = append(linked.txs[:linkedIdx], linked.txs[linkedIdx+1:]...)
		linked.CurrentBalance = linked.recalculateBalance()
	}
	return nil
}

// AddTransfer moves an amount between two accounts as a pair of mutually
// linked transactions. Both accounts are validated before either is mutated,
// so either both legs are appended or neither is.
func (l *Ledger) AddTransfer(amount Money, fromID, toID string, day Date, notes string) (Transaction, Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !amount.IsPositive() {
		return Transaction{}, Transaction{}, fmt.Errorf("transfer amount %s: %w", amount, ErrInvalidAmount)
	}
	if fromID == toID {
		return Transaction{}, Transaction{}, fmt.Errorf("transfer from %q to itself: %w", fromID, ErrTransferAccountMismatch)
	}
	from, ok := l.byID[fromID]
	if !ok {
		return Transaction{}, Transaction{}, fmt.Errorf("source account %q: %w", fromID, ErrTransferAccountMismatch)
	}
	to, ok := l.byID[toID]
	if !ok {
		return Transaction{}, Transaction{}, fmt.Errorf("target account %q: %w", toID, ErrTransferAccountMismatch)
	}

	source := Transaction{
		ID:               NewID(),
		Type:             Transfer,
		AccountID:        fromID,
		Amount:           amount,
		Date:             day,
		Payee:            to.Name,
		Notes:            notes,
		TargetAccountID:  toID,
		IsTransferSource: true,
	}
	target := Transaction{
		ID:              NewID(),
		Type:            Transfer,
		AccountID:       toID,
		Amount:          amount,
		Date:            day,
		Payee:           from.Name,
		Notes:           notes,
		TargetAccountID: fromID,
	}
	source.LinkedTransactionID = target.ID
	target.LinkedTransactionID = source.ID

	from.txs = append(from.txs, source)
	to.txs = append(to.txs, target)
	from.CurrentBalance = from.recalculateBalance()
	to.CurrentBalance = to.recalculateBalance()
	return source, target, nil
}

// DeleteAccount removes an account, its transactions, and any transfer legs
// in other accounts linked to them, recomputing every touched balance.
func (l *Ledger) DeleteAccount(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.byID[id]
	if !ok {
		return fmt.Errorf("account %q: %w", id, ErrNotFound)
	}

	for _, tx := range a.txs {
		if !tx.IsTransfer() || tx.LinkedTransactionID == "" {
			continue
		}
		for _, other := range l.accounts {
			if other == a {
				continue
			}
			if j := other.transaction(tx.LinkedTransactionID); j >= 0 {
				other.txs = append(other.txs[:j], other.txs[j+1:]...)
				other.CurrentBalance = other.recalculateBalance()
				break
			}
		}
	}

	delete(l.byID, id)
	for i, acc := range l.accounts {
		if acc == a {
			l.accounts = append(l.accounts[:i], l.accounts[i+1:]...)
			break
		}
	}
	return nil
}

// RecalculateBalance returns the pure recomputation of an account's balance
// from its starting balance and full transaction history. It never consults
// the cached value; it is the reference the cache must always agree with.
func (l *Ledger) RecalculateBalance(accountID string) (Money, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.byID[accountID]
	if !ok {
		return Money{}, fmt.Errorf("account %q: %w", accountID, ErrNotFound)
	}
	return a.recalculateBalance(), nil
}

// NetWorth sums the current balance of every account, assets and liabilities
// alike.
func (l *Ledger) NetWorth() Money {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total Money
	for _, a := range l.accounts {
		total = total.Add(a.CurrentBalance)
	}
	return total
}

// TotalAssets sums the positive balances of asset-like accounts.
func (l *Ledger) TotalAssets() Money {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total Money
	for _, a := range l.accounts {
		if a.Type == Asset && a.CurrentBalance.IsPositive() {
			total = total.Add(a.CurrentBalance)
		}
	}
	return total
}

// TotalDebt sums the magnitudes of negative balances on liability-like
// accounts, as a positive figure.
func (l *Ledger) TotalDebt() Money {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total Money
	for _, a := range l.accounts {
		if a.Type == Liability && a.CurrentBalance.IsNegative() {
			total = total.Add(a.CurrentBalance.Neg())
		}
	}
	return total
}

// AvailableCredit sums the positive balances of liability-like accounts
// (credit paid beyond what is owed).
func (l *Ledger) AvailableCredit() Money {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total Money
	for _, a := range l.accounts {
		if a.Type == Liability && a.CurrentBalance.IsPositive() {
			total = total.Add(a.CurrentBalance)
		}
	}
	return total
}

// restoreAccount reinstates a persisted account record, keeping its id.
// The balance cache is left zero until restoreDone folds the history.
func (l *Ledger) restoreAccount(a Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if a.ID == "" {
		return fmt.Errorf("account record has no id")
	}
	if _, ok := l.byID[a.ID]; ok {
		return fmt.Errorf("duplicate account record %q", a.ID)
	}
	c := a
	c.txs = nil
	l.accounts = append(l.accounts, &c)
	l.byID[c.ID] = &c
	return nil
}

// restoreTransaction reinstates a persisted transaction record, transfer legs
// included, without the AddTransaction transfer guard.
func (l *Ledger) restoreTransaction(tx Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.byID[tx.AccountID]
	if !ok {
		return fmt.Errorf("transaction %q references account %q: %w", tx.ID, tx.AccountID, ErrNotFound)
	}
	a.txs = append(a.txs, tx)
	return nil
}

// restoreDone recomputes every cached balance after a restore, since the
// cache is derived state and never persisted.
func (l *Ledger) restoreDone() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range l.accounts {
		a.CurrentBalance = a.recalculateBalance()
	}
}
