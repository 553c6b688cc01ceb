package moneybook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AccountType classifies an account as asset-like or liability-like.
//
// Each type carries a balance multiplier applied exactly once, at account
// creation time, to the starting balance: a checking account opened with
// 100.00 starts at +100.00, a credit card carrying 100.00 of debt starts
// at -100.00.
type AccountType int

const (
	Asset AccountType = iota
	Liability
)

func (t AccountType) String() string {
	switch t {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	default:
		return "unknown"
	}
}

// Multiplier returns the sign applied to the starting balance at creation.
func (t AccountType) Multiplier() int {
	if t == Liability {
		return -1
	}
	return 1
}

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset", "checking", "savings", "cash":
		return Asset, nil
	case "liability", "credit", "loan":
		return Liability, nil
	default:
		return Asset, fmt.Errorf("unknown account type %q", s)
	}
}

// MarshalJSON encodes the type as its lowercase name.
func (t AccountType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// UnmarshalJSON decodes the type from its lowercase name.
func (t *AccountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseAccountType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Account holds an ordered collection of transactions and a cached balance.
//
// CurrentBalance is derived state: after every mutation the owning Ledger
// recomputes it from StartingBalance and the full transaction list, so it can
// never drift from the pure recomputation. The transaction collection keeps
// insertion order, which is not necessarily chronological.
type Account struct {
	ID              string
	Name            string
	Type            AccountType
	StartingBalance Money // already sign-adjusted by the type's multiplier
	CurrentBalance  Money

	txs []Transaction // insertion order, owned by the Ledger
}

// Transactions returns a copy of the account's transactions in insertion order.
func (a *Account) Transactions() []Transaction {
	out := make([]Transaction, len(a.txs))
	copy(out, a.txs)
	return out
}

// transaction returns the index of the transaction with the given id, or -1.
func (a *Account) transaction(id string) int {
	for i := range a.txs {
		if a.txs[i].ID == id {
			return i
		}
	}
	return -1
}

// recalculateBalance is the pure recomputation of the account balance:
// starting balance, plus income, minus expenses, transfers signed by side.
func (a *Account) recalculateBalance() Money {
	balance := a.StartingBalance
	for _, tx := range a.txs {
		balance = balance.Add(tx.signed())
	}
	return balance
}

// snapshot returns a copy of the account safe to hand to callers.
func (a *Account) snapshot() Account {
	c := *a
	c.txs = nil
	return c
}

// MarshalJSON implements the json.Marshaler interface for Account.
// The cached CurrentBalance is deliberately not persisted; it is recomputed
// from the transaction history on load.
func (a Account) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.ID)
	w.Append("name", a.Name)
	w.Append("type", a.Type)
	w.Append("startingBalance", a.StartingBalance)
	return w.MarshalJSON()
}
