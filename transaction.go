package moneybook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TxType identifies the kind of a transaction.
type TxType int

const (
	Income TxType = iota
	Expense
	Transfer
)

func (t TxType) String() string {
	switch t {
	case Income:
		return "income"
	case Expense:
		return "expense"
	case Transfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// ParseTxType parses a string into a TxType.
func ParseTxType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	case "transfer":
		return Transfer, nil
	default:
		return Income, fmt.Errorf("unknown transaction type %q", s)
	}
}

// MarshalJSON encodes the type as its lowercase name.
func (t TxType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// UnmarshalJSON decodes the type from its lowercase name.
func (t *TxType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseTxType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// NewID returns a fresh opaque unique id for a record.
func NewID() string { return uuid.NewString() }

// Transaction is a single ledger entry owned by an account.
//
// The Amount is always positive; the Type decides the direction of money.
// The three Linked* fields are set on transfer legs only: a transfer is
// recorded as two mutually linked transactions, one per account, with equal
// amounts and opposite IsTransferSource flags.
type Transaction struct {
	ID        string
	Type      TxType
	AccountID string
	Amount    Money
	Date      Date
	Payee     string
	Category  string
	Notes     string

	// Transfer-only fields.
	TargetAccountID     string
	IsTransferSource    bool
	LinkedTransactionID string
}

// NewIncome creates an income transaction for an account.
func NewIncome(accountID string, amount Money, day Date, payee, category, notes string) Transaction {
	return Transaction{
		ID:        NewID(),
		Type:      Income,
		AccountID: accountID,
		Amount:    amount,
		Date:      day,
		Payee:     payee,
		Category:  category,
		Notes:     notes,
	}
}

// NewExpense creates an expense transaction for an account.
func NewExpense(accountID string, amount Money, day Date, payee, category, notes string) Transaction {
	tx := NewIncome(accountID, amount, day, payee, category, notes)
	tx.Type = Expense
	return tx
}

// IsTransfer reports whether the transaction is one leg of a transfer pair.
func (t Transaction) IsTransfer() bool { return t.Type == Transfer }

// signed returns the transaction's contribution to its account balance.
func (t Transaction) signed() Money {
	switch t.Type {
	case Income:
		return t.Amount
	case Expense:
		return t.Amount.Neg()
	case Transfer:
		if t.IsTransferSource {
			return t.Amount.Neg()
		}
		return t.Amount
	default:
		return Money{}
	}
}

// validate checks the fields every transaction must carry.
func (t Transaction) validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction id is missing")
	}
	if t.AccountID == "" {
		return fmt.Errorf("transaction account id is missing")
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount %s: %w", t.Amount, ErrInvalidAmount)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("type", t.Type)
	w.Append("accountId", t.AccountID)
	w.EmbedFrom(t.Amount)
	w.Append("date", t.Date)
	w.Optional("payee", t.Payee)
	w.Optional("category", t.Category)
	w.Optional("notes", t.Notes)
	w.Optional("targetAccountId", t.TargetAccountID)
	w.Optional("isTransferSource", t.IsTransferSource)
	w.Optional("linkedTransactionId", t.LinkedTransactionID)
	return w.MarshalJSON()
}
