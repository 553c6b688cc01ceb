package moneybook

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// this file handles importing transactions from bank-export JSON documents.
// Banks disagree on everything, so the mapping from their document to ledger
// transactions is a set of user-supplied jsonpath expressions.

// ImportMapping describes where to find transaction fields in an export
// document. Items selects the list of transaction objects; the other
// expressions are evaluated against each item.
type ImportMapping struct {
	Items      string `json:"items" yaml:"items"`
	Date       string `json:"date" yaml:"date"`
	Amount     string `json:"amount" yaml:"amount"`
	Payee      string `json:"payee,omitempty" yaml:"payee"`
	Notes      string `json:"notes,omitempty" yaml:"notes"`
	DateLayout string `json:"dateLayout,omitempty" yaml:"dateLayout"` // defaults to 2006-01-02
}

// ImportTransactions reads a bank-export JSON document and maps it onto
// ledger transactions for the given account. Negative exported amounts become
// expenses, positive ones income; the sign convention of the export never
// leaks into the ledger, where amounts are always positive. Zero-amount items
// fail the whole import with ErrInvalidAmount and the item's index.
//
// The returned transactions are not yet part of any ledger; submit them
// through Ledger.AddTransaction so the balance invariant holds.
func ImportTransactions(r io.Reader, mapping ImportMapping, accountID, currency string) ([]Transaction, error) {
	if mapping.Items == "" || mapping.Date == "" || mapping.Amount == "" {
		return nil, fmt.Errorf("import mapping requires items, date and amount expressions")
	}
	layout := mapping.DateLayout
	if layout == "" {
		layout = DateFormat
	}

	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse export document: %w", err)
	}

	itemsValue, err := jsonpath.Get(mapping.Items, doc)
	if err != nil {
		return nil, fmt.Errorf("items expression %q: %w", mapping.Items, err)
	}
	items, ok := itemsValue.([]interface{})
	if !ok {
		return nil, fmt.Errorf("items expression %q did not select a list", mapping.Items)
	}

	var txs []Transaction
	for i, item := range items {
		value, err := importAmount(mapping.Amount, item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if value.IsZero() {
			// Rejected here rather than at submission, so the caller gets the
			// offending item instead of a half-imported batch.
			return nil, fmt.Errorf("item %d: zero amount: %w", i, ErrInvalidAmount)
		}

		dateStr, err := importString(mapping.Date, item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		on, err := time.Parse(layout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("item %d: invalid date %q for layout %q: %w", i, dateStr, layout, err)
		}

		tx := Transaction{
			ID:        NewID(),
			Type:      Income,
			AccountID: accountID,
			Amount:    M(value, currency),
			Date:      NewDate(on.Date()),
		}
		if value.IsNegative() {
			tx.Type = Expense
			tx.Amount = tx.Amount.Abs()
		}
		if mapping.Payee != "" {
			if tx.Payee, err = importString(mapping.Payee, item); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		if mapping.Notes != "" {
			if tx.Notes, err = importString(mapping.Notes, item); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// importString evaluates a jsonpath expression expected to select a string.
func importString(expr string, item interface{}) (string, error) {
	v, err := jsonpath.Get(expr, item)
	if err != nil {
		return "", fmt.Errorf("expression %q: %w", expr, err)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expression %q selected %T, want string", expr, v)
	}
	return s, nil
}

// importAmount evaluates a jsonpath expression selecting a number, accepting
// both JSON numbers and numeric strings.
func importAmount(expr string, item interface{}) (decimal.Decimal, error) {
	v, err := jsonpath.Get(expr, item)
	if err != nil {
		return decimal.Zero, fmt.Errorf("expression %q: %w", expr, err)
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		value, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, fmt.Errorf("expression %q selected non-numeric string %q", expr, n)
		}
		return value, nil
	default:
		return decimal.Zero, fmt.Errorf("expression %q selected %T, want number", expr, v)
	}
}
