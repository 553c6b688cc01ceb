// Package moneybook is a personal-finance ledger core.
//
// It tracks accounts and their transactions, keeps double-entry transfers
// consistent, and materializes recurring payments into the ledger exactly
// once per due cycle. The package is an embedded, single-process engine: it
// performs no I/O on its own and is driven by a host through the Scheduler's
// idempotent entry point and the book codec's injectable load/save streams.
package moneybook
