package model

// Account represents a transaction account as listed by the remote ledger.
// Accounts are configured, not discovered; this type exists for the
// account-listing command and for resolving display names.
type Account struct {
	ID   int64
	Name string
}
