package model

// Identity names the account a ledger belongs to.
type Identity struct {
	Owner         string
	AccountNumber string
	Bank          string
}

// IsZero reports whether no identity field is set.
func (id Identity) IsZero() bool {
	return id.Owner == "" && id.AccountNumber == "" && id.Bank == ""
}
