package domain

import "strings"

// Address identifies an account, an asset collection, or a payment token
// on the ledger. The canonical form is a lowercase 0x-prefixed hex string.
type Address string

const ZeroAddress Address = ""

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Normalize lowercases the hex form so addresses compare reliably as map keys.
func (a Address) Normalize() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) String() string {
	return string(a)
}
