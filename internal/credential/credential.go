// Package credential implements the signed typed-message scheme that lets an
// off-chain credential substitute for a direct call: domain-separated
// digests over typed payloads, Ed25519 signatures carrying the signer's
// public key, and pure verification separated from nonce consumption.
package credential

import (
	"crypto/ed25519"
	"encoding/binary"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/sha3"

	"leasemarket-backend/internal/domain"
)

// Domain binds a credential to one verifying instance so a signature for
// one market or asset collection is useless against another.
type Domain struct {
	Name     string
	Version  string
	ChainID  uint64
	Contract domain.Address
}

// Separator returns the 32-byte domain separator.
func (d Domain) Separator() []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(d.Name))
	h.Write([]byte{0})
	h.Write([]byte(d.Version))
	h.Write([]byte{0})
	h.Write(encUint64(d.ChainID))
	h.Write([]byte(d.Contract.Normalize()))
	return h.Sum(nil)
}

// Credential is a detached signature over a typed payload. The public key
// travels with the signature; the signer's address is derived from it and
// must match the address the payload claims.
type Credential struct {
	PublicKey ed25519.PublicKey `json:"public_key"`
	Signature []byte            `json:"signature"`
}

// SignerAddress returns the ledger address bound to the credential's key.
func (c Credential) SignerAddress() domain.Address {
	return AddressOf(c.PublicKey)
}

// AddressOf derives an account address from a public key: the low 20 bytes
// of the key's Keccak-256 digest, hex encoded.
func AddressOf(pub ed25519.PublicKey) domain.Address {
	h := sha3.NewLegacyKeccak256()
	h.Write(pub)
	sum := h.Sum(nil)
	return domain.Address("0x" + hex.EncodeToString(sum[12:]))
}

// PermitAllClaims authorizes Spender for blanket custody-transfer rights
// over all of Signer's items in one asset collection.
type PermitAllClaims struct {
	Signer   domain.Address `json:"signer"`
	Spender  domain.Address `json:"spender"`
	Nonce    uint64         `json:"nonce"`
	Deadline time.Time      `json:"deadline"`
}

// PermitClaims is the single-item variant of PermitAllClaims.
type PermitClaims struct {
	Signer   domain.Address `json:"signer"`
	Spender  domain.Address `json:"spender"`
	ItemID   uint64         `json:"item_id"`
	Nonce    uint64         `json:"nonce"`
	Deadline time.Time      `json:"deadline"`
}

// RentClaims is a landlord-signed lease intent: anyone may submit it to
// activate a lease at the signed price without a stored offer.
type RentClaims struct {
	Asset        domain.Address `json:"asset"`
	PayToken     domain.Address `json:"pay_token"`
	ItemID       uint64         `json:"item_id"`
	DurationDays uint64         `json:"duration_days"`
	Price        int64          `json:"price"`
	Nonce        uint64         `json:"nonce"`
	Deadline     time.Time      `json:"deadline"`
}

func (c PermitAllClaims) digest(d Domain) []byte {
	return digest(d, "PermitAll",
		encAddress(c.Signer),
		encAddress(c.Spender),
		encUint64(c.Nonce),
		encUint64(uint64(c.Deadline.Unix())),
	)
}

func (c PermitClaims) digest(d Domain) []byte {
	return digest(d, "Permit",
		encAddress(c.Signer),
		encAddress(c.Spender),
		encUint64(c.ItemID),
		encUint64(c.Nonce),
		encUint64(uint64(c.Deadline.Unix())),
	)
}

func (c RentClaims) digest(d Domain) []byte {
	return digest(d, "Rent",
		encAddress(c.Asset),
		encAddress(c.PayToken),
		encUint64(c.ItemID),
		encUint64(c.DurationDays),
		encUint64(uint64(c.Price)),
		encUint64(c.Nonce),
		encUint64(uint64(c.Deadline.Unix())),
	)
}

func digest(d Domain, typeTag string, fields ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(d.Separator())
	h.Write([]byte(typeTag))
	h.Write([]byte{0})
	for _, f := range fields {
		h.Write(f)
	}
	return h.Sum(nil)
}

func encUint64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func encAddress(a domain.Address) []byte {
	return append([]byte(a.Normalize()), 0)
}
