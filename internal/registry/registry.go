// Package registry defines the capability contracts of the external
// collaborators the market engine moves custody and value through: the
// non-fungible asset registry and the fungible payment ledger. The engine
// only ever talks to these interfaces; in-memory implementations back tests
// and the dev-mode server.
package registry

import (
	"context"

	"leasemarket-backend/internal/credential"
	"leasemarket-backend/internal/domain"
)

// AssetRegistry holds non-fungible items across one or more collections
// (keyed by the collection's asset address).
type AssetRegistry interface {
	// HolderOf returns the current holder of an item.
	HolderOf(ctx context.Context, asset domain.Address, itemID uint64) (domain.Address, error)
	// BalanceOf returns how many items of the collection the owner holds.
	BalanceOf(ctx context.Context, asset, owner domain.Address) (int64, error)
	// Transfer moves an item between accounts. The from account must hold
	// the item; callers are expected to have checked approval.
	Transfer(ctx context.Context, asset, from, to domain.Address, itemID uint64) error
	// IsApprovedForAll reports whether operator holds blanket custody
	// transfer rights over owner's items.
	IsApprovedForAll(ctx context.Context, asset, owner, operator domain.Address) (bool, error)
	// IsApprovedFor reports whether operator may move one specific item of
	// owner's, through either a blanket or a single-item grant.
	IsApprovedFor(ctx context.Context, asset, owner, operator domain.Address, itemID uint64) (bool, error)
	// SetApprovalForAll grants or revokes blanket rights, as the owner.
	SetApprovalForAll(ctx context.Context, asset, owner, operator domain.Address, approved bool) error
	// Permit grants custody rights over the one signed item from a signed
	// credential.
	Permit(ctx context.Context, asset domain.Address, claims credential.PermitClaims, cred credential.Credential) error
	// PermitAll grants blanket custody rights from a signed credential.
	PermitAll(ctx context.Context, asset domain.Address, claims credential.PermitAllClaims, cred credential.Credential) error
	// LockStatus probes the collection's locking capability for an item.
	LockStatus(ctx context.Context, asset domain.Address, itemID uint64) (domain.LockStatus, error)
}

// PaymentLedger moves fungible value between accounts, per token.
type PaymentLedger interface {
	BalanceOf(ctx context.Context, token, account domain.Address) (int64, error)
	// Allowance returns how much spender may move out of owner's balance.
	Allowance(ctx context.Context, token, owner, spender domain.Address) (int64, error)
	// Approve sets spender's allowance, as the owner.
	Approve(ctx context.Context, token, owner, spender domain.Address, amount int64) error
	// TransferFrom moves amount from payer to payee using spender's
	// allowance over payer's balance.
	TransferFrom(ctx context.Context, token, spender, payer, payee domain.Address, amount int64) error
}
