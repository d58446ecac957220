package service

import (
	"context"
	"sync"
	"time"

	"leasemarket-backend/internal/credential"
	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/registry"
	"leasemarket-backend/internal/repository"
)

// OfferParams carries the landlord-supplied terms of a new offer. Price and
// DiscountPrice are raw amounts; the fee markup is applied on storage.
type OfferParams struct {
	Asset           domain.Address
	PayToken        domain.Address
	PassToken       domain.Address
	ItemID          uint64
	MinDuration     uint64
	MaxDuration     uint64
	StartDiscountAt uint64
	Price           int64
	DiscountPrice   int64
}

type MarketService interface {
	CreateOffer(ctx context.Context, landlord domain.Address, params OfferParams) (*domain.Offer, error)
	// CreateOffersBatch posts one offer per item with default tiering
	// (no discount window, minimum duration one day). Items are processed
	// in order and the batch is not atomic: the returned count tells how
	// many offers were committed before the first failure.
	CreateOffersBatch(ctx context.Context, landlord, asset, payToken, passToken domain.Address, itemIDs, maxDurations []uint64, prices []int64) (int, error)
	SetDiscountData(ctx context.Context, landlord, asset domain.Address, itemIDs, startDiscountAts []uint64, discountPrices []int64) error
	GetOffer(ctx context.Context, key domain.OfferKey) (*domain.Offer, error)

	Rent(ctx context.Context, renter, asset, landlord, payToken domain.Address, itemID, durationDays uint64) (*domain.Offer, error)
	BackToken(ctx context.Context, caller, asset, landlord domain.Address, itemID uint64) error
	// ReclaimExpired reclaims every lease whose term has run out, acting
	// as the operator. Returns the number of items returned to their
	// landlords.
	ReclaimExpired(ctx context.Context) (int, error)
	CheckLock(ctx context.Context, asset domain.Address, itemID uint64) (domain.LockStatus, error)

	RequestRefund(ctx context.Context, caller, asset, landlord domain.Address, itemID uint64, payoutAmount int64, proposer domain.Party) error
	AcceptRefund(ctx context.Context, caller, asset, landlord domain.Address, itemID uint64, payoutAmount int64) error
	RequestExtend(ctx context.Context, caller, asset, landlord domain.Address, itemID uint64, payoutAmount int64, extendedDays uint64) error
	AcceptExtend(ctx context.Context, caller, asset, landlord domain.Address, itemID uint64, payoutAmount int64) error

	Permit(ctx context.Context, asset domain.Address, claims credential.PermitClaims, cred credential.Credential) error
	PermitAll(ctx context.Context, asset domain.Address, claims credential.PermitAllClaims, cred credential.Credential) error
	RentWithPermit(ctx context.Context, renter, landlord domain.Address, rentClaims credential.RentClaims, rentCred credential.Credential, permitClaims credential.PermitAllClaims, permitCred credential.Credential) (*domain.Offer, error)
	RentWithoutPermit(ctx context.Context, renter, landlord domain.Address, claims credential.RentClaims, cred credential.Credential) (*domain.Offer, error)
}

type AdminService interface {
	SetWallet(ctx context.Context, caller, wallet domain.Address) error
	SetFee(ctx context.Context, caller domain.Address, rate int64) error
	SetFeePause(ctx context.Context, caller domain.Address, paused bool) error
	Settings(ctx context.Context) (wallet domain.Address, feeRate, feeDenominator int64, feePaused bool)
}

type marketService struct {
	// mu serializes every state-mutating operation: each one validates
	// against a consistent snapshot and then applies all of its effects
	// without interleaving.
	mu sync.Mutex

	offers       repository.OfferRepository
	negotiations repository.NegotiationRepository
	nonces       repository.NonceRepository
	assets       registry.AssetRegistry
	payments     registry.PaymentLedger
	settings     *Settings

	engine     domain.Address // the engine's own ledger identity; approvals and allowances are granted to it
	operator   domain.Address // may reclaim expired leases on landlords' behalf
	rentDomain credential.Domain
	dayLength  time.Duration
	now        func() time.Time
}

func NewMarketService(
	offers repository.OfferRepository,
	negotiations repository.NegotiationRepository,
	nonces repository.NonceRepository,
	assets registry.AssetRegistry,
	payments registry.PaymentLedger,
	settings *Settings,
	engine, operator domain.Address,
	rentDomain credential.Domain,
	dayLength time.Duration,
) MarketService {
	return &marketService{
		offers:       offers,
		negotiations: negotiations,
		nonces:       nonces,
		assets:       assets,
		payments:     payments,
		settings:     settings,
		engine:       engine.Normalize(),
		operator:     operator.Normalize(),
		rentDomain:   rentDomain,
		dayLength:    dayLength,
		now:          time.Now,
	}
}
