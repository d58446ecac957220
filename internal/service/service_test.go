package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leasemarket-backend/internal/credential"
	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/registry"
	"leasemarket-backend/internal/repository/memory"
)

const (
	nftAddr      = domain.Address("0x00000000000000000000000000000000000000aa")
	payTokenAddr = domain.Address("0x00000000000000000000000000000000000000bb")
	passAddr     = domain.Address("0x00000000000000000000000000000000000000cc")
	engineAddr   = domain.Address("0x00000000000000000000000000000000000000ee")
	operatorAddr = domain.Address("0x00000000000000000000000000000000000000ff")
	ownerAddr    = domain.Address("0x0000000000000000000000000000000000000001")
	walletAddr   = domain.Address("0x0000000000000000000000000000000000000002")
	landlordAddr = domain.Address("0x0000000000000000000000000000000000000011")
	renterAddr   = domain.Address("0x0000000000000000000000000000000000000022")
	strangerAddr = domain.Address("0x0000000000000000000000000000000000000033")
)

type fixture struct {
	svc      *marketService
	store    *memory.Store
	assets   *registry.MemoryAssetRegistry
	payments *registry.MemoryPaymentLedger
	settings *Settings
	now      time.Time
}

// newFixture wires the market service against fresh in-memory collaborators:
// the landlord holds item 1 with custody delegated to the engine, and the
// renter holds 1,000,000 pay-token units. Fee policy is 10/100, day length
// 24h, and the clock starts at a fixed instant advanced via f.advance.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	assets := registry.NewMemoryAssetRegistry(1)
	payments := registry.NewMemoryPaymentLedger()
	settings, err := NewSettings(ownerAddr, walletAddr, 10, 100)
	require.NoError(t, err)

	rentDomain := credential.Domain{Name: "LeaseMarket", Version: "1", ChainID: 1, Contract: engineAddr}
	svc := NewMarketService(store, store, store, assets, payments, settings,
		engineAddr, operatorAddr, rentDomain, 24*time.Hour).(*marketService)

	f := &fixture{
		svc:      svc,
		store:    store,
		assets:   assets,
		payments: payments,
		settings: settings,
		now:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	svc.now = func() time.Time { return f.now }
	assets.SetClock(svc.now)

	assets.RegisterAsset(nftAddr, "MockAsset", true)
	assets.RegisterAsset(passAddr, "PassToken", false)
	require.NoError(t, assets.Mint(nftAddr, landlordAddr, 1))
	require.NoError(t, assets.SetApprovalForAll(ctx, nftAddr, landlordAddr, engineAddr, true))
	require.NoError(t, assets.SetApprovalForAll(ctx, nftAddr, renterAddr, engineAddr, true))
	payments.Mint(payTokenAddr, renterAddr, 1_000_000)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) defaultParams() OfferParams {
	return OfferParams{
		Asset:           nftAddr,
		PayToken:        payTokenAddr,
		ItemID:          1,
		MinDuration:     1,
		MaxDuration:     1000,
		StartDiscountAt: 500,
		Price:           100,
		DiscountPrice:   90,
	}
}

// seedOffer inserts an offer directly, with UnitPrice/DiscountUnitPrice
// taken as the final stored (fee-inclusive) prices.
func (f *fixture) seedOffer(t *testing.T, unitPrice, discountUnitPrice int64) *domain.Offer {
	t.Helper()
	offer := &domain.Offer{
		Asset:             nftAddr,
		ItemID:            1,
		Landlord:          landlordAddr,
		PayToken:          payTokenAddr,
		MinDuration:       1,
		MaxDuration:       1000,
		StartDiscountAt:   500,
		UnitPrice:         unitPrice,
		DiscountUnitPrice: discountUnitPrice,
		CreatedOn:         f.now,
		UpdatedOn:         f.now,
	}
	require.NoError(t, f.store.Create(context.Background(), offer))
	return offer
}

// lease seeds an offer at stored prices 100/90 and rents it for the given
// duration, returning the leased offer.
func (f *fixture) lease(t *testing.T, durationDays uint64) *domain.Offer {
	t.Helper()
	ctx := context.Background()
	f.seedOffer(t, 100, 90)
	f.approvePayment(t, renterAddr, 1_000_000)
	offer, err := f.svc.Rent(ctx, renterAddr, nftAddr, landlordAddr, payTokenAddr, 1, durationDays)
	require.NoError(t, err)
	return offer
}

func (f *fixture) approvePayment(t *testing.T, owner domain.Address, amount int64) {
	t.Helper()
	require.NoError(t, f.payments.Approve(context.Background(), payTokenAddr, owner, engineAddr, amount))
}

func (f *fixture) balance(t *testing.T, account domain.Address) int64 {
	t.Helper()
	b, err := f.payments.BalanceOf(context.Background(), payTokenAddr, account)
	require.NoError(t, err)
	return b
}

func (f *fixture) holder(t *testing.T, itemID uint64) domain.Address {
	t.Helper()
	h, err := f.assets.HolderOf(context.Background(), nftAddr, itemID)
	require.NoError(t, err)
	return h
}
