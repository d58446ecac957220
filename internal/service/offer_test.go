package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasemarket-backend/internal/domain"
)

func TestCreateOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores fee-inclusive prices", func(t *testing.T) {
		f := newFixture(t)
		offer, err := f.svc.CreateOffer(ctx, landlordAddr, f.defaultParams())
		require.NoError(t, err)

		// 10% markup on 100 and 90.
		assert.Equal(t, int64(110), offer.UnitPrice)
		assert.Equal(t, int64(99), offer.DiscountUnitPrice)
		assert.False(t, offer.Leased())
	})

	t.Run("Rejects zero pay token", func(t *testing.T) {
		f := newFixture(t)
		params := f.defaultParams()
		params.PayToken = domain.ZeroAddress
		_, err := f.svc.CreateOffer(ctx, landlordAddr, params)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("Rejects inverted duration bounds", func(t *testing.T) {
		f := newFixture(t)
		params := f.defaultParams()
		params.MinDuration = 10
		params.MaxDuration = 5
		_, err := f.svc.CreateOffer(ctx, landlordAddr, params)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("Rejects duplicate key", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateOffer(ctx, landlordAddr, f.defaultParams())
		require.NoError(t, err)
		_, err = f.svc.CreateOffer(ctx, landlordAddr, f.defaultParams())
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("Requires custody delegation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateOffer(ctx, strangerAddr, f.defaultParams())
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("Rejects locked item", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.assets.Lock(nftAddr, strangerAddr, 1))
		_, err := f.svc.CreateOffer(ctx, landlordAddr, f.defaultParams())
		assert.ErrorIs(t, err, domain.ErrLocked)
	})

	t.Run("Collection without lock support offers fine", func(t *testing.T) {
		f := newFixture(t)
		plain := domain.Address("0x00000000000000000000000000000000000000dd")
		f.assets.RegisterAsset(plain, "PlainAsset", false)
		require.NoError(t, f.assets.Mint(plain, landlordAddr, 7))
		require.NoError(t, f.assets.SetApprovalForAll(ctx, plain, landlordAddr, engineAddr, true))

		params := f.defaultParams()
		params.Asset = plain
		params.ItemID = 7
		_, err := f.svc.CreateOffer(ctx, landlordAddr, params)
		assert.NoError(t, err)
	})
}

func TestCreateOffersBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Length mismatch", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateOffersBatch(ctx, landlordAddr, nftAddr, payTokenAddr, domain.ZeroAddress,
			[]uint64{1, 2}, []uint64{30}, []int64{100, 200})
		assert.ErrorIs(t, err, domain.ErrLengthMismatch)
	})

	t.Run("Defaults to flat pricing", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.assets.Mint(nftAddr, landlordAddr, 2))
		n, err := f.svc.CreateOffersBatch(ctx, landlordAddr, nftAddr, payTokenAddr, domain.ZeroAddress,
			[]uint64{1, 2}, []uint64{30, 60}, []int64{100, 200})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		offer, err := f.svc.GetOffer(ctx, domain.OfferKey{Asset: nftAddr, ItemID: 2, Landlord: landlordAddr})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), offer.MinDuration)
		assert.Equal(t, uint64(60), offer.MaxDuration)
		assert.Equal(t, uint64(60), offer.StartDiscountAt)
		assert.Equal(t, offer.UnitPrice, offer.DiscountUnitPrice)
	})

	t.Run("Partial commit on mid-batch failure", func(t *testing.T) {
		f := newFixture(t)
		n, err := f.svc.CreateOffersBatch(ctx, landlordAddr, nftAddr, payTokenAddr, domain.ZeroAddress,
			[]uint64{1, 2}, []uint64{30, 60}, []int64{100, 0})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Equal(t, 1, n)

		// The first item stays committed.
		_, err = f.svc.GetOffer(ctx, domain.OfferKey{Asset: nftAddr, ItemID: 1, Landlord: landlordAddr})
		assert.NoError(t, err)
	})
}

func TestSetDiscountData(t *testing.T) {
	ctx := context.Background()

	t.Run("Length mismatch", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.SetDiscountData(ctx, landlordAddr, nftAddr, []uint64{1}, []uint64{200, 300}, []int64{50})
		assert.ErrorIs(t, err, domain.ErrLengthMismatch)
	})

	t.Run("Only the landlord's key matches", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateOffer(ctx, landlordAddr, f.defaultParams())
		require.NoError(t, err)

		err = f.svc.SetDiscountData(ctx, strangerAddr, nftAddr, []uint64{1}, []uint64{200}, []int64{50})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Updates tier with markup applied", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateOffer(ctx, landlordAddr, f.defaultParams())
		require.NoError(t, err)

		require.NoError(t, f.svc.SetDiscountData(ctx, landlordAddr, nftAddr, []uint64{1}, []uint64{200}, []int64{50}))

		offer, err := f.svc.GetOffer(ctx, domain.OfferKey{Asset: nftAddr, ItemID: 1, Landlord: landlordAddr})
		require.NoError(t, err)
		assert.Equal(t, uint64(200), offer.StartDiscountAt)
		assert.Equal(t, int64(55), offer.DiscountUnitPrice)
		assert.Equal(t, int64(110), offer.UnitPrice) // untouched
	})
}
