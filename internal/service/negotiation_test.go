package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasemarket-backend/internal/domain"
)

func TestRefundNegotiation(t *testing.T) {
	ctx := context.Background()

	t.Run("Renter proposes, landlord accepts", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100) // landlord nets 9000
		require.NoError(t, f.svc.RequestRefund(ctx, renterAddr, nftAddr, landlordAddr, 1, 2000, domain.PartyRenter))

		f.approvePayment(t, landlordAddr, 2000)
		require.NoError(t, f.svc.AcceptRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 2000))

		assert.Equal(t, int64(9000-2000), f.balance(t, landlordAddr))
		assert.Equal(t, landlordAddr, f.holder(t, 1))

		// The offer survives, back in its unleased state.
		offer, err := f.svc.GetOffer(ctx, domain.OfferKey{Asset: nftAddr, ItemID: 1, Landlord: landlordAddr})
		require.NoError(t, err)
		assert.False(t, offer.Leased())
		assert.True(t, offer.CurrentRenter.IsZero())

		// And the request is gone.
		err = f.svc.AcceptRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 2000)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Landlord proposes, renter accepts", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100)

		// A landlord proposal is rejected until the payout allowance is
		// in place.
		err := f.svc.RequestRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 2000, domain.PartyLandlord)
		assert.ErrorIs(t, err, domain.ErrNotApproved)

		f.approvePayment(t, landlordAddr, 2000)
		require.NoError(t, f.svc.RequestRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 2000, domain.PartyLandlord))

		renterBefore := f.balance(t, renterAddr)
		require.NoError(t, f.svc.AcceptRefund(ctx, renterAddr, nftAddr, landlordAddr, 1, 2000))
		assert.Equal(t, renterBefore+2000, f.balance(t, renterAddr))
		assert.Equal(t, landlordAddr, f.holder(t, 1))
	})

	t.Run("Locked item blocks settlement", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100) // landlord nets 9000
		require.NoError(t, f.svc.RequestRefund(ctx, renterAddr, nftAddr, landlordAddr, 1, 2000, domain.PartyRenter))
		f.approvePayment(t, landlordAddr, 2000)
		require.NoError(t, f.assets.Lock(nftAddr, strangerAddr, 1))

		err := f.svc.AcceptRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 2000)
		assert.ErrorIs(t, err, domain.ErrLocked)
		assert.Equal(t, int64(9000), f.balance(t, landlordAddr))
		assert.Equal(t, renterAddr, f.holder(t, 1))

		// The request stays open; once the lock clears the same accept
		// settles.
		require.NoError(t, f.assets.Unlock(nftAddr, 1))
		require.NoError(t, f.svc.AcceptRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 2000))
		assert.Equal(t, int64(7000), f.balance(t, landlordAddr))
		assert.Equal(t, landlordAddr, f.holder(t, 1))
	})

	t.Run("Role mismatch on proposal", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100)
		err := f.svc.RequestRefund(ctx, strangerAddr, nftAddr, landlordAddr, 1, 2000, domain.PartyRenter)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("Accepting own proposal settles nothing", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100)
		f.approvePayment(t, landlordAddr, 2000)
		require.NoError(t, f.svc.RequestRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 2000, domain.PartyLandlord))

		err := f.svc.AcceptRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 2000)
		assert.ErrorIs(t, err, domain.ErrNotAgreed)
	})

	t.Run("Amount must match", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100)
		require.NoError(t, f.svc.RequestRefund(ctx, renterAddr, nftAddr, landlordAddr, 1, 2000, domain.PartyRenter))

		err := f.svc.AcceptRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 1999)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("New proposal resets prior consent", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100)
		require.NoError(t, f.svc.RequestRefund(ctx, renterAddr, nftAddr, landlordAddr, 1, 2000, domain.PartyRenter))

		// The landlord counters instead of accepting; now only the
		// landlord has consented, so the landlord cannot settle.
		f.approvePayment(t, landlordAddr, 1500)
		require.NoError(t, f.svc.RequestRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 1500, domain.PartyLandlord))

		err := f.svc.AcceptRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 1500)
		assert.ErrorIs(t, err, domain.ErrNotAgreed)

		renterBefore := f.balance(t, renterAddr)
		require.NoError(t, f.svc.AcceptRefund(ctx, renterAddr, nftAddr, landlordAddr, 1, 1500))
		assert.Equal(t, renterBefore+1500, f.balance(t, renterAddr))
	})

	t.Run("Landlord may propose on an unleased offer", func(t *testing.T) {
		f := newFixture(t)
		f.seedOffer(t, 100, 90)
		assert.NoError(t, f.svc.RequestRefund(ctx, landlordAddr, nftAddr, landlordAddr, 1, 0, domain.PartyLandlord))
	})
}

func TestExtendNegotiation(t *testing.T) {
	ctx := context.Background()

	t.Run("Request and accept push the lease out", func(t *testing.T) {
		f := newFixture(t)
		offer := f.lease(t, 100)
		before := offer.EndTime

		require.NoError(t, f.svc.RequestExtend(ctx, renterAddr, nftAddr, landlordAddr, 1, 1000, 100))

		landlordBefore := f.balance(t, landlordAddr)
		renterBefore := f.balance(t, renterAddr)
		require.NoError(t, f.svc.AcceptExtend(ctx, landlordAddr, nftAddr, landlordAddr, 1, 1000))

		got, err := f.svc.GetOffer(ctx, domain.OfferKey{Asset: nftAddr, ItemID: 1, Landlord: landlordAddr})
		require.NoError(t, err)
		assert.Equal(t, before.Add(100*24*time.Hour), got.EndTime)
		assert.Equal(t, landlordBefore+1000, f.balance(t, landlordAddr))
		assert.Equal(t, renterBefore-1000, f.balance(t, renterAddr))
		// Custody stays with the renter.
		assert.Equal(t, renterAddr, f.holder(t, 1))

		// Request is consumed.
		err = f.svc.AcceptExtend(ctx, landlordAddr, nftAddr, landlordAddr, 1, 1000)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Only the renter proposes", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100)
		err := f.svc.RequestExtend(ctx, landlordAddr, nftAddr, landlordAddr, 1, 1000, 100)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("Only the landlord accepts", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100)
		require.NoError(t, f.svc.RequestExtend(ctx, renterAddr, nftAddr, landlordAddr, 1, 1000, 100))
		err := f.svc.AcceptExtend(ctx, renterAddr, nftAddr, landlordAddr, 1, 1000)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("Amount must match", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100)
		require.NoError(t, f.svc.RequestExtend(ctx, renterAddr, nftAddr, landlordAddr, 1, 1000, 100))
		err := f.svc.AcceptExtend(ctx, landlordAddr, nftAddr, landlordAddr, 1, 999)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("Accept without a request", func(t *testing.T) {
		f := newFixture(t)
		f.lease(t, 100)
		err := f.svc.AcceptExtend(ctx, landlordAddr, nftAddr, landlordAddr, 1, 1000)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
