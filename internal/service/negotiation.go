package service

import (
	"context"
	"fmt"
	"time"

	"leasemarket-backend/internal/domain"
)

func (s *marketService) RequestRefund(ctx context.Context, caller, asset, landlord domain.Address, itemID uint64, payoutAmount int64, proposer domain.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payoutAmount < 0 {
		return domain.ErrInvalidAmount
	}

	caller = caller.Normalize()
	key := domain.OfferKey{Asset: asset.Normalize(), ItemID: itemID, Landlord: landlord.Normalize()}
	offer, err := s.offers.Get(ctx, key)
	if err != nil {
		return err
	}

	switch proposer {
	case domain.PartyRenter:
		if !offer.Leased() || caller != offer.CurrentRenter {
			return domain.ErrNotAuthorized
		}
	case domain.PartyLandlord:
		if caller != offer.Landlord {
			return domain.ErrNotAuthorized
		}
		// The landlord pays to reclaim early, so the proposal is only
		// credible with the allowance already in place.
		allowance, err := s.payments.Allowance(ctx, offer.PayToken, offer.Landlord, s.engine)
		if err != nil {
			return fmt.Errorf("checking landlord allowance: %w", err)
		}
		if allowance < payoutAmount {
			return domain.ErrNotApproved
		}
	default:
		return domain.ErrInvalidArgument
	}

	return s.negotiations.UpsertRefund(ctx, &domain.RefundRequest{
		Asset:        key.Asset,
		ItemID:       key.ItemID,
		Landlord:     key.Landlord,
		PayoutAmount: payoutAmount,
		ProposedBy:   proposer,
	})
}

func (s *marketService) AcceptRefund(ctx context.Context, caller, asset, landlord domain.Address, itemID uint64, payoutAmount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller = caller.Normalize()
	key := domain.OfferKey{Asset: asset.Normalize(), ItemID: itemID, Landlord: landlord.Normalize()}
	offer, err := s.offers.Get(ctx, key)
	if err != nil {
		return err
	}
	req, err := s.negotiations.GetRefund(ctx, key)
	if err != nil {
		return err
	}

	var role domain.Party
	switch caller {
	case offer.Landlord:
		role = domain.PartyLandlord
	case offer.CurrentRenter:
		role = domain.PartyRenter
	default:
		return domain.ErrNotAuthorized
	}

	if payoutAmount != req.PayoutAmount {
		return domain.ErrInvalidAmount
	}
	// The counterparty must have consented by proposing; accepting one's
	// own open proposal settles nothing.
	if !req.AgreedBy(role.Opposite()) {
		return domain.ErrNotAgreed
	}

	if payoutAmount > 0 {
		if err := s.preflightPayment(ctx, offer.PayToken, offer.Landlord, payoutAmount); err != nil {
			return err
		}
	}
	// The custody return must be known to succeed before the refund is
	// paid out.
	if offer.Leased() {
		if err := s.preflightCustody(ctx, offer.Asset, offer.CurrentRenter, offer.ItemID); err != nil {
			return err
		}
	}

	if payoutAmount > 0 {
		if err := s.payments.TransferFrom(ctx, offer.PayToken, s.engine, offer.Landlord, offer.CurrentRenter, payoutAmount); err != nil {
			return fmt.Errorf("paying refund: %w", err)
		}
	}
	if offer.Leased() {
		if err := s.assets.Transfer(ctx, offer.Asset, offer.CurrentRenter, offer.Landlord, offer.ItemID); err != nil {
			return fmt.Errorf("returning custody: %w", err)
		}
	}

	offer.EndTime = time.Time{}
	offer.CurrentRenter = domain.ZeroAddress
	offer.UpdatedOn = s.now()
	if err := s.offers.Update(ctx, offer); err != nil {
		return err
	}
	return s.negotiations.DeleteRefund(ctx, key)
}

func (s *marketService) RequestExtend(ctx context.Context, caller, asset, landlord domain.Address, itemID uint64, payoutAmount int64, extendedDays uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payoutAmount < 0 || extendedDays == 0 {
		return domain.ErrInvalidArgument
	}

	caller = caller.Normalize()
	key := domain.OfferKey{Asset: asset.Normalize(), ItemID: itemID, Landlord: landlord.Normalize()}
	offer, err := s.offers.Get(ctx, key)
	if err != nil {
		return err
	}
	if !offer.Leased() || caller != offer.CurrentRenter {
		return domain.ErrNotAuthorized
	}

	return s.negotiations.UpsertExtend(ctx, &domain.ExtendRequest{
		Asset:            key.Asset,
		ItemID:           key.ItemID,
		Landlord:         key.Landlord,
		PayoutAmount:     payoutAmount,
		ExtendedDuration: extendedDays,
		RenterAgreed:     true,
	})
}

func (s *marketService) AcceptExtend(ctx context.Context, caller, asset, landlord domain.Address, itemID uint64, payoutAmount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller = caller.Normalize()
	key := domain.OfferKey{Asset: asset.Normalize(), ItemID: itemID, Landlord: landlord.Normalize()}
	offer, err := s.offers.Get(ctx, key)
	if err != nil {
		return err
	}
	if caller != offer.Landlord {
		return domain.ErrNotAuthorized
	}
	// A request never outlives the lease it extends.
	if !offer.Leased() {
		return domain.ErrNotFound
	}
	req, err := s.negotiations.GetExtend(ctx, key)
	if err != nil {
		return err
	}

	if payoutAmount != req.PayoutAmount {
		return domain.ErrInvalidAmount
	}
	if !req.RenterAgreed {
		return domain.ErrNotAgreed
	}

	if payoutAmount > 0 {
		if err := s.preflightPayment(ctx, offer.PayToken, offer.CurrentRenter, payoutAmount); err != nil {
			return err
		}
		if err := s.payments.TransferFrom(ctx, offer.PayToken, s.engine, offer.CurrentRenter, offer.Landlord, payoutAmount); err != nil {
			return fmt.Errorf("paying extension: %w", err)
		}
	}

	offer.EndTime = offer.EndTime.Add(time.Duration(req.ExtendedDuration) * s.dayLength)
	offer.UpdatedOn = s.now()
	if err := s.offers.Update(ctx, offer); err != nil {
		return err
	}
	return s.negotiations.DeleteExtend(ctx, key)
}
