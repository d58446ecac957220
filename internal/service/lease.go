package service

import (
	"context"
	"fmt"
	"time"

	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/logger"
	"leasemarket-backend/internal/pricing"
)

func (s *marketService) Rent(ctx context.Context, renter, asset, landlord, payToken domain.Address, itemID, durationDays uint64) (*domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	renter = renter.Normalize()
	now := s.now()

	key := domain.OfferKey{Asset: asset.Normalize(), ItemID: itemID, Landlord: landlord.Normalize()}
	offer, err := s.offers.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if offer.Active(now) {
		return nil, domain.ErrNotExpired
	}
	if payToken.Normalize() != offer.PayToken {
		return nil, domain.ErrInvalidToken
	}
	if durationDays < offer.MinDuration || durationDays > offer.MaxDuration {
		return nil, domain.ErrInvalidDuration
	}

	// With the fee paused, a gated offer is fee-exempt but only rentable
	// by holders of the gating token.
	feeExempt := false
	if s.settings.FeePaused() && !offer.PassToken.IsZero() {
		held, err := s.assets.BalanceOf(ctx, offer.PassToken, renter)
		if err != nil {
			return nil, fmt.Errorf("checking gating token balance: %w", err)
		}
		if held == 0 {
			return nil, domain.ErrNotAuthorized
		}
		feeExempt = true
	}

	// The renter delegates custody transfer so the item can be pulled
	// back at reclaim time.
	approved, err := s.assets.IsApprovedFor(ctx, offer.Asset, renter, s.engine, offer.ItemID)
	if err != nil {
		return nil, fmt.Errorf("checking renter delegation: %w", err)
	}
	if !approved {
		return nil, domain.ErrNotApproved
	}

	rate, denom := s.settings.Fees()
	total := pricing.Quote(durationDays, offer.StartDiscountAt, offer.UnitPrice, offer.DiscountUnitPrice)
	net, fee := pricing.Split(total, rate, denom, feeExempt)

	if err := s.preflightPayment(ctx, offer.PayToken, renter, total); err != nil {
		return nil, err
	}
	if err := s.preflightCustody(ctx, offer.Asset, offer.Landlord, offer.ItemID); err != nil {
		return nil, err
	}

	if err := s.payments.TransferFrom(ctx, offer.PayToken, s.engine, renter, offer.Landlord, net); err != nil {
		return nil, fmt.Errorf("paying landlord: %w", err)
	}
	if fee > 0 {
		if err := s.payments.TransferFrom(ctx, offer.PayToken, s.engine, renter, s.settings.Wallet(), fee); err != nil {
			return nil, fmt.Errorf("collecting fee: %w", err)
		}
	}
	if err := s.assets.Transfer(ctx, offer.Asset, offer.Landlord, renter, offer.ItemID); err != nil {
		return nil, fmt.Errorf("transferring custody: %w", err)
	}

	offer.EndTime = now.Add(time.Duration(durationDays) * s.dayLength)
	offer.CurrentRenter = renter
	offer.UpdatedOn = now
	if err := s.offers.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *marketService) BackToken(ctx context.Context, caller, asset, landlord domain.Address, itemID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller = caller.Normalize()
	key := domain.OfferKey{Asset: asset.Normalize(), ItemID: itemID, Landlord: landlord.Normalize()}
	if caller != key.Landlord && caller != s.operator {
		return domain.ErrNotAuthorized
	}

	offer, err := s.offers.Get(ctx, key)
	if err != nil {
		return err
	}
	return s.reclaimLocked(ctx, offer)
}

// reclaimLocked ends a lease whose term has run out, returning custody to
// the landlord and removing the offer record. A never-leased offer is simply
// removed. Callers hold s.mu.
func (s *marketService) reclaimLocked(ctx context.Context, offer *domain.Offer) error {
	if offer.Active(s.now()) {
		return domain.ErrNotExpired
	}
	if offer.Leased() {
		if err := s.assets.Transfer(ctx, offer.Asset, offer.CurrentRenter, offer.Landlord, offer.ItemID); err != nil {
			return fmt.Errorf("returning custody: %w", err)
		}
	}
	return s.offers.Delete(ctx, offer.Key())
}

func (s *marketService) ReclaimExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired, err := s.offers.ListExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("listing expired leases: %w", err)
	}

	log := logger.WithComponent("reclaim")
	reclaimed := 0
	for i := range expired {
		offer := &expired[i]
		if err := s.reclaimLocked(ctx, offer); err != nil {
			log.ErrorContext(ctx, "failed to reclaim lease",
				"asset", offer.Asset, "item_id", offer.ItemID, "landlord", offer.Landlord, "error", err)
			continue
		}
		reclaimed++
	}
	return reclaimed, nil
}

func (s *marketService) CheckLock(ctx context.Context, asset domain.Address, itemID uint64) (domain.LockStatus, error) {
	return s.assets.LockStatus(ctx, asset.Normalize(), itemID)
}

// preflightPayment verifies balance and allowance before any effect is
// applied, so a rejected payment leaves no partial transfer behind.
func (s *marketService) preflightPayment(ctx context.Context, token, payer domain.Address, amount int64) error {
	balance, err := s.payments.BalanceOf(ctx, token, payer)
	if err != nil {
		return fmt.Errorf("checking balance: %w", err)
	}
	if balance < amount {
		return domain.ErrInsufficientFunds
	}
	allowance, err := s.payments.Allowance(ctx, token, payer, s.engine)
	if err != nil {
		return fmt.Errorf("checking allowance: %w", err)
	}
	if allowance < amount {
		return domain.ErrNotApproved
	}
	return nil
}

// preflightCustody verifies the item can actually move before any payment
// effect is applied: the expected holder still has it and no third-party
// lock has landed since the offer was recorded.
func (s *marketService) preflightCustody(ctx context.Context, asset, from domain.Address, itemID uint64) error {
	holder, err := s.assets.HolderOf(ctx, asset, itemID)
	if err != nil {
		return fmt.Errorf("checking holder: %w", err)
	}
	if holder != from.Normalize() {
		return domain.ErrNotAuthorized
	}
	status, err := s.assets.LockStatus(ctx, asset, itemID)
	if err != nil {
		return fmt.Errorf("checking lock: %w", err)
	}
	if status.Supported && status.Locked {
		return domain.ErrLocked
	}
	return nil
}
