package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leasemarket-backend/internal/credential"
	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/pricing"
)

// Permit and PermitAll forward signed approval credentials to the asset
// registry, which verifies them under its own domain and nonce registry.

func (s *marketService) Permit(ctx context.Context, asset domain.Address, claims credential.PermitClaims, cred credential.Credential) error {
	return s.assets.Permit(ctx, asset.Normalize(), claims, cred)
}

func (s *marketService) PermitAll(ctx context.Context, asset domain.Address, claims credential.PermitAllClaims, cred credential.Credential) error {
	return s.assets.PermitAll(ctx, asset.Normalize(), claims, cred)
}

func (s *marketService) RentWithPermit(ctx context.Context, renter, landlord domain.Address, rentClaims credential.RentClaims, rentCred credential.Credential, permitClaims credential.PermitAllClaims, permitCred credential.Credential) (*domain.Offer, error) {
	// Grant the landlord's custody delegation first so the signed lease
	// can settle in the same call.
	if err := s.assets.PermitAll(ctx, rentClaims.Asset.Normalize(), permitClaims, permitCred); err != nil {
		return nil, err
	}
	return s.RentWithoutPermit(ctx, renter, landlord, rentClaims, rentCred)
}

func (s *marketService) RentWithoutPermit(ctx context.Context, renter, landlord domain.Address, claims credential.RentClaims, cred credential.Credential) (*domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	renter = renter.Normalize()
	landlord = landlord.Normalize()
	now := s.now()

	current, err := s.nonces.Current(ctx, landlord)
	if err != nil {
		return nil, fmt.Errorf("reading signer nonce: %w", err)
	}
	if err := credential.VerifyRent(s.rentDomain, cred, claims, landlord, now, current); err != nil {
		return nil, err
	}
	if claims.PayToken.IsZero() || claims.DurationDays == 0 || claims.Price <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	key := domain.OfferKey{Asset: claims.Asset.Normalize(), ItemID: claims.ItemID, Landlord: landlord}
	existing, err := s.offers.Get(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Active(now) {
		return nil, domain.ErrNotExpired
	}

	for _, owner := range []domain.Address{landlord, renter} {
		approved, err := s.assets.IsApprovedFor(ctx, key.Asset, owner, s.engine, key.ItemID)
		if err != nil {
			return nil, fmt.Errorf("checking custody delegation: %w", err)
		}
		if !approved {
			return nil, domain.ErrNotApproved
		}
	}

	rate, denom := s.settings.Fees()
	// The signed price is the raw total for the whole lease term.
	total := pricing.Markup(claims.Price, rate, denom)
	net, fee := pricing.Split(total, rate, denom, false)

	if err := s.preflightPayment(ctx, claims.PayToken.Normalize(), renter, total); err != nil {
		return nil, err
	}
	if err := s.preflightCustody(ctx, key.Asset, landlord, key.ItemID); err != nil {
		return nil, err
	}

	// The nonce is consumed before any value moves: a failure past this
	// point must never leave the credential spendable against effects that
	// already committed.
	if _, err := s.nonces.Advance(ctx, landlord); err != nil {
		return nil, fmt.Errorf("advancing signer nonce: %w", err)
	}

	if err := s.payments.TransferFrom(ctx, claims.PayToken.Normalize(), s.engine, renter, landlord, net); err != nil {
		return nil, fmt.Errorf("paying landlord: %w", err)
	}
	if fee > 0 {
		if err := s.payments.TransferFrom(ctx, claims.PayToken.Normalize(), s.engine, renter, s.settings.Wallet(), fee); err != nil {
			return nil, fmt.Errorf("collecting fee: %w", err)
		}
	}
	if err := s.assets.Transfer(ctx, key.Asset, landlord, renter, key.ItemID); err != nil {
		return nil, fmt.Errorf("transferring custody: %w", err)
	}

	// Record the lease as an offer so reclaim and negotiation work the
	// same as for the stored-offer path. The price fields are the final
	// lease total; the duration bounds pin the term that was signed.
	offer := &domain.Offer{
		Asset:             key.Asset,
		ItemID:            key.ItemID,
		Landlord:          landlord,
		PayToken:          claims.PayToken.Normalize(),
		MinDuration:       claims.DurationDays,
		MaxDuration:       claims.DurationDays,
		StartDiscountAt:   claims.DurationDays,
		UnitPrice:         total,
		DiscountUnitPrice: total,
		EndTime:           now.Add(time.Duration(claims.DurationDays) * s.dayLength),
		CurrentRenter:     renter,
		CreatedOn:         now,
		UpdatedOn:         now,
	}
	if existing != nil {
		if err := s.offers.Update(ctx, offer); err != nil {
			return nil, err
		}
	} else if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}
