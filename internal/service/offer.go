package service

import (
	"context"
	"errors"
	"fmt"

	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/pricing"
)

func (s *marketService) CreateOffer(ctx context.Context, landlord domain.Address, params OfferParams) (*domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createOfferLocked(ctx, landlord, params)
}

func (s *marketService) createOfferLocked(ctx context.Context, landlord domain.Address, params OfferParams) (*domain.Offer, error) {
	if params.PayToken.IsZero() || landlord.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if params.MinDuration == 0 || params.MinDuration > params.MaxDuration {
		return nil, domain.ErrInvalidArgument
	}
	if params.Price <= 0 || params.DiscountPrice <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	key := domain.OfferKey{Asset: params.Asset.Normalize(), ItemID: params.ItemID, Landlord: landlord.Normalize()}
	if _, err := s.offers.Get(ctx, key); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking offer key: %w", err)
	}

	approved, err := s.assets.IsApprovedForAll(ctx, key.Asset, key.Landlord, s.engine)
	if err != nil {
		return nil, fmt.Errorf("checking custody delegation: %w", err)
	}
	if !approved {
		return nil, domain.ErrNotAuthorized
	}

	// Collections without a locking concept offer fine; only a reported
	// third-party lock blocks.
	status, err := s.assets.LockStatus(ctx, key.Asset, key.ItemID)
	if err != nil {
		return nil, fmt.Errorf("probing lock status: %w", err)
	}
	if status.Supported && status.Locked {
		return nil, domain.ErrLocked
	}

	rate, denom := s.settings.Fees()
	offer := &domain.Offer{
		Asset:             key.Asset,
		ItemID:            key.ItemID,
		Landlord:          key.Landlord,
		PayToken:          params.PayToken.Normalize(),
		PassToken:         params.PassToken.Normalize(),
		MinDuration:       params.MinDuration,
		MaxDuration:       params.MaxDuration,
		StartDiscountAt:   params.StartDiscountAt,
		UnitPrice:         pricing.Markup(params.Price, rate, denom),
		DiscountUnitPrice: pricing.Markup(params.DiscountPrice, rate, denom),
		CreatedOn:         s.now(),
		UpdatedOn:         s.now(),
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *marketService) CreateOffersBatch(ctx context.Context, landlord, asset, payToken, passToken domain.Address, itemIDs, maxDurations []uint64, prices []int64) (int, error) {
	if len(itemIDs) != len(maxDurations) || len(itemIDs) != len(prices) {
		return 0, domain.ErrLengthMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, itemID := range itemIDs {
		params := OfferParams{
			Asset:           asset,
			PayToken:        payToken,
			PassToken:       passToken,
			ItemID:          itemID,
			MinDuration:     1,
			MaxDuration:     maxDurations[i],
			StartDiscountAt: maxDurations[i],
			Price:           prices[i],
			DiscountPrice:   prices[i],
		}
		if _, err := s.createOfferLocked(ctx, landlord, params); err != nil {
			// Earlier items stay committed.
			return i, fmt.Errorf("item %d: %w", itemID, err)
		}
	}
	return len(itemIDs), nil
}

func (s *marketService) SetDiscountData(ctx context.Context, landlord, asset domain.Address, itemIDs, startDiscountAts []uint64, discountPrices []int64) error {
	if len(itemIDs) != len(startDiscountAts) || len(itemIDs) != len(discountPrices) {
		return domain.ErrLengthMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rate, denom := s.settings.Fees()
	for i, itemID := range itemIDs {
		key := domain.OfferKey{Asset: asset.Normalize(), ItemID: itemID, Landlord: landlord.Normalize()}
		// The key embeds the landlord, so a caller who is not the
		// landlord of this item simply finds no offer.
		offer, err := s.offers.Get(ctx, key)
		if err != nil {
			return err
		}
		if discountPrices[i] <= 0 {
			return domain.ErrInvalidArgument
		}
		offer.StartDiscountAt = startDiscountAts[i]
		offer.DiscountUnitPrice = pricing.Markup(discountPrices[i], rate, denom)
		offer.UpdatedOn = s.now()
		if err := s.offers.Update(ctx, offer); err != nil {
			return err
		}
	}
	return nil
}

func (s *marketService) GetOffer(ctx context.Context, key domain.OfferKey) (*domain.Offer, error) {
	key.Asset = key.Asset.Normalize()
	key.Landlord = key.Landlord.Normalize()
	return s.offers.Get(ctx, key)
}
