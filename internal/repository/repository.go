package repository

import (
	"context"
	"time"

	"leasemarket-backend/internal/domain"
)

type OfferRepository interface {
	// Create stores a new offer; domain.ErrAlreadyExists if the key is taken.
	Create(ctx context.Context, offer *domain.Offer) error
	Get(ctx context.Context, key domain.OfferKey) (*domain.Offer, error)
	Update(ctx context.Context, offer *domain.Offer) error
	Delete(ctx context.Context, key domain.OfferKey) error
	// ListExpired returns leased offers whose term ended at or before now.
	ListExpired(ctx context.Context, now time.Time) ([]domain.Offer, error)
}

type NegotiationRepository interface {
	UpsertRefund(ctx context.Context, req *domain.RefundRequest) error
	GetRefund(ctx context.Context, key domain.OfferKey) (*domain.RefundRequest, error)
	DeleteRefund(ctx context.Context, key domain.OfferKey) error

	UpsertExtend(ctx context.Context, req *domain.ExtendRequest) error
	GetExtend(ctx context.Context, key domain.OfferKey) (*domain.ExtendRequest, error)
	DeleteExtend(ctx context.Context, key domain.OfferKey) error
}

// NonceRepository is the replay-prevention counter for lease-intent
// credentials, one monotonic counter per signer.
type NonceRepository interface {
	Current(ctx context.Context, signer domain.Address) (uint64, error)
	// Advance increments the signer's counter and returns the new value.
	Advance(ctx context.Context, signer domain.Address) (uint64, error)
}
