// Package memory provides an in-process implementation of the repository
// interfaces, used by tests and the dev-mode server.
package memory

import (
	"context"
	"sync"
	"time"

	"leasemarket-backend/internal/domain"
)

type Store struct {
	mu      sync.RWMutex
	offers  map[domain.OfferKey]domain.Offer
	refunds map[domain.OfferKey]domain.RefundRequest
	extends map[domain.OfferKey]domain.ExtendRequest
	nonces  map[domain.Address]uint64
}

func NewStore() *Store {
	return &Store{
		offers:  map[domain.OfferKey]domain.Offer{},
		refunds: map[domain.OfferKey]domain.RefundRequest{},
		extends: map[domain.OfferKey]domain.ExtendRequest{},
		nonces:  map[domain.Address]uint64{},
	}
}

func (s *Store) Create(_ context.Context, offer *domain.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := offer.Key()
	if _, ok := s.offers[key]; ok {
		return domain.ErrAlreadyExists
	}
	s.offers[key] = *offer
	return nil
}

func (s *Store) Get(_ context.Context, key domain.OfferKey) (*domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	offer, ok := s.offers[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &offer, nil
}

func (s *Store) Update(_ context.Context, offer *domain.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := offer.Key()
	if _, ok := s.offers[key]; !ok {
		return domain.ErrNotFound
	}
	s.offers[key] = *offer
	return nil
}

func (s *Store) Delete(_ context.Context, key domain.OfferKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offers[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.offers, key)
	return nil
}

func (s *Store) ListExpired(_ context.Context, now time.Time) ([]domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Offer
	for _, offer := range s.offers {
		if offer.Leased() && !now.Before(offer.EndTime) {
			out = append(out, offer)
		}
	}
	return out, nil
}

func (s *Store) UpsertRefund(_ context.Context, req *domain.RefundRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refunds[req.Key()] = *req
	return nil
}

func (s *Store) GetRefund(_ context.Context, key domain.OfferKey) (*domain.RefundRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.refunds[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &req, nil
}

func (s *Store) DeleteRefund(_ context.Context, key domain.OfferKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refunds, key)
	return nil
}

func (s *Store) UpsertExtend(_ context.Context, req *domain.ExtendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extends[req.Key()] = *req
	return nil
}

func (s *Store) GetExtend(_ context.Context, key domain.OfferKey) (*domain.ExtendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.extends[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &req, nil
}

func (s *Store) DeleteExtend(_ context.Context, key domain.OfferKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.extends, key)
	return nil
}

func (s *Store) Current(_ context.Context, signer domain.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nonces[signer.Normalize()], nil
}

func (s *Store) Advance(_ context.Context, signer domain.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonces[signer.Normalize()]++
	return s.nonces[signer.Normalize()], nil
}
