package service

import (
	"sync"

	"leasemarket-backend/internal/domain"
)

// Settings holds the owner-mutable market parameters. The fee rate and
// denominator govern the markup baked into offer prices and the split taken
// at rent time; the wallet receives the platform fee.
type Settings struct {
	mu             sync.RWMutex
	owner          domain.Address
	wallet         domain.Address
	feeRate        int64
	feeDenominator int64
	feePaused      bool
}

func NewSettings(owner, wallet domain.Address, feeRate, feeDenominator int64) (*Settings, error) {
	if owner.IsZero() || wallet.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if feeDenominator <= 0 || feeRate < 0 || feeRate > feeDenominator {
		return nil, domain.ErrInvalidArgument
	}
	return &Settings{
		owner:          owner.Normalize(),
		wallet:         wallet.Normalize(),
		feeRate:        feeRate,
		feeDenominator: feeDenominator,
	}, nil
}

func (s *Settings) Owner() domain.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

func (s *Settings) Wallet() domain.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet
}

// Fees returns the rate and denominator as one snapshot so a single
// operation never sees a torn pair.
func (s *Settings) Fees() (rate, denominator int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeRate, s.feeDenominator
}

func (s *Settings) FeePaused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feePaused
}

func (s *Settings) SetWallet(caller, wallet domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller.Normalize() != s.owner {
		return domain.ErrNotAuthorized
	}
	if wallet.IsZero() {
		return domain.ErrInvalidArgument
	}
	s.wallet = wallet.Normalize()
	return nil
}

func (s *Settings) SetFee(caller domain.Address, rate int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller.Normalize() != s.owner {
		return domain.ErrNotAuthorized
	}
	if rate < 0 || rate > s.feeDenominator {
		return domain.ErrInvalidArgument
	}
	s.feeRate = rate
	return nil
}

func (s *Settings) SetFeePause(caller domain.Address, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller.Normalize() != s.owner {
		return domain.ErrNotAuthorized
	}
	s.feePaused = paused
	return nil
}
