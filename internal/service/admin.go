package service

import (
	"context"

	"leasemarket-backend/internal/domain"
)

type adminService struct {
	settings *Settings
}

func NewAdminService(settings *Settings) AdminService {
	return &adminService{settings: settings}
}

func (s *adminService) SetWallet(ctx context.Context, caller, wallet domain.Address) error {
	return s.settings.SetWallet(caller, wallet)
}

func (s *adminService) SetFee(ctx context.Context, caller domain.Address, rate int64) error {
	return s.settings.SetFee(caller, rate)
}

func (s *adminService) SetFeePause(ctx context.Context, caller domain.Address, paused bool) error {
	return s.settings.SetFeePause(caller, paused)
}

func (s *adminService) Settings(ctx context.Context) (domain.Address, int64, int64, bool) {
	rate, denom := s.settings.Fees()
	return s.settings.Wallet(), rate, denom, s.settings.FeePaused()
}
