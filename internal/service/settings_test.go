package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasemarket-backend/internal/domain"
)

func TestSettings(t *testing.T) {
	t.Run("Rejects zero wallet", func(t *testing.T) {
		_, err := NewSettings(ownerAddr, domain.ZeroAddress, 10, 100)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("Rejects rate above denominator", func(t *testing.T) {
		_, err := NewSettings(ownerAddr, walletAddr, 101, 100)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("Owner-only mutation", func(t *testing.T) {
		s, err := NewSettings(ownerAddr, walletAddr, 10, 100)
		require.NoError(t, err)

		assert.ErrorIs(t, s.SetFee(strangerAddr, 5), domain.ErrNotAuthorized)
		assert.ErrorIs(t, s.SetWallet(strangerAddr, strangerAddr), domain.ErrNotAuthorized)
		assert.ErrorIs(t, s.SetFeePause(strangerAddr, true), domain.ErrNotAuthorized)

		require.NoError(t, s.SetFee(ownerAddr, 5))
		rate, denom := s.Fees()
		assert.Equal(t, int64(5), rate)
		assert.Equal(t, int64(100), denom)

		require.NoError(t, s.SetWallet(ownerAddr, strangerAddr))
		assert.Equal(t, strangerAddr, s.Wallet())

		require.NoError(t, s.SetFeePause(ownerAddr, true))
		assert.True(t, s.FeePaused())
	})

	t.Run("Fee bounds", func(t *testing.T) {
		s, err := NewSettings(ownerAddr, walletAddr, 10, 100)
		require.NoError(t, err)
		assert.ErrorIs(t, s.SetFee(ownerAddr, 101), domain.ErrInvalidArgument)
		assert.ErrorIs(t, s.SetWallet(ownerAddr, domain.ZeroAddress), domain.ErrInvalidArgument)
	})
}
