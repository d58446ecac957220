package registry

import (
	"context"
	"sync"

	"leasemarket-backend/internal/domain"
)

// MemoryPaymentLedger is an in-process fungible ledger with per-token
// balances and allowances.
type MemoryPaymentLedger struct {
	mu         sync.RWMutex
	balances   map[domain.Address]map[domain.Address]int64
	allowances map[domain.Address]map[domain.Address]map[domain.Address]int64
}

func NewMemoryPaymentLedger() *MemoryPaymentLedger {
	return &MemoryPaymentLedger{
		balances:   map[domain.Address]map[domain.Address]int64{},
		allowances: map[domain.Address]map[domain.Address]map[domain.Address]int64{},
	}
}

// Mint credits an account out of thin air; test and dev setup only.
func (l *MemoryPaymentLedger) Mint(token, account domain.Address, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(token.Normalize(), account.Normalize(), amount)
}

func (l *MemoryPaymentLedger) BalanceOf(_ context.Context, token, account domain.Address) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[token.Normalize()][account.Normalize()], nil
}

func (l *MemoryPaymentLedger) Allowance(_ context.Context, token, owner, spender domain.Address) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[token.Normalize()][owner.Normalize()][spender.Normalize()], nil
}

func (l *MemoryPaymentLedger) Approve(_ context.Context, token, owner, spender domain.Address, amount int64) error {
	if amount < 0 {
		return domain.ErrInvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	token, owner, spender = token.Normalize(), owner.Normalize(), spender.Normalize()
	if l.allowances[token] == nil {
		l.allowances[token] = map[domain.Address]map[domain.Address]int64{}
	}
	if l.allowances[token][owner] == nil {
		l.allowances[token][owner] = map[domain.Address]int64{}
	}
	l.allowances[token][owner][spender] = amount
	return nil
}

func (l *MemoryPaymentLedger) TransferFrom(_ context.Context, token, spender, payer, payee domain.Address, amount int64) error {
	if amount < 0 {
		return domain.ErrInvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	token, spender, payer, payee = token.Normalize(), spender.Normalize(), payer.Normalize(), payee.Normalize()
	if payer != spender {
		if l.allowances[token][payer][spender] < amount {
			return domain.ErrNotApproved
		}
	}
	if l.balances[token][payer] < amount {
		return domain.ErrInsufficientFunds
	}
	if payer != spender {
		l.allowances[token][payer][spender] -= amount
	}
	l.balances[token][payer] -= amount
	l.credit(token, payee, amount)
	return nil
}

func (l *MemoryPaymentLedger) credit(token, account domain.Address, amount int64) {
	if l.balances[token] == nil {
		l.balances[token] = map[domain.Address]int64{}
	}
	l.balances[token][account] += amount
}
