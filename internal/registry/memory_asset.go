package registry

import (
	"context"
	"sync"
	"time"

	"leasemarket-backend/internal/credential"
	"leasemarket-backend/internal/domain"
)

// MemoryAssetRegistry is an in-process asset registry. Collections are
// registered up front with a credential domain of their own and an optional
// locking capability; each collection tracks holders, blanket approvals,
// third-party locks and a per-signer permit nonce.
type MemoryAssetRegistry struct {
	mu      sync.RWMutex
	chainID uint64
	assets  map[domain.Address]*assetState
	now     func() time.Time
}

type assetState struct {
	name          string
	lockSupport   bool
	holders       map[uint64]domain.Address
	approvals     map[domain.Address]map[domain.Address]bool
	itemApprovals map[uint64]map[domain.Address]bool // itemID -> spender
	locks         map[uint64]domain.Address          // itemID -> unlocker
	nonces        map[domain.Address]uint64
}

func NewMemoryAssetRegistry(chainID uint64) *MemoryAssetRegistry {
	return &MemoryAssetRegistry{
		chainID: chainID,
		assets:  map[domain.Address]*assetState{},
		now:     time.Now,
	}
}

// SetClock overrides the registry's clock; tests use it to control
// credential expiry.
func (r *MemoryAssetRegistry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// RegisterAsset adds a collection. The name becomes part of the collection's
// credential domain, locking support is fixed at registration.
func (r *MemoryAssetRegistry) RegisterAsset(asset domain.Address, name string, lockSupport bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[asset.Normalize()] = &assetState{
		name:          name,
		lockSupport:   lockSupport,
		holders:       map[uint64]domain.Address{},
		approvals:     map[domain.Address]map[domain.Address]bool{},
		itemApprovals: map[uint64]map[domain.Address]bool{},
		locks:         map[uint64]domain.Address{},
		nonces:        map[domain.Address]uint64{},
	}
}

// Mint assigns an item to an owner.
func (r *MemoryAssetRegistry) Mint(asset, owner domain.Address, itemID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, err := r.state(asset)
	if err != nil {
		return err
	}
	st.holders[itemID] = owner.Normalize()
	return nil
}

// Lock places a third-party custody lock on an item, held by unlocker.
func (r *MemoryAssetRegistry) Lock(asset, unlocker domain.Address, itemID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, err := r.state(asset)
	if err != nil {
		return err
	}
	if !st.lockSupport {
		return domain.ErrUnsupported
	}
	st.locks[itemID] = unlocker.Normalize()
	return nil
}

// Unlock removes a third-party lock.
func (r *MemoryAssetRegistry) Unlock(asset domain.Address, itemID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, err := r.state(asset)
	if err != nil {
		return err
	}
	delete(st.locks, itemID)
	return nil
}

// Domain returns the credential domain a collection verifies permits under.
func (r *MemoryAssetRegistry) Domain(asset domain.Address) (credential.Domain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, err := r.state(asset)
	if err != nil {
		return credential.Domain{}, err
	}
	return r.domainLocked(asset, st), nil
}

func (r *MemoryAssetRegistry) domainLocked(asset domain.Address, st *assetState) credential.Domain {
	return credential.Domain{Name: st.name, Version: "1", ChainID: r.chainID, Contract: asset.Normalize()}
}

// PermitNonce returns the collection's current permit nonce for a signer.
func (r *MemoryAssetRegistry) PermitNonce(asset, signer domain.Address) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, err := r.state(asset)
	if err != nil {
		return 0, err
	}
	return st.nonces[signer.Normalize()], nil
}

func (r *MemoryAssetRegistry) HolderOf(_ context.Context, asset domain.Address, itemID uint64) (domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, err := r.state(asset)
	if err != nil {
		return domain.ZeroAddress, err
	}
	holder, ok := st.holders[itemID]
	if !ok {
		return domain.ZeroAddress, domain.ErrNotFound
	}
	return holder, nil
}

func (r *MemoryAssetRegistry) BalanceOf(_ context.Context, asset, owner domain.Address) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, err := r.state(asset)
	if err != nil {
		return 0, err
	}
	var n int64
	owner = owner.Normalize()
	for _, h := range st.holders {
		if h == owner {
			n++
		}
	}
	return n, nil
}

func (r *MemoryAssetRegistry) Transfer(_ context.Context, asset, from, to domain.Address, itemID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, err := r.state(asset)
	if err != nil {
		return err
	}
	holder, ok := st.holders[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	if holder != from.Normalize() {
		return domain.ErrNotAuthorized
	}
	if _, locked := st.locks[itemID]; locked {
		return domain.ErrLocked
	}
	st.holders[itemID] = to.Normalize()
	// A single-item grant does not survive the item changing hands.
	delete(st.itemApprovals, itemID)
	return nil
}

func (r *MemoryAssetRegistry) IsApprovedForAll(_ context.Context, asset, owner, operator domain.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, err := r.state(asset)
	if err != nil {
		return false, err
	}
	return st.approvals[owner.Normalize()][operator.Normalize()], nil
}

func (r *MemoryAssetRegistry) IsApprovedFor(_ context.Context, asset, owner, operator domain.Address, itemID uint64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, err := r.state(asset)
	if err != nil {
		return false, err
	}
	owner, operator = owner.Normalize(), operator.Normalize()
	if st.approvals[owner][operator] {
		return true, nil
	}
	// A single-item grant only counts while the signer still holds the item.
	return st.holders[itemID] == owner && st.itemApprovals[itemID][operator], nil
}

func (r *MemoryAssetRegistry) SetApprovalForAll(_ context.Context, asset, owner, operator domain.Address, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, err := r.state(asset)
	if err != nil {
		return err
	}
	st.setApproval(owner, operator, approved)
	return nil
}

func (r *MemoryAssetRegistry) Permit(_ context.Context, asset domain.Address, claims credential.PermitClaims, cred credential.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, err := r.state(asset)
	if err != nil {
		return err
	}
	signer := claims.Signer.Normalize()
	if err := credential.VerifyPermit(r.domainLocked(asset.Normalize(), st), cred, claims, r.now(), st.nonces[signer]); err != nil {
		return err
	}
	st.nonces[signer]++
	// The grant covers exactly the signed item, never the signer's other
	// holdings.
	if st.itemApprovals[claims.ItemID] == nil {
		st.itemApprovals[claims.ItemID] = map[domain.Address]bool{}
	}
	st.itemApprovals[claims.ItemID][claims.Spender.Normalize()] = true
	return nil
}

func (r *MemoryAssetRegistry) PermitAll(_ context.Context, asset domain.Address, claims credential.PermitAllClaims, cred credential.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, err := r.state(asset)
	if err != nil {
		return err
	}
	signer := claims.Signer.Normalize()
	if err := credential.VerifyPermitAll(r.domainLocked(asset.Normalize(), st), cred, claims, r.now(), st.nonces[signer]); err != nil {
		return err
	}
	st.nonces[signer]++
	st.setApproval(claims.Signer, claims.Spender, true)
	return nil
}

func (r *MemoryAssetRegistry) LockStatus(_ context.Context, asset domain.Address, itemID uint64) (domain.LockStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, err := r.state(asset)
	if err != nil {
		return domain.LockStatus{}, err
	}
	if !st.lockSupport {
		return domain.LockStatus{Supported: false}, nil
	}
	_, locked := st.locks[itemID]
	return domain.LockStatus{Supported: true, Locked: locked}, nil
}

func (r *MemoryAssetRegistry) state(asset domain.Address) (*assetState, error) {
	st, ok := r.assets[asset.Normalize()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return st, nil
}

func (st *assetState) setApproval(owner, operator domain.Address, approved bool) {
	owner = owner.Normalize()
	if st.approvals[owner] == nil {
		st.approvals[owner] = map[domain.Address]bool{}
	}
	st.approvals[owner][operator.Normalize()] = approved
}
