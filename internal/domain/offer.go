package domain

import "time"

// OfferKey identifies the single live offer a landlord may hold for an item.
type OfferKey struct {
	Asset    Address
	ItemID   uint64
	Landlord Address
}

// Offer is a lease offer posted by a landlord, and doubles as the lease
// record once rented: a zero EndTime means "offered, not leased", a future
// EndTime means the item is out with CurrentRenter.
//
// UnitPrice and DiscountUnitPrice are stored with the platform fee already
// baked in, computed at offer time. Durations are in lease days.
type Offer struct {
	Asset     Address `json:"asset"`
	ItemID    uint64  `json:"item_id"`
	Landlord  Address `json:"landlord"`
	PayToken  Address `json:"pay_token"`
	PassToken Address `json:"pass_token,omitempty"` // optional fee-exemption gating token

	MinDuration       uint64 `json:"min_duration"`
	MaxDuration       uint64 `json:"max_duration"`
	StartDiscountAt   uint64 `json:"start_discount_at"`
	UnitPrice         int64  `json:"unit_price"`
	DiscountUnitPrice int64  `json:"discount_unit_price"`

	EndTime       time.Time `json:"end_time,omitzero"`
	CurrentRenter Address   `json:"current_renter,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

func (o *Offer) Key() OfferKey {
	return OfferKey{Asset: o.Asset, ItemID: o.ItemID, Landlord: o.Landlord}
}

// Leased reports whether a lease was ever activated and not yet reclaimed.
func (o *Offer) Leased() bool {
	return !o.EndTime.IsZero()
}

// Active reports whether the lease term is still running at now.
func (o *Offer) Active(now time.Time) bool {
	return o.Leased() && now.Before(o.EndTime)
}

// LockStatus is the result of probing an asset collection for its locking
// capability. Supported=false means the collection has no locking concept;
// Locked is only meaningful when Supported is true.
type LockStatus struct {
	Supported bool `json:"supported"`
	Locked    bool `json:"locked"`
}
