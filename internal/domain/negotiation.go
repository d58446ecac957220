package domain

// Party tags which side of a lease proposed a negotiation.
type Party string

const (
	PartyLandlord Party = "LANDLORD"
	PartyRenter   Party = "RENTER"
)

// Opposite returns the counterparty role.
func (p Party) Opposite() Party {
	if p == PartyLandlord {
		return PartyRenter
	}
	return PartyLandlord
}

// RefundRequest is an open early buy-back negotiation on a lease. The
// proposer's consent is implied by ProposedBy; the deal settles when the
// counterparty accepts with a matching amount. A new proposal overwrites any
// prior one, which also resets the counterparty's consent.
type RefundRequest struct {
	Asset        Address `json:"asset"`
	ItemID       uint64  `json:"item_id"`
	Landlord     Address `json:"landlord"`
	PayoutAmount int64   `json:"payout_amount"`
	ProposedBy   Party   `json:"proposed_by"`
}

func (r *RefundRequest) Key() OfferKey {
	return OfferKey{Asset: r.Asset, ItemID: r.ItemID, Landlord: r.Landlord}
}

// AgreedBy reports whether the given party has consented to the request.
// Only the proposer has consented while the request is open.
func (r *RefundRequest) AgreedBy(p Party) bool {
	return r.ProposedBy == p
}

// ExtendRequest is an open lease-extension negotiation. Only the renter
// proposes; the landlord settles it by accepting.
type ExtendRequest struct {
	Asset            Address `json:"asset"`
	ItemID           uint64  `json:"item_id"`
	Landlord         Address `json:"landlord"`
	PayoutAmount     int64   `json:"payout_amount"`
	ExtendedDuration uint64  `json:"extended_duration"` // days added to the lease
	RenterAgreed     bool    `json:"renter_agreed"`
}

func (r *ExtendRequest) Key() OfferKey {
	return OfferKey{Asset: r.Asset, ItemID: r.ItemID, Landlord: r.Landlord}
}
