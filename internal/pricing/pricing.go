// Package pricing implements the market fee policy: tiered lease quotes,
// the fee markup baked into stored offer prices, and the landlord/platform
// split applied at payment time. All arithmetic is integer-truncating.
package pricing

// Markup returns a raw unit price with the platform fee added on top.
// Offers store the marked-up price, so the fee is part of the quoted price
// rather than an extra charge at rent time.
func Markup(raw, feeRate, feeDenominator int64) int64 {
	return raw + raw*feeRate/feeDenominator
}

// Quote prices a lease of durationDays against a two-tier offer: days up to
// discountStartDay bill at unitPrice, days beyond it at discountUnitPrice.
func Quote(durationDays, discountStartDay uint64, unitPrice, discountUnitPrice int64) int64 {
	base := durationDays
	if base > discountStartDay {
		base = discountStartDay
	}
	total := unitPrice * int64(base)
	if durationDays > discountStartDay {
		total += discountUnitPrice * int64(durationDays-discountStartDay)
	}
	return total
}

// Split divides a gross amount into landlord proceeds and platform fee.
// feeExempt short-circuits the fee entirely (gating token + fee pause).
func Split(total, feeRate, feeDenominator int64, feeExempt bool) (net, fee int64) {
	if feeExempt {
		return total, 0
	}
	fee = total * feeRate / feeDenominator
	return total - fee, fee
}
