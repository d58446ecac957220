package domain

import "errors"

// Named failure conditions surfaced by the market engine. Services return
// these verbatim; the API layer maps them to response codes.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrLengthMismatch    = errors.New("array lengths do not match")
	ErrAlreadyExists     = errors.New("offer already exists")
	ErrNotFound          = errors.New("offer does not exist")
	ErrNotApproved       = errors.New("transfer rights not approved")
	ErrLocked            = errors.New("item is locked by a third party")
	ErrInvalidToken      = errors.New("pay token does not match the offer")
	ErrInvalidDuration   = errors.New("duration is outside the offered bounds")
	ErrNotExpired        = errors.New("lease has not expired")
	ErrNotAuthorized     = errors.New("caller is not authorized")
	ErrInvalidAmount     = errors.New("payout amount does not match the request")
	ErrNotAgreed         = errors.New("counterparty has not agreed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnsupported       = errors.New("capability not supported by the asset")

	// Credential layer.
	ErrExpired          = errors.New("credential deadline has passed")
	ErrInvalidSignature = errors.New("signature does not match the claimed signer")
	ErrNonceReplay      = errors.New("credential nonce already consumed")
)
