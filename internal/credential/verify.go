package credential

import (
	"crypto/ed25519"
	"time"

	"leasemarket-backend/internal/domain"
)

// Verify* functions are pure: they check deadline, signer binding and
// signature against one domain, plus the expected nonce value. Advancing the
// signer's nonce registry is the caller's responsibility and must happen
// exactly once after a successful verification.

func VerifyPermitAll(d Domain, cred Credential, claims PermitAllClaims, now time.Time, currentNonce uint64) error {
	return verify(d, cred, claims.Signer, claims.digest(d), claims.Deadline, claims.Nonce, now, currentNonce)
}

func VerifyPermit(d Domain, cred Credential, claims PermitClaims, now time.Time, currentNonce uint64) error {
	return verify(d, cred, claims.Signer, claims.digest(d), claims.Deadline, claims.Nonce, now, currentNonce)
}

// VerifyRent checks a lease intent signed by the landlord. The landlord is
// not part of the payload; it is derived from the credential's key, so the
// caller passes the address it expects the lease to settle against.
func VerifyRent(d Domain, cred Credential, claims RentClaims, landlord domain.Address, now time.Time, currentNonce uint64) error {
	return verify(d, cred, landlord, claims.digest(d), claims.Deadline, claims.Nonce, now, currentNonce)
}

func verify(d Domain, cred Credential, signer domain.Address, digest []byte, deadline time.Time, nonce uint64, now time.Time, currentNonce uint64) error {
	if now.After(deadline) {
		return domain.ErrExpired
	}
	if len(cred.PublicKey) != ed25519.PublicKeySize {
		return domain.ErrInvalidSignature
	}
	if AddressOf(cred.PublicKey) != signer.Normalize() {
		return domain.ErrInvalidSignature
	}
	if !ed25519.Verify(cred.PublicKey, digest, cred.Signature) {
		return domain.ErrInvalidSignature
	}
	if nonce != currentNonce {
		return domain.ErrNonceReplay
	}
	return nil
}

// Signing helpers; the server never signs, but tests and client tooling do.

func SignPermitAll(d Domain, priv ed25519.PrivateKey, claims PermitAllClaims) Credential {
	return sign(d, priv, claims.digest(d))
}

func SignPermit(d Domain, priv ed25519.PrivateKey, claims PermitClaims) Credential {
	return sign(d, priv, claims.digest(d))
}

func SignRent(d Domain, priv ed25519.PrivateKey, claims RentClaims) Credential {
	return sign(d, priv, claims.digest(d))
}

func sign(d Domain, priv ed25519.PrivateKey, digest []byte) Credential {
	return Credential{
		PublicKey: priv.Public().(ed25519.PublicKey),
		Signature: ed25519.Sign(priv, digest),
	}
}
