package http

import (
	"net/http"

	"leasemarket-backend/internal/credential"
	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/service"
)

// PermitHandler exposes the signed-credential entry points
type PermitHandler struct {
	market service.MarketService
}

func NewPermitHandler(market service.MarketService) *PermitHandler {
	return &PermitHandler{market: market}
}

type permitAllBody struct {
	Asset      domain.Address             `json:"asset"`
	Claims     credential.PermitAllClaims `json:"claims"`
	Credential credential.Credential      `json:"credential"`
}

func (h *PermitHandler) HandlePermitAll(w http.ResponseWriter, r *http.Request) {
	var req permitAllBody
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.market.PermitAll(r.Context(), req.Asset, req.Claims, req.Credential); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type permitBody struct {
	Asset      domain.Address          `json:"asset"`
	Claims     credential.PermitClaims `json:"claims"`
	Credential credential.Credential   `json:"credential"`
}

func (h *PermitHandler) HandlePermit(w http.ResponseWriter, r *http.Request) {
	var req permitBody
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.market.Permit(r.Context(), req.Asset, req.Claims, req.Credential); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type signedRentBody struct {
	Landlord   domain.Address        `json:"landlord"`
	Claims     credential.RentClaims `json:"claims"`
	Credential credential.Credential `json:"credential"`
	// Permit, when present, is a PermitAll credential granted in the same
	// call; without it the landlord's delegation must already exist.
	Permit *struct {
		Claims     credential.PermitAllClaims `json:"claims"`
		Credential credential.Credential      `json:"credential"`
	} `json:"permit,omitempty"`
}

func (h *PermitHandler) HandleSignedRent(w http.ResponseWriter, r *http.Request) {
	var req signedRentBody
	if !decodeBody(w, r, &req) {
		return
	}
	renter := CallerClaims(r.Context()).Address

	var offer *domain.Offer
	var err error
	if req.Permit != nil {
		offer, err = h.market.RentWithPermit(r.Context(), renter, req.Landlord,
			req.Claims, req.Credential, req.Permit.Claims, req.Permit.Credential)
	} else {
		offer, err = h.market.RentWithoutPermit(r.Context(), renter, req.Landlord,
			req.Claims, req.Credential)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}
