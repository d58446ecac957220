package http

import (
	"net/http"

	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/service"
)

// NegotiationHandler exposes the refund and extension consent flows
type NegotiationHandler struct {
	market service.MarketService
}

func NewNegotiationHandler(market service.MarketService) *NegotiationHandler {
	return &NegotiationHandler{market: market}
}

type refundRequestBody struct {
	Asset        domain.Address `json:"asset"`
	Landlord     domain.Address `json:"landlord"`
	ItemID       uint64         `json:"item_id"`
	PayoutAmount int64          `json:"payout_amount"`
	Proposer     domain.Party   `json:"proposer"`
}

func (h *NegotiationHandler) HandleRequestRefund(w http.ResponseWriter, r *http.Request) {
	var req refundRequestBody
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.market.RequestRefund(r.Context(), CallerClaims(r.Context()).Address,
		req.Asset, req.Landlord, req.ItemID, req.PayoutAmount, req.Proposer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type acceptBody struct {
	Asset        domain.Address `json:"asset"`
	Landlord     domain.Address `json:"landlord"`
	ItemID       uint64         `json:"item_id"`
	PayoutAmount int64          `json:"payout_amount"`
}

func (h *NegotiationHandler) HandleAcceptRefund(w http.ResponseWriter, r *http.Request) {
	var req acceptBody
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.market.AcceptRefund(r.Context(), CallerClaims(r.Context()).Address,
		req.Asset, req.Landlord, req.ItemID, req.PayoutAmount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

type extendRequestBody struct {
	Asset        domain.Address `json:"asset"`
	Landlord     domain.Address `json:"landlord"`
	ItemID       uint64         `json:"item_id"`
	PayoutAmount int64          `json:"payout_amount"`
	ExtendedDays uint64         `json:"extended_days"`
}

func (h *NegotiationHandler) HandleRequestExtend(w http.ResponseWriter, r *http.Request) {
	var req extendRequestBody
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.market.RequestExtend(r.Context(), CallerClaims(r.Context()).Address,
		req.Asset, req.Landlord, req.ItemID, req.PayoutAmount, req.ExtendedDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *NegotiationHandler) HandleAcceptExtend(w http.ResponseWriter, r *http.Request) {
	var req acceptBody
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.market.AcceptExtend(r.Context(), CallerClaims(r.Context()).Address,
		req.Asset, req.Landlord, req.ItemID, req.PayoutAmount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
