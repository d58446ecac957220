package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/service"
)

// MarketHandler exposes the offer and lease operations
type MarketHandler struct {
	market service.MarketService
}

func NewMarketHandler(market service.MarketService) *MarketHandler {
	return &MarketHandler{market: market}
}

type createOfferRequest struct {
	Asset           domain.Address `json:"asset"`
	PayToken        domain.Address `json:"pay_token"`
	PassToken       domain.Address `json:"pass_token"`
	ItemID          uint64         `json:"item_id"`
	MinDuration     uint64         `json:"min_duration"`
	MaxDuration     uint64         `json:"max_duration"`
	StartDiscountAt uint64         `json:"start_discount_at"`
	Price           int64          `json:"price"`
	DiscountPrice   int64          `json:"discount_price"`
}

func (h *MarketHandler) HandleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var req createOfferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	offer, err := h.market.CreateOffer(r.Context(), CallerClaims(r.Context()).Address, service.OfferParams{
		Asset:           req.Asset,
		PayToken:        req.PayToken,
		PassToken:       req.PassToken,
		ItemID:          req.ItemID,
		MinDuration:     req.MinDuration,
		MaxDuration:     req.MaxDuration,
		StartDiscountAt: req.StartDiscountAt,
		Price:           req.Price,
		DiscountPrice:   req.DiscountPrice,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

type createOffersBatchRequest struct {
	Asset        domain.Address `json:"asset"`
	PayToken     domain.Address `json:"pay_token"`
	PassToken    domain.Address `json:"pass_token"`
	ItemIDs      []uint64       `json:"item_ids"`
	MaxDurations []uint64       `json:"max_durations"`
	Prices       []int64        `json:"prices"`
}

type createOffersBatchResponse struct {
	Created int `json:"created"`
}

func (h *MarketHandler) HandleCreateOffersBatch(w http.ResponseWriter, r *http.Request) {
	var req createOffersBatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := h.market.CreateOffersBatch(r.Context(), CallerClaims(r.Context()).Address,
		req.Asset, req.PayToken, req.PassToken, req.ItemIDs, req.MaxDurations, req.Prices)
	if err != nil {
		// Earlier items stay committed; report how far the batch got.
		writeJSON(w, http.StatusMultiStatus, struct {
			Created int    `json:"created"`
			Error   string `json:"error"`
		}{Created: n, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, createOffersBatchResponse{Created: n})
}

type setDiscountDataRequest struct {
	Asset            domain.Address `json:"asset"`
	ItemIDs          []uint64       `json:"item_ids"`
	StartDiscountAts []uint64       `json:"start_discount_ats"`
	DiscountPrices   []int64        `json:"discount_prices"`
}

func (h *MarketHandler) HandleSetDiscountData(w http.ResponseWriter, r *http.Request) {
	var req setDiscountDataRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.market.SetDiscountData(r.Context(), CallerClaims(r.Context()).Address,
		req.Asset, req.ItemIDs, req.StartDiscountAts, req.DiscountPrices)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *MarketHandler) HandleGetOffer(w http.ResponseWriter, r *http.Request) {
	key, ok := offerKeyFromPath(w, r)
	if !ok {
		return
	}
	offer, err := h.market.GetOffer(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

type rentRequest struct {
	Asset        domain.Address `json:"asset"`
	Landlord     domain.Address `json:"landlord"`
	PayToken     domain.Address `json:"pay_token"`
	ItemID       uint64         `json:"item_id"`
	DurationDays uint64         `json:"duration_days"`
}

func (h *MarketHandler) HandleRent(w http.ResponseWriter, r *http.Request) {
	var req rentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	offer, err := h.market.Rent(r.Context(), CallerClaims(r.Context()).Address,
		req.Asset, req.Landlord, req.PayToken, req.ItemID, req.DurationDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

type backTokenRequest struct {
	Asset    domain.Address `json:"asset"`
	Landlord domain.Address `json:"landlord"`
	ItemID   uint64         `json:"item_id"`
}

func (h *MarketHandler) HandleBackToken(w http.ResponseWriter, r *http.Request) {
	var req backTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.market.BackToken(r.Context(), CallerClaims(r.Context()).Address,
		req.Asset, req.Landlord, req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *MarketHandler) HandleCheckLock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	itemID, err := strconv.ParseUint(vars["itemID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed item id"})
		return
	}
	status, err := h.market.CheckLock(r.Context(), domain.Address(vars["asset"]), itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func offerKeyFromPath(w http.ResponseWriter, r *http.Request) (domain.OfferKey, bool) {
	vars := mux.Vars(r)
	itemID, err := strconv.ParseUint(vars["itemID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed item id"})
		return domain.OfferKey{}, false
	}
	return domain.OfferKey{
		Asset:    domain.Address(vars["asset"]),
		ItemID:   itemID,
		Landlord: domain.Address(vars["landlord"]),
	}, true
}
