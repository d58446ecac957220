package http

import (
	"net/http"

	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/service"
)

// AdminHandler exposes the owner-only market settings
type AdminHandler struct {
	admin service.AdminService
}

func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) HandleSetWallet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Wallet domain.Address `json:"wallet"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.admin.SetWallet(r.Context(), CallerClaims(r.Context()).Address, req.Wallet); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *AdminHandler) HandleSetFee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rate int64 `json:"rate"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.admin.SetFee(r.Context(), CallerClaims(r.Context()).Address, req.Rate); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *AdminHandler) HandleSetFeePause(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paused bool `json:"paused"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.admin.SetFeePause(r.Context(), CallerClaims(r.Context()).Address, req.Paused); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *AdminHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	wallet, rate, denominator, paused := h.admin.Settings(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Wallet         domain.Address `json:"wallet"`
		FeeRate        int64          `json:"fee_rate"`
		FeeDenominator int64          `json:"fee_denominator"`
		FeePaused      bool           `json:"fee_paused"`
	}{wallet, rate, denominator, paused})
}
