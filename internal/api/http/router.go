package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"leasemarket-backend/internal/security"
	"leasemarket-backend/internal/service"
)

// NewRouter wires the REST surface: every /api/v1 route requires a bearer
// token binding the caller to a ledger address.
func NewRouter(market service.MarketService, admin service.AdminService, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	m := NewMarketHandler(market)
	api.HandleFunc("/offers", m.HandleCreateOffer).Methods("POST")
	api.HandleFunc("/offers/batch", m.HandleCreateOffersBatch).Methods("POST")
	api.HandleFunc("/offers/discounts", m.HandleSetDiscountData).Methods("PUT")
	api.HandleFunc("/offers/{asset}/{itemID}/{landlord}", m.HandleGetOffer).Methods("GET")
	api.HandleFunc("/leases", m.HandleRent).Methods("POST")
	api.HandleFunc("/leases/back", m.HandleBackToken).Methods("POST")
	api.HandleFunc("/assets/{asset}/items/{itemID}/lock", m.HandleCheckLock).Methods("GET")

	n := NewNegotiationHandler(market)
	api.HandleFunc("/refunds/request", n.HandleRequestRefund).Methods("POST")
	api.HandleFunc("/refunds/accept", n.HandleAcceptRefund).Methods("POST")
	api.HandleFunc("/extensions/request", n.HandleRequestExtend).Methods("POST")
	api.HandleFunc("/extensions/accept", n.HandleAcceptExtend).Methods("POST")

	p := NewPermitHandler(market)
	api.HandleFunc("/permits", p.HandlePermit).Methods("POST")
	api.HandleFunc("/permits/all", p.HandlePermitAll).Methods("POST")
	api.HandleFunc("/leases/signed", p.HandleSignedRent).Methods("POST")

	a := NewAdminHandler(admin)
	api.HandleFunc("/admin/settings", a.HandleGetSettings).Methods("GET")
	api.HandleFunc("/admin/wallet", a.HandleSetWallet).Methods("PUT")
	api.HandleFunc("/admin/fee", a.HandleSetFee).Methods("PUT")
	api.HandleFunc("/admin/fee-pause", a.HandleSetFeePause).Methods("PUT")

	return router
}
