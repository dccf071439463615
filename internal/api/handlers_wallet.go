package api

import (
	"net/http"

	"github.com/permissionhub/server/internal/api/respond"
	"github.com/permissionhub/server/internal/services"
)

// WalletHandler serves the simulated wallet connection for the demo user.
type WalletHandler struct {
	svc *services.WalletService
}

func NewWalletHandler(svc *services.WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// Status GET /api/wallet
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Status())
}

// Connect POST /api/wallet/connect
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Connect())
}

// Disconnect POST /api/wallet/disconnect
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.svc.Disconnect()
	w.WriteHeader(http.StatusNoContent)
}
