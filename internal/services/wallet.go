package services

import (
	"sync"

	"github.com/google/uuid"
)

// Demo wallet identity presented by the simulation. No network or signer is
// involved anywhere.
const (
	demoAddress = "0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b"
	demoBalance = "1.24 ETH"
	demoNetwork = "Ethereum"
)

// WalletStatus is the connection state reported to the client.
type WalletStatus struct {
	Connected bool   `json:"connected"`
	Address   string `json:"address,omitempty"`
	Balance   string `json:"balance,omitempty"`
	Network   string `json:"network"`
	SessionID string `json:"sessionId,omitempty"`
}

// WalletService simulates a wallet connection for the demo user. Connect is
// idempotent: reconnecting returns the existing session.
type WalletService struct {
	mu     sync.Mutex
	status WalletStatus
}

func NewWalletService() *WalletService {
	return &WalletService{status: WalletStatus{Network: demoNetwork}}
}

func (w *WalletService) Connect() WalletStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.status.Connected {
		w.status = WalletStatus{
			Connected: true,
			Address:   demoAddress,
			Balance:   demoBalance,
			Network:   demoNetwork,
			SessionID: uuid.NewString(),
		}
	}
	return w.status
}

func (w *WalletService) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = WalletStatus{Network: demoNetwork}
}

func (w *WalletService) Status() WalletStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}
