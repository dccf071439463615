package memory

import (
	"time"

	"github.com/permissionhub/server/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// Seed loads the demo data set for the given user: five granted permissions
// covering every permission type and two pending requests. Ids continue from
// the seeded records.
func (s *Store) Seed(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	perms := []*model.Permission{
		{
			UserID:            userID,
			Type:              model.TypeTokenStream,
			Name:              "Music Subscription Stream",
			AppName:           "Streaming Music App",
			Description:       strPtr("Continuous micropayments for music streaming service"),
			ContractAddress:   strPtr("0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b"),
			FunctionSignature: strPtr("transfer(address,uint256)"),
			IsActive:          true,
			MaxAmount:         strPtr("100"),
			AmountPerSecond:   strPtr("0.0001"),
			TotalAmount:       strPtr("25.32"),
			ExpiryTime:        at(8 * 24 * time.Hour),
			CreatedAt:         now.Add(-5 * 24 * time.Hour),
			AdditionalData:    map[string]interface{}{"token": "USDC"},
		},
		{
			UserID:            userID,
			Type:              model.TypeTokenStream,
			Name:              "News Subscription",
			AppName:           "Web3 News Subscription",
			Description:       strPtr("Subscription to premium crypto news content"),
			ContractAddress:   strPtr("0x7f8e9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f"),
			FunctionSignature: strPtr("transfer(address,uint256)"),
			IsActive:          true,
			MaxAmount:         strPtr("0.5"),
			AmountPerSecond:   strPtr("0.00005"),
			TotalAmount:       strPtr("0.08"),
			ExpiryTime:        at(3 * 24 * time.Hour),
			CreatedAt:         now.Add(-10 * 24 * time.Hour),
			AdditionalData:    map[string]interface{}{"token": "ETH"},
		},
		{
			UserID:            userID,
			Type:              model.TypeSessionBased,
			Name:              "Gaming NFT Session",
			AppName:           "Blockchain Game",
			Description:       strPtr("Limited access to use in-game NFT assets"),
			ContractAddress:   strPtr("0x3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d"),
			FunctionSignature: strPtr("useItem(),transferInGame()"),
			IsActive:          true,
			MaxCalls:          intPtr(50),
			CallsUsed:         12,
			ExpiryTime:        at(28 * time.Minute),
			CreatedAt:         now.Add(-2 * time.Hour),
			AdditionalData:    map[string]interface{}{"nftIds": []string{"#1234", "#5678"}},
		},
		{
			UserID:            userID,
			Type:              model.TypeSessionBased,
			Name:              "Voting Delegation",
			AppName:           "DAO Voting Portal",
			Description:       strPtr("Delegated voting rights for proposal DIP-247"),
			ContractAddress:   strPtr("0x5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f"),
			FunctionSignature: strPtr("vote(uint256,bool)"),
			IsActive:          true,
			MaxCalls:          intPtr(1),
			ExpiryTime:        at(2*24*time.Hour + 4*time.Hour),
			CreatedAt:         now.Add(-24 * time.Hour),
			AdditionalData:    map[string]interface{}{"proposalId": "DIP-247"},
		},
		{
			UserID:            userID,
			Type:              model.TypeDelegation,
			Name:              "Smart Account Delegation",
			AppName:           "AI Trading Agent",
			Description:       strPtr("Limited trading permissions for AI agent"),
			ContractAddress:   strPtr("0x8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c"),
			FunctionSignature: strPtr("executeTrade(address,uint256,uint256)"),
			IsActive:          true,
			MaxAmount:         strPtr("500"),
			TotalAmount:       strPtr("325"),
			MaxCalls:          intPtr(20),
			CallsUsed:         7,
			ExpiryTime:        at(7 * 24 * time.Hour),
			CreatedAt:         now.Add(-3 * 24 * time.Hour),
			AdditionalData:    map[string]interface{}{"token": "USDC", "dailyLimit": 20},
		},
	}
	for _, p := range perms {
		p.ID = s.nextPermID
		s.nextPermID++
		s.perms[p.ID] = p
	}

	reqs := []*model.PermissionRequest{
		{
			UserID:            userID,
			Type:              model.TypeContractInteraction,
			AppName:           "DeFi Protocol",
			Description:       strPtr("Automated token swaps permission"),
			ContractAddress:   strPtr("0x9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d"),
			FunctionSignature: strPtr("swap(address,uint256)"),
			MaxAmount:         strPtr("500"),
			MaxCalls:          intPtr(10),
			ExpiryTime:        at(7 * 24 * time.Hour),
			RequestedAt:       now,
			AdditionalData:    map[string]interface{}{"token": "USDC"},
		},
		{
			UserID:            userID,
			Type:              model.TypeSessionBased,
			AppName:           "NFT Marketplace",
			Description:       strPtr("NFT viewing session permission"),
			ContractAddress:   strPtr("0x1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f"),
			FunctionSignature: strPtr("viewNFT(uint256)"),
			MaxCalls:          intPtr(50),
			ExpiryTime:        at(2 * time.Hour),
			RequestedAt:       now,
			AdditionalData:    map[string]interface{}{"collectionId": "bored-apes"},
		},
	}
	for _, r := range reqs {
		r.ID = s.nextReqID
		s.nextReqID++
		s.requests[r.ID] = r
	}
}
