package rpc

import (
	"github.com/LeJamon/goMarketd/internal/rpc/rpc_handlers"
)

// registerAllMethods registers every RPC method
func (s *Server) registerAllMethods() {
	svc := s.services

	// Server Information Methods
	s.registry.Register("server_info", &rpc_handlers.ServerInfoMethod{Services: svc})
	s.registry.Register("ping", &rpc_handlers.PingMethod{})

	// Transaction Methods
	s.registry.Register("submit", &rpc_handlers.SubmitMethod{Services: svc})

	// Ledger Methods
	s.registry.Register("balance_of", &rpc_handlers.BalanceOfMethod{Services: svc})
	s.registry.Register("balance_of_batch", &rpc_handlers.BalanceOfBatchMethod{Services: svc})
	s.registry.Register("token_info", &rpc_handlers.TokenInfoMethod{Services: svc})
	s.registry.Register("token_holders", &rpc_handlers.TokenHoldersMethod{Services: svc})
	s.registry.Register("total_supply", &rpc_handlers.TotalSupplyMethod{Services: svc})
	s.registry.Register("check_access", &rpc_handlers.CheckAccessMethod{Services: svc})
	s.registry.Register("contract_info", &rpc_handlers.ContractInfoMethod{Services: svc})

	// Market Methods
	s.registry.Register("get_market_data", &rpc_handlers.GetMarketDataMethod{Services: svc})
	s.registry.Register("get_bid_market_data", &rpc_handlers.GetBidMarketDataMethod{Services: svc})
	s.registry.Register("get_user_purchase_whitelist", &rpc_handlers.PurchaseWhitelistMethod{Services: svc})
	s.registry.Register("listings", &rpc_handlers.OrderBookMethod{Services: svc})
	s.registry.Register("bids", &rpc_handlers.OrderBookMethod{Services: svc, Bids: true})

	// Event log
	s.registry.Register("event_log", &rpc_handlers.EventLogMethod{Services: svc})

	// Admin Methods
	s.registry.Register("payouts", &rpc_handlers.PayoutsMethod{Services: svc})
}
