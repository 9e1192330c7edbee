package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/market"
	"github.com/LeJamon/goMarketd/internal/core/query"
	"github.com/LeJamon/goMarketd/internal/rpc/rpc_types"
)

type tokenAccountParams struct {
	Token   string `json:"token"`
	Account string `json:"account"`
}

// BalanceOfMethod handles the balance_of RPC method
type BalanceOfMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *BalanceOfMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request tokenAccountParams
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if err := requireFields("token", request.Token, "account", request.Account); err != nil {
		return nil, err
	}
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}
	balance, err := q.BalanceOf(request.Token, request.Account)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{
		"token":   request.Token,
		"account": request.Account,
		"balance": balance.Dec(),
	}, nil
}

func (m *BalanceOfMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

// BalanceOfBatchMethod handles the balance_of_batch RPC method
type BalanceOfBatchMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *BalanceOfBatchMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Tokens   []string `json:"tokens"`
		Accounts []string `json:"accounts"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	for _, token := range request.Tokens {
		if err := checkToken(token); err != nil {
			return nil, err
		}
	}
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}
	balances, err := q.BalanceOfBatch(request.Tokens, request.Accounts)
	if errors.Is(err, query.ErrLengthMismatch) {
		return nil, rpc_types.RpcErrorInvalidParams(err.Error())
	}
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	out := make([]string, len(balances))
	for i := range balances {
		out[i] = balances[i].Dec()
	}
	return map[string]interface{}{"balances": out}, nil
}

func (m *BalanceOfBatchMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

// TokenInfoMethod handles the token_info RPC method
type TokenInfoMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *TokenInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Token string `json:"token"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if err := requireFields("token", request.Token); err != nil {
		return nil, err
	}
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}
	info, ok, err := q.Token(request.Token)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	if !ok {
		return nil, rpc_types.RpcErrorObjectNotFound("Token not found: " + request.Token)
	}
	return map[string]interface{}{
		"token":          info.Token,
		"creator":        info.Creator,
		"royalty":        info.Royalty,
		"supply":         info.Supply.Dec(),
		"whitelisted":    info.Whitelisted,
		"purchase_limit": info.Limit.Dec(),
	}, nil
}

func (m *TokenInfoMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

// TotalSupplyMethod handles the total_supply RPC method
type TotalSupplyMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *TotalSupplyMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Token string `json:"token"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if err := requireFields("token", request.Token); err != nil {
		return nil, err
	}
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}
	supply, err := q.TotalSupply(request.Token)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{"token": request.Token, "supply": supply.Dec()}, nil
}

func (m *TotalSupplyMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

// CheckAccessMethod handles the check_access RPC method
type CheckAccessMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *CheckAccessMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Caller  string `json:"caller"`
		Account string `json:"account"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if err := requireFields("caller", request.Caller, "account", request.Account); err != nil {
		return nil, err
	}
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}
	access, err := q.CheckAccess(request.Caller, request.Account)
	if errors.Is(err, market.ErrInvalidSelfCheck) {
		return nil, rpc_types.RpcErrorInvalidParams(err.Error())
	}
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{"access": access}, nil
}

func (m *CheckAccessMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

// GetMarketDataMethod handles the get_market_data RPC method
type GetMarketDataMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *GetMarketDataMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Seller string `json:"seller"`
		Token  string `json:"token"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if err := requireFields("seller", request.Seller, "token", request.Token); err != nil {
		return nil, err
	}
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}
	order, ok, err := q.GetMarketData(request.Seller, request.Token)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	return orderResult(order, ok), nil
}

func (m *GetMarketDataMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

// GetBidMarketDataMethod handles the get_bid_market_data RPC method
type GetBidMarketDataMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *GetBidMarketDataMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Bidder string `json:"bidder"`
		Token  string `json:"token"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if err := requireFields("bidder", request.Bidder, "token", request.Token); err != nil {
		return nil, err
	}
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}
	order, ok, err := q.GetBidMarketData(request.Bidder, request.Token)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	return orderResult(order, ok), nil
}

func (m *GetBidMarketDataMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func orderResult(order *query.Order, ok bool) map[string]interface{} {
	if !ok {
		return map[string]interface{}{"found": false}
	}
	res := formatOrder(order)
	res["found"] = true
	return res
}

// PurchaseWhitelistMethod handles the get_user_purchase_whitelist RPC method
type PurchaseWhitelistMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *PurchaseWhitelistMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Token string `json:"token"`
		Buyer string `json:"buyer"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if err := requireFields("token", request.Token, "buyer", request.Buyer); err != nil {
		return nil, err
	}
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}
	status, err := q.GetUserPurchaseWhitelist(request.Token, request.Buyer)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{"token": request.Token, "buyer": request.Buyer, "whitelist": status}, nil
}

func (m *PurchaseWhitelistMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

// OrderBookMethod handles the listings and bids RPC methods
type OrderBookMethod struct {
	Services *rpc_types.ServiceContainer
	Bids     bool
}

func (m *OrderBookMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Token string `json:"token"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if err := requireFields("token", request.Token); err != nil {
		return nil, err
	}
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}

	var (
		orders []query.Order
		err    error
		field  = "listings"
	)
	if m.Bids {
		field = "bids"
		orders, err = q.Bids(request.Token)
	} else {
		orders, err = q.Listings(request.Token)
	}
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{"token": request.Token, field: formatOrders(orders)}, nil
}

func (m *OrderBookMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

// ContractInfoMethod handles the contract_info RPC method
type ContractInfoMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *ContractInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}
	owner, err := q.Owner()
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	treasury, err := q.Treasury()
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{"owner": owner, "treasury": treasury}, nil
}

func (m *ContractInfoMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

// TokenHoldersMethod handles the token_holders RPC method
type TokenHoldersMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *TokenHoldersMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Token string `json:"token"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if err := requireFields("token", request.Token); err != nil {
		return nil, err
	}
	q, rerr := queryService(m.Services)
	if rerr != nil {
		return nil, rerr
	}
	holders, err := q.Holders(request.Token)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	out := make([]map[string]string, len(holders))
	for i, h := range holders {
		out[i] = map[string]string{"account": h.Account, "balance": h.Balance.Dec()}
	}
	return map[string]interface{}{"token": request.Token, "holders": out}, nil
}

func (m *TokenHoldersMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }
