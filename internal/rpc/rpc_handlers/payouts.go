package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goMarketd/internal/rpc/rpc_types"
	"github.com/LeJamon/goMarketd/internal/storage/relationaldb"
)

// PayoutsMethod handles the payouts RPC method (admin only)
type PayoutsMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *PayoutsMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Status    string `json:"status"`
		Recipient string `json:"recipient"`
		Limit     int    `json:"limit"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if m.Services == nil || m.Services.Payouts == nil {
		return nil, rpc_types.RpcErrorNotEnabled("payout journal")
	}
	status := relationaldb.PayoutStatus(request.Status)
	if status != "" && !status.Valid() {
		return nil, rpc_types.RpcErrorInvalidParams("Invalid field 'status'.")
	}
	if request.Limit <= 0 || request.Limit > maxEventLimit {
		request.Limit = defaultEventLimit
	}

	payouts, err := m.Services.Payouts.List(ctx.Context, relationaldb.PayoutFilter{
		Status:    status,
		Recipient: request.Recipient,
		Limit:     request.Limit,
	})
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	counts, err := m.Services.Payouts.Outstanding(ctx.Context)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}
	if payouts == nil {
		payouts = []relationaldb.Payout{}
	}
	return map[string]interface{}{
		"payouts": payouts,
		"totals":  counts,
	}, nil
}

func (m *PayoutsMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleAdmin }
