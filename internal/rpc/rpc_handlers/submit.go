package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/rpc/rpc_types"
)

// SubmitMethod handles the submit RPC method. tx_json.Account and
// tx_json.Value are taken on trust, so only admin callers may submit: the
// gateway in front of marketd authenticates users and settles payments.
type SubmitMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *SubmitMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		TxJson json.RawMessage `json:"tx_json,omitempty"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if len(request.TxJson) == 0 {
		return nil, rpc_types.RpcErrorMissingField("tx_json")
	}
	if m.Services == nil || m.Services.Engine == nil {
		return nil, rpc_types.RpcErrorInternal("Engine not available")
	}

	transaction, err := tx.FromJSON(request.TxJson)
	if errors.Is(err, tx.ErrUnknownTransactionType) {
		return nil, rpc_types.RpcErrorInvalidParams(err.Error())
	}
	if err != nil {
		return nil, rpc_types.RpcErrorInvalidParams("Invalid tx_json: " + err.Error())
	}

	res := m.Services.Engine.Apply(transaction)

	var txJsonMap map[string]interface{}
	if err := json.Unmarshal(request.TxJson, &txJsonMap); err != nil {
		txJsonMap = map[string]interface{}{}
	}

	events := make([][]string, 0, len(res.Events))
	for _, e := range res.Events {
		events = append(events, e.Record())
	}
	payments := make([]map[string]interface{}, 0, len(res.Payments))
	for _, p := range res.Payments {
		payments = append(payments, map[string]interface{}{
			"reason": string(p.Reason),
			"to":     p.To,
			"token":  p.Token,
			"amount": p.Amount.Dec(),
		})
	}

	return map[string]interface{}{
		"engine_result":         res.Result.String(),
		"engine_result_code":    int(res.Result),
		"engine_result_message": res.Message,
		"applied":               res.Applied,
		"tx_json":               txJsonMap,
		"events":                events,
		"payments":              payments,
	}, nil
}

func (m *SubmitMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleAdmin
}
