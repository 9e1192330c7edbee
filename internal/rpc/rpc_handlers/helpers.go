package rpc_handlers

import (
	"encoding/json"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/query"
	"github.com/LeJamon/goMarketd/internal/rpc/rpc_types"
)

// parseParams decodes params into v. Absent params leave v untouched.
func parseParams(params json.RawMessage, v interface{}) *rpc_types.RpcError {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return rpc_types.RpcErrorInvalidParams("Invalid parameters: " + err.Error())
	}
	return nil
}

// requireFields returns an error for the first empty value, checked in
// order. Arguments alternate name, value. A "token" value is also held to
// the ledger's token length limit.
func requireFields(pairs ...string) *rpc_types.RpcError {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return rpc_types.RpcErrorMissingField(pairs[i])
		}
		if pairs[i] == "token" {
			if err := checkToken(pairs[i+1]); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkToken(token string) *rpc_types.RpcError {
	if len(token) > keylet.MaxTokenLength {
		return rpc_types.RpcErrorInvalidParams(fmt.Sprintf("token exceeds %d bytes", keylet.MaxTokenLength))
	}
	return nil
}

func queryService(s *rpc_types.ServiceContainer) (*query.Service, *rpc_types.RpcError) {
	if s == nil || s.Engine == nil {
		return nil, rpc_types.RpcErrorInternal("Engine not available")
	}
	return query.New(s.Engine.View()), nil
}

func formatOrder(o *query.Order) map[string]interface{} {
	return map[string]interface{}{
		"token":      o.Token,
		"account":    o.Account,
		"quantity":   o.Quantity.Dec(),
		"unit_price": o.UnitPrice.Dec(),
	}
}

func formatOrders(orders []query.Order) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(orders))
	for i := range orders {
		out = append(out, formatOrder(&orders[i]))
	}
	return out
}
