package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goMarketd/internal/rpc/rpc_types"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// EventLogMethod handles the event_log RPC method. It pages through the
// append-only log from start.
type EventLogMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *EventLogMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Start uint64 `json:"start"`
		Limit int    `json:"limit"`
	}
	if err := parseParams(params, &request); err != nil {
		return nil, err
	}
	if m.Services == nil || m.Services.Events == nil {
		return nil, rpc_types.RpcErrorNotEnabled("event log")
	}
	if request.Limit <= 0 {
		request.Limit = defaultEventLimit
	}
	if request.Limit > maxEventLimit {
		request.Limit = maxEventLimit
	}

	count, err := m.Services.Events.Len()
	if err != nil {
		return nil, rpc_types.RpcErrorInternal(err.Error())
	}

	records := make([][]string, 0)
	for i := request.Start; i < count && len(records) < request.Limit; i++ {
		e, err := m.Services.Events.Get(i)
		if err != nil {
			return nil, rpc_types.RpcErrorInternal(err.Error())
		}
		records = append(records, e.Record())
	}

	res := map[string]interface{}{
		"start":  request.Start,
		"count":  count,
		"events": records,
	}
	if next := request.Start + uint64(len(records)); next < count {
		res["marker"] = next
	}
	return res, nil
}

func (m *EventLogMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }
