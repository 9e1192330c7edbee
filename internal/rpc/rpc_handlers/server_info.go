package rpc_handlers

import (
	"encoding/json"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/rpc/rpc_types"
)

// ServerInfoMethod handles the server_info RPC method
type ServerInfoMethod struct {
	Services *rpc_types.ServiceContainer
}

func (m *ServerInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	if m.Services == nil {
		return nil, rpc_types.RpcErrorInternal("Services not available")
	}

	info := map[string]interface{}{
		"build_version":     m.Services.Version,
		"uptime":            int64(time.Since(m.Services.StartTime).Seconds()),
		"transaction_types": tx.TypeNames(),
		"payout_journal":    m.Services.Payouts != nil,
	}
	if m.Services.Events != nil {
		n, err := m.Services.Events.Len()
		if err != nil {
			return nil, rpc_types.RpcErrorInternal(err.Error())
		}
		info["event_count"] = n
	}
	return map[string]interface{}{"info": info}, nil
}

func (m *ServerInfoMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

// PingMethod handles the ping RPC method
type PingMethod struct{}

func (m *PingMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	return map[string]interface{}{}, nil
}

func (m *PingMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }
