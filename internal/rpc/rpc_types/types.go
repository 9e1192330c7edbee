package rpc_types

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/events"
	"github.com/LeJamon/goMarketd/internal/storage/relationaldb"
)

// Role-based access control
type Role int

const (
	RoleGuest Role = iota
	RoleAdmin
)

// RPC Context contains request-specific information
type RpcContext struct {
	Context  context.Context
	Role     Role
	ClientIP string
}

// Method handler interface - all RPC methods implement this
type MethodHandler interface {
	Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)
	RequiredRole() Role
}

// Method registry for dynamic method registration
type MethodRegistry struct {
	methods map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		methods: make(map[string]MethodHandler),
	}
}

func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.methods[name] = handler
}

func (r *MethodRegistry) Get(name string) (MethodHandler, bool) {
	handler, exists := r.methods[name]
	return handler, exists
}

func (r *MethodRegistry) List() []string {
	methods := make([]string, 0, len(r.methods))
	for name := range r.methods {
		methods = append(methods, name)
	}
	return methods
}

// Engine is the part of tx.Engine the handlers use.
type Engine interface {
	Apply(t tx.Transaction) tx.ApplyResult
	View() tx.ReadView
}

// ServiceContainer holds references to all services needed by RPC handlers
type ServiceContainer struct {
	Engine Engine
	Events events.Sink
	// Payouts is nil when no journal is configured
	Payouts   relationaldb.PayoutRepository
	Version   string
	StartTime time.Time
}
