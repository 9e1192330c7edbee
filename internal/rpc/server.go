// Package rpc serves the JSON-RPC API: transaction submission, read
// queries, the event log and the payout journal.
package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/LeJamon/goMarketd/internal/rpc/rpc_types"
	"go.uber.org/zap"
)

// maxBodySize bounds a request body
const maxBodySize = 1 << 20

// Server handles HTTP JSON-RPC requests
type Server struct {
	registry *rpc_types.MethodRegistry
	services *rpc_types.ServiceContainer
	timeout  time.Duration
	log      *zap.Logger
}

// NewServer creates a new RPC server with the given timeout
func NewServer(services *rpc_types.ServiceContainer, timeout time.Duration, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	server := &Server{
		registry: rpc_types.NewMethodRegistry(),
		services: services,
		timeout:  timeout,
		log:      log,
	}

	// Register all RPC methods
	server.registerAllMethods()

	return server
}

// Request represents a JSON-RPC request
// Format: {"method": "method_name", "params": [{...}]}
type Request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// Handler returns a mux serving RPC on "/", plus the websocket event
// stream on /ws and prometheus metrics on /metrics when given.
func (s *Server) Handler(ws, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s)
	if ws != nil {
		mux.Handle("/ws", ws)
	}
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	return mux
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	// Handle preflight requests
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetRequest(w, r)
	case http.MethodPost:
		s.handlePostRequest(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetRequest processes GET requests, which only run parameterless
// methods named by ?command=
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("command")
	if method == "" {
		method = "server_info"
	}

	ctx, cancel := s.newContext(r)
	defer cancel()

	result, rpcErr := s.executeMethod(method, nil, ctx)
	s.writeResponse(w, nil, result, rpcErr)
}

// handlePostRequest processes POST requests with a JSON-RPC payload
func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, nil, "internal", "Failed to read request body")
		return
	}

	var request Request
	if err := json.Unmarshal(body, &request); err != nil {
		s.writeError(w, nil, "jsonInvalid", "Invalid JSON: "+err.Error())
		return
	}
	if request.Method == "" {
		s.writeError(w, nil, "missingCommand", "Missing method field")
		return
	}

	// params is an array with one object
	var params json.RawMessage
	if len(request.Params) > 0 {
		params = request.Params[0]
	}

	ctx, cancel := s.newContext(r)
	defer cancel()

	result, rpcErr := s.executeMethod(request.Method, params, ctx)

	// Echo the request back in error responses
	var requestObj interface{}
	if rpcErr != nil {
		reqMap := map[string]interface{}{}
		if params != nil {
			_ = json.Unmarshal(params, &reqMap)
		}
		reqMap["command"] = request.Method
		requestObj = reqMap
	}

	s.writeResponse(w, requestObj, result, rpcErr)
}

func (s *Server) newContext(r *http.Request) (*rpc_types.RpcContext, context.CancelFunc) {
	base := r.Context()
	cancel := context.CancelFunc(func() {})
	if s.timeout > 0 {
		base, cancel = context.WithTimeout(base, s.timeout)
	}
	return &rpc_types.RpcContext{
		Context:  base,
		Role:     roleFor(r),
		ClientIP: getClientIP(r),
	}, cancel
}

// executeMethod executes an RPC method with the given parameters
func (s *Server) executeMethod(method string, params json.RawMessage, ctx *rpc_types.RpcContext) (interface{}, *rpc_types.RpcError) {
	handler, exists := s.registry.Get(method)
	if !exists {
		return nil, rpc_types.RpcErrorMethodNotFound(method)
	}
	if ctx.Role < handler.RequiredRole() {
		return nil, rpc_types.RpcErrorUntrusted(method)
	}

	result, rpcErr := handler.Handle(ctx, params)
	if rpcErr != nil {
		s.log.Debug("rpc method failed",
			zap.String("method", method),
			zap.String("client", ctx.ClientIP),
			zap.String("error", rpcErr.ErrorString),
		)
	}
	return result, rpcErr
}

// writeResponse writes a JSON-RPC response. result.status is "success" or
// "error".
func (s *Server) writeResponse(w http.ResponseWriter, request interface{}, result interface{}, rpcErr *rpc_types.RpcError) {
	response := make(map[string]interface{})

	if rpcErr != nil {
		resultObj := map[string]interface{}{
			"status":        "error",
			"error":         rpcErr.ErrorString,
			"error_code":    rpcErr.Code,
			"error_message": rpcErr.Message,
		}
		if request != nil {
			resultObj["request"] = request
		}
		response["result"] = resultObj
	} else if resultMap, ok := result.(map[string]interface{}); ok {
		resultMap["status"] = "success"
		response["result"] = resultMap
	} else {
		response["result"] = map[string]interface{}{
			"status": "success",
			"data":   result,
		}
	}

	s.write(w, response)
}

// writeError writes an error response for a request that never reached a
// method
func (s *Server) writeError(w http.ResponseWriter, request interface{}, errorCode string, message string) {
	resultObj := map[string]interface{}{
		"status":        "error",
		"error":         errorCode,
		"error_message": message,
	}
	if request != nil {
		resultObj["request"] = request
	}
	s.write(w, map[string]interface{}{"result": resultObj})
}

func (s *Server) write(w http.ResponseWriter, response map[string]interface{}) {
	responseData, err := json.Marshal(response)
	if err != nil {
		s.log.Error("failed to marshal response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(responseData)
}

// roleFor grants admin to loopback peers. Forwarding headers are ignored
// here since they are client-controlled.
func roleFor(r *http.Request) rpc_types.Role {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return rpc_types.RoleAdmin
	}
	return rpc_types.RoleGuest
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
