package rpc_types

// RpcError is a method failure reported as result.status "error".
type RpcError struct {
	Code        int    `json:"error_code"`
	ErrorString string `json:"error"`
	Message     string `json:"error_message,omitempty"`
}

func (e RpcError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorString
}

// Error codes. The negative ones are the JSON-RPC 2.0 reserved codes.
const (
	RpcMETHOD_NOT_FOUND = -32601
	RpcINVALID_PARAMS   = -32602
	RpcINTERNAL         = -32603

	RpcCOMMAND_UNTRUSTED = 3
	RpcNOT_ENABLED       = 31
	RpcOBJECT_NOT_FOUND  = 92
)

func rpcError(code int, name, message string) *RpcError {
	return &RpcError{Code: code, ErrorString: name, Message: message}
}

func RpcErrorInvalidParams(message string) *RpcError {
	return rpcError(RpcINVALID_PARAMS, "invalidParams", message)
}

// RpcErrorMissingField reports an absent or empty required parameter.
func RpcErrorMissingField(field string) *RpcError {
	return rpcError(RpcINVALID_PARAMS, "invalidParams", "Missing field '"+field+"'.")
}

func RpcErrorMethodNotFound(method string) *RpcError {
	return rpcError(RpcMETHOD_NOT_FOUND, "unknownCmd", "Unknown method: "+method)
}

func RpcErrorInternal(message string) *RpcError {
	return rpcError(RpcINTERNAL, "internal", message)
}

// RpcErrorUntrusted is returned when the caller's role is below the
// method's required role.
func RpcErrorUntrusted(method string) *RpcError {
	return rpcError(RpcCOMMAND_UNTRUSTED, "commandUntrusted", "Method '"+method+"' requires admin access")
}

func RpcErrorNotEnabled(feature string) *RpcError {
	return rpcError(RpcNOT_ENABLED, "notEnabled", "Feature not enabled: "+feature)
}

func RpcErrorObjectNotFound(message string) *RpcError {
	return rpcError(RpcOBJECT_NOT_FOUND, "objectNotFound", message)
}
