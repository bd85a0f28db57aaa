package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ganot/docflow/internal/mcp"
)

// JSON-RPC 2.0 error codes. CodeApplication sits in the server-defined range
// and carries an mcp.APIError in Error.Data.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = -32603
	CodeApplication    = -32000
)

const maxRequestBytes = 1 << 20

var (
	errParse          = errors.New("parse error")
	errInvalidRequest = errors.New("invalid request")
)

// Request is a single JSON-RPC 2.0 call. ID is kept raw so it is echoed back
// exactly as the client sent it.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// IsNotification reports whether the caller expects no response.
func (r Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is a JSON-RPC 2.0 reply. A nil ID encodes as null.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ParseRequest decodes one request object. Malformed JSON is a parse error;
// well-formed JSON of the wrong shape, batches included, is an invalid
// request.
func ParseRequest(body io.Reader) (Request, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", errParse, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		return Request{}, fmt.Errorf("%w: batch requests are not supported", errInvalidRequest)
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Request{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
		}
		return Request{}, fmt.Errorf("%w: %v", errParse, err)
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		return Request{}, errInvalidRequest
	}
	return req, nil
}

// errorFor maps a failure to its JSON-RPC error object. unexpected is true
// for failures that only the server log should describe.
func errorFor(err error) (rpcErr *Error, unexpected bool) {
	var apiErr *mcp.APIError
	switch {
	case errors.Is(err, errParse):
		return &Error{Code: CodeParseError, Message: err.Error()}, false
	case errors.Is(err, errInvalidRequest):
		return &Error{Code: CodeInvalidRequest, Message: err.Error()}, false
	case errors.Is(err, mcp.ErrUnknownMethod):
		return &Error{Code: CodeMethodNotFound, Message: err.Error()}, false
	case errors.Is(err, mcp.ErrInvalidParams):
		return &Error{Code: CodeInvalidParams, Message: err.Error()}, false
	case errors.As(err, &apiErr):
		return &Error{Code: CodeApplication, Message: apiErr.Message, Data: apiErr}, false
	default:
		return &Error{Code: CodeInternal, Message: "internal error"}, true
	}
}

// WriteResult writes a success reply.
func WriteResult(w http.ResponseWriter, id json.RawMessage, result any) {
	writeJSON(w, Response{JSONRPC: "2.0", Result: result, ID: id})
}

// WriteError writes an error reply.
func WriteError(w http.ResponseWriter, id json.RawMessage, rpcErr *Error) {
	writeJSON(w, Response{JSONRPC: "2.0", Error: rpcErr, ID: id})
}

func writeJSON(w http.ResponseWriter, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
