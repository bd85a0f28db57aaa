package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganot/docflow/internal/mcp"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"get_item","params":{"item_id":"a"},"id":"req-1"}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "get_item", req.Method)
	require.Equal(t, json.RawMessage(`{"item_id":"a"}`), req.Params)
	require.Equal(t, json.RawMessage(`"req-1"`), req.ID)
	require.False(t, req.IsNotification())
}

func TestParseRequest_Notification(t *testing.T) {
	req, err := ParseRequest(bytes.NewBufferString(`{"jsonrpc":"2.0","method":"list_documents"}`))
	require.NoError(t, err)
	assert.True(t, req.IsNotification())
}

func TestParseRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"missing method", `{"jsonrpc":"2.0","id":1}`, errInvalidRequest},
		{"wrong version", `{"jsonrpc":"1.0","method":"x","id":1}`, errInvalidRequest},
		{"method not a string", `{"jsonrpc":"2.0","method":5,"id":1}`, errInvalidRequest},
		{"batch", ` [{"jsonrpc":"2.0","method":"x","id":1}]`, errInvalidRequest},
		{"truncated", `{"jsonrpc"`, errParse},
		{"trailing data", `{"jsonrpc":"2.0","method":"x","id":1} {}`, errParse},
		{"empty", ``, errParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(bytes.NewBufferString(tt.body))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestErrorFor(t *testing.T) {
	apiErr := &mcp.APIError{Code: "ITEM_NOT_FOUND", Message: "item not found"}

	tests := []struct {
		name       string
		err        error
		code       int
		unexpected bool
	}{
		{"parse", fmt.Errorf("%w: eof", errParse), CodeParseError, false},
		{"invalid request", errInvalidRequest, CodeInvalidRequest, false},
		{"unknown method", fmt.Errorf("%w: x", mcp.ErrUnknownMethod), CodeMethodNotFound, false},
		{"invalid params", fmt.Errorf("%w: x", mcp.ErrInvalidParams), CodeInvalidParams, false},
		{"domain", fmt.Errorf("get item: %w", apiErr), CodeApplication, false},
		{"other", errors.New("database is locked"), CodeInternal, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpcErr, unexpected := errorFor(tt.err)
			assert.Equal(t, tt.code, rpcErr.Code)
			assert.Equal(t, tt.unexpected, unexpected)
		})
	}

	rpcErr, _ := errorFor(apiErr)
	assert.Equal(t, "item not found", rpcErr.Message)
	assert.Same(t, apiErr, rpcErr.Data)

	rpcErr, _ = errorFor(errors.New("database is locked"))
	assert.Equal(t, "internal error", rpcErr.Message)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, json.RawMessage(`7`), &Error{Code: CodeInvalidParams, Message: "bad params"})

	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32602,"message":"bad params"},"id":7}`, rec.Body.String())
}

func TestWriteResult_NullID(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResult(rec, nil, map[string]int{"count": 2})

	assert.JSONEq(t, `{"jsonrpc":"2.0","result":{"count":2},"id":null}`, rec.Body.String())
}
