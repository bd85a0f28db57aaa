package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrUnauthorized is returned for tool calls without a valid bearer token.
var ErrUnauthorized = errors.New("unauthorized")

type contextKey int

const tenantIDKey contextKey = iota

// getTenantID extracts tenant ID from context.
func getTenantID(ctx context.Context) string {
	v, _ := ctx.Value(tenantIDKey).(string)
	return v
}

// TenantResolver resolves a tenant ID from a bearer token.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
}

// publicMethod reports whether method runs before or outside any tool call
// and so needs no tenant.
func publicMethod(method string) bool {
	switch method {
	case "initialize", "ping":
		return true
	}
	return strings.HasPrefix(method, "notifications/")
}

func bearerToken(header http.Header) string {
	if header == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header.Get("Authorization"), "Bearer "))
}

// authMiddleware resolves the tenant of every non-public request from the
// Authorization header the HTTP transport forwards.
func authMiddleware(resolver TenantResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if publicMethod(method) {
				return next(ctx, method, req)
			}

			var token string
			if extra := req.GetExtra(); extra != nil {
				token = bearerToken(extra.Header)
			}
			if token == "" {
				return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
			}

			tenantID, err := resolver.ResolveTenant(ctx, token)
			if err != nil || tenantID == "" {
				return nil, fmt.Errorf("%w: invalid bearer token", ErrUnauthorized)
			}

			return next(context.WithValue(ctx, tenantIDKey, tenantID), method, req)
		}
	}
}

// noAuthMiddleware injects a default tenant when auth is disabled.
func noAuthMiddleware(defaultTenant string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(context.WithValue(ctx, tenantIDKey, defaultTenant), method, req)
		}
	}
}
