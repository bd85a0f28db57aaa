package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/domain/item"
	"github.com/ganot/docflow/internal/mcp"
	"github.com/ganot/docflow/internal/sqlite"
	"github.com/ganot/docflow/internal/transport"
)

// TestServer runs the full HTTP stack on an in-memory database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Keys     *sqlite.APIKeyRepository
	Token    string
	TenantID string
}

// New starts a server with authentication enabled and one API key mapping
// token to tenantID.
func New(t *testing.T, token, tenantID string) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	documentRepo := sqlite.NewDocumentRepository(db)
	itemRepo := sqlite.NewItemRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	searchRepo := sqlite.NewSearchRepository(db)
	keys := sqlite.NewAPIKeyRepository(db)

	documentSvc := document.NewService(documentRepo, activityRepo, nil)
	itemSvc := item.NewService(itemRepo, documentRepo, activityRepo, searchRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Documents: documentSvc,
			Items:     itemSvc,
			Activity:  activitySvc,
		},
		Resolver:      keys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	streamable := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	router := transport.NewServer(transport.Options{
		Handler: mcp.NewHandler(documentSvc, itemSvc, activitySvc, ""),
		Exports: itemSvc,
		MCP:     streamable,
		Auth:    transport.AuthMiddleware(keys),
		Limiter: transport.NewRateLimiter(1000, 1000),
	})
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Keys:     keys,
		Token:    token,
		TenantID: tenantID,
	}

	require.NoError(t, ts.AddAPIKey(token, tenantID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey registers another token.
func (ts *TestServer) AddAPIKey(token, tenantID string) error {
	return ts.Keys.Create(context.Background(), tenantID, token, "test")
}

// BearerClient returns an HTTP client that authenticates every request with
// token.
func BearerClient(token string) *http.Client {
	return &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}}
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(r)
}
