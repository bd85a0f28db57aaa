package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// tool adapts a tenant-scoped handler method to the SDK's typed tool handler.
func tool[In, Out any](fn func(ctx context.Context, tenantID string, in In) (Out, error)) sdkmcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		out, err := fn(ctx, getTenantID(ctx), in)
		if err != nil {
			return nil, nil, err
		}
		return nil, out, nil
	}
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	// Documents
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_document",
		Description: "Register a regulatory document (edital, portaria) whose obligations will be tracked",
	}, tool(h.createDocument))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_documents",
		Description: "List documents with item, done, dated and unresolved counts, newest first",
	}, tool(func(ctx context.Context, tenantID string, _ ListDocumentsParams) (*DocumentListResponse, error) {
		return h.listDocuments(ctx, tenantID)
	}))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_document",
		Description: "Get a document and its items in checklist order",
	}, tool(h.getDocument))

	// Items
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ingest_items",
		Description: "Validate extracted items, resolve their relative dates and replace the items of a document",
	}, tool(h.ingestItems))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_items",
		Description: "List items, dated ones first in date order, optionally filtered by document, status and type",
	}, tool(h.listItems))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_items",
		Description: "Full-text search over item titles, descriptions and evidence",
	}, tool(h.searchItems))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_item_status",
		Description: "Mark a checklist item pending or done",
	}, tool(h.setItemStatus))

	// Timeline and export
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_timeline",
		Description: "Get the dated events of a document in chronological order, including window openings",
	}, tool(h.getTimeline))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_calendar",
		Description: "Render the timeline of a document as an iCalendar (.ics) file",
	}, tool(h.exportCalendar))

	// Stateless resolution
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_dates",
		Description: "Resolve relative dates of extracted items without storing them",
	}, tool(func(_ context.Context, _ string, in ResolveDatesParams) (*ResolveDatesResponse, error) {
		return h.resolveDates(in)
	}))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "build_events",
		Description: "Resolve extracted items and project them into calendar events without storing them",
	}, tool(func(_ context.Context, _ string, in BuildEventsParams) (*BuildEventsResponse, error) {
		return h.buildEvents(in)
	}))

	// Activity
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "Get recent ingest, status and export activity, newest first",
	}, tool(h.getRecentActivity))
}
