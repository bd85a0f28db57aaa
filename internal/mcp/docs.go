package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `docflow turns regulatory documents (editais, portarias) into a checklist and a calendar.

Core concepts:
- Document: a regulatory text, optionally with a base date (publication date).
- Item: an obligation extracted from the document (task, deadline, required_doc, warning) with evidence.
- Relative date: a phrase such as "até 10 dias úteis após a divulgação do resultado". The server resolves it by finding the item it refers to (the anchor) and doing calendar arithmetic.
- Event: a dated timeline entry. Window rules ("até N dias após X") also produce a window_start event.

Workflow:
1) create_document (pass base_date when the publication date is known).
2) Extract items from the text yourself, then call ingest_items with the whole batch. Each call replaces the document's items.
3) Read the summary: unresolved > 0 means some relative dates had no anchor; needs_base_date means a base date may fix them.
4) get_timeline / export_calendar for dates, list_items / set_item_status for the checklist.
5) resolve_dates and build_events run the same resolution without storing anything.

Docs:
- docflow://docs/index
- docflow://docs/items
- docflow://docs/relative-dates
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "docflow://docs/index",
		Name:        "docs_index",
		Title:       "docflow docs index",
		Description: "Entry point for agent-facing docs.",
		Content: `# docflow: Agent Docs Index

## Quick start

1. ` + "`create_document`" + ` with a title of at least 3 characters.
2. ` + "`ingest_items`" + ` with every item extracted from the text.
3. ` + "`get_timeline`" + ` to review dates, ` + "`export_calendar`" + ` to get an .ics file.

## Docs

- ` + "`docflow://docs/items`" + `: item fields and validation rules.
- ` + "`docflow://docs/relative-dates`" + `: which date phrases are understood and how anchors are found.

## Limitations

- Holidays are not known; business days only skip Saturdays and Sundays.
- Hour offsets count from midnight of the anchor day; only the resulting day is kept.
- Ingesting again replaces the items of the document, including their status.
`,
	},
	{
		URI:         "docflow://docs/items",
		Name:        "docs_items",
		Title:       "Item fields and validation",
		Description: "What ingest_items expects for each item.",
		Content: `# Items

Each item sent to ` + "`ingest_items`" + ` or ` + "`resolve_dates`" + `:

| field | required | notes |
|---|---|---|
| id | yes | unique within the batch; stored items get new ids |
| type | yes | task, deadline, required_doc or warning |
| title | yes | short imperative sentence |
| description | no | |
| due_date | no | YYYY-MM-DD or DD/MM/YYYY when the text gives a fixed date |
| due_date_raw | no | the date phrase exactly as written, e.g. "até 5 dias úteis após a homologação" |
| conditional | no | set when the obligation depends on a condition |
| dependencies | no | notes about what the item depends on |
| evidence_snippet | yes | at least 20 characters copied from the text |
| evidence_ref | no | page or section reference |
| confidence | yes | high, medium, low or uncertain |

Validation stops at the first invalid item and reports its index and field.

The server also:
- marks an item conditional when its text mentions terms such as "exceto", "salvo", "desde que", "caso", "mediante", "errata" or "anexo";
- lowers confidence to uncertain and adds a dependency note when a relative date cannot be resolved.
`,
	},
	{
		URI:         "docflow://docs/relative-dates",
		Name:        "docs_relative_dates",
		Title:       "Relative date resolution",
		Description: "Supported phrases, anchor matching and the resulting events.",
		Content: `# Relative dates

## Phrases

- ` + "`N dias após X`" + ` / ` + "`a partir de X`" + ` / ` + "`depois de X`" + ` / ` + "`contados da X`" + `: deadline N days after X.
- ` + "`até N dias após X`" + `: window from X to X + N; the timeline shows both the opening and the deadline.
- ` + "`N dias antes de X`" + `: deadline N days before X.
- Units: dias, dias úteis (skip weekends), dias corridos, horas / h.

The phrase is looked for in due_date_raw, then description, evidence and title.

## Anchors

X is matched against the other dated items:
1. a date written inside X is used directly;
2. otherwise the dated item sharing the most words with X wins, if the overlap is strong enough;
3. words like "edital", "publicação" or "divulgação" fall back to the document base date;
4. with no match the item stays undated and is flagged unresolved.

Items anchored on items that were themselves relative are resolved in later passes, so chains work in any order. Cycles stay unresolved.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
