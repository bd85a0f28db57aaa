package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ganot/docflow/internal/domain/item"
)

// SearchRepository implements item.SearchRepository for SQLite
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search performs a full-text search over item titles, descriptions and
// evidence. An empty documentID searches all documents of the tenant.
func (r *SearchRepository) Search(ctx context.Context, tenantID, documentID, query string, opts item.SearchOptions) ([]item.SearchResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	baseQuery := `
		SELECT
			i.id, i.document_id, i.type, i.title, i.due_date, i.status, i.confidence,
			bm25(items_fts) as rank,
			snippet(items_fts, -1, '[', ']', '...', 12) as snippet
		FROM items_fts
		JOIN items i ON i.rowid = items_fts.rowid
		WHERE items_fts MATCH ? AND i.tenant_id = ?
	`

	args := []interface{}{match, tenantID}
	conditions := []string{}

	if documentID != "" {
		conditions = append(conditions, "i.document_id = ?")
		args = append(args, documentID)
	}
	if opts.Status != nil {
		conditions = append(conditions, "i.status = ?")
		args = append(args, *opts.Status)
	}
	if len(opts.Types) > 0 {
		placeholders := make([]string, len(opts.Types))
		for i, typ := range opts.Types {
			placeholders[i] = "?"
			args = append(args, typ)
		}
		conditions = append(conditions, fmt.Sprintf("i.type IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	baseQuery += " ORDER BY rank, i.position"

	if opts.Limit > 0 {
		baseQuery += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			baseQuery += " LIMIT -1"
		}
		baseQuery += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()

	var results []item.SearchResult
	for rows.Next() {
		var result item.SearchResult
		var dueDate sql.NullString
		err := rows.Scan(
			&result.Item.ID,
			&result.Item.DocumentID,
			&result.Item.Type,
			&result.Item.Title,
			&dueDate,
			&result.Item.Status,
			&result.Item.Confidence,
			&result.Rank,
			&result.Snippet,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		result.Item.DueDate = scanDate(dueDate)
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}

// ftsQuery quotes each word of q so that user input is never parsed as FTS5
// query syntax. Words are ANDed.
func ftsQuery(q string) string {
	words := strings.Fields(q)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ReplaceAll(w, `"`, "")
		if w == "" {
			continue
		}
		terms = append(terms, `"`+w+`"`)
	}
	return strings.Join(terms, " ")
}
