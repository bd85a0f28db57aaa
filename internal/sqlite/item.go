package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ganot/docflow/internal/domain/item"
	"github.com/ganot/docflow/internal/repository"
)

const itemColumns = `
	id, tenant_id, document_id, type, title, description,
	due_date, due_date_raw, conditional, dependencies,
	evidence_snippet, evidence_ref, confidence, status,
	relative_rule, relative_anchor_text, relative_window_start, relative_source,
	created_at, updated_at
`

// ItemRepository implements item.Repository for SQLite
type ItemRepository struct {
	db *DB
}

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// ReplaceForDocument deletes the current items of a document and inserts
// items in their place, in one transaction. Item order is kept as position.
func (r *ItemRepository) ReplaceForDocument(ctx context.Context, tenantID, documentID string, items []item.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM items WHERE document_id = ? AND tenant_id = ?`,
		documentID, tenantID,
	); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	query := `
		INSERT INTO items (
			id, tenant_id, document_id, position, type, title, description,
			due_date, due_date_raw, conditional, dependencies,
			evidence_snippet, evidence_ref, confidence, status,
			relative_rule, relative_anchor_text, relative_window_start, relative_source,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range items {
		deps, err := json.Marshal(nonNil(it.Dependencies))
		if err != nil {
			return fmt.Errorf("failed to encode dependencies: %w", err)
		}
		_, err = stmt.ExecContext(ctx,
			it.ID,
			tenantID,
			documentID,
			i,
			it.Type,
			it.Title,
			it.Description,
			dateValue(it.DueDate),
			it.DueDateRaw,
			it.Conditional,
			string(deps),
			it.EvidenceSnippet,
			it.EvidenceRef,
			it.Confidence,
			it.Status,
			it.RelativeRule,
			it.RelativeAnchorText,
			dateValue(it.RelativeWindowStart),
			it.RelativeSource,
			it.CreatedAt,
			it.UpdatedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Get retrieves an item by ID
func (r *ItemRepository) Get(ctx context.Context, tenantID, id string) (*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ? AND tenant_id = ?`

	it, err := scanItem(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return it, nil
}

// List returns items matching the options, dated items first in date order
// and undated ones in extraction order.
func (r *ItemRepository) List(ctx context.Context, tenantID string, opts item.ListOptions) ([]item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE tenant_id = ?`
	args := []interface{}{tenantID}
	conditions := []string{}

	if opts.DocumentID != "" {
		conditions = append(conditions, "document_id = ?")
		args = append(args, opts.DocumentID)
	}
	if opts.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *opts.Status)
	}
	if len(opts.Types) > 0 {
		placeholders := make([]string, len(opts.Types))
		for i, typ := range opts.Types {
			placeholders[i] = "?"
			args = append(args, typ)
		}
		conditions = append(conditions, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY due_date IS NULL, due_date, document_id, position"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []item.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// UpdateStatus sets the checklist status of an item
func (r *ItemRepository) UpdateStatus(ctx context.Context, tenantID, id string, status item.Status, updatedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ? WHERE id = ? AND tenant_id = ?`,
		status, updatedAt, id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*item.Item, error) {
	var it item.Item
	var dueDate, windowStart sql.NullString
	var deps string
	err := row.Scan(
		&it.ID,
		&it.TenantID,
		&it.DocumentID,
		&it.Type,
		&it.Title,
		&it.Description,
		&dueDate,
		&it.DueDateRaw,
		&it.Conditional,
		&deps,
		&it.EvidenceSnippet,
		&it.EvidenceRef,
		&it.Confidence,
		&it.Status,
		&it.RelativeRule,
		&it.RelativeAnchorText,
		&windowStart,
		&it.RelativeSource,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	it.DueDate = scanDate(dueDate)
	it.RelativeWindowStart = scanDate(windowStart)
	if err := json.Unmarshal([]byte(deps), &it.Dependencies); err != nil {
		return nil, fmt.Errorf("failed to decode dependencies: %w", err)
	}

	return &it, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
