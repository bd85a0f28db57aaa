package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/repository"
)

// DocumentRepository implements document.Repository for SQLite
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a new document
func (r *DocumentRepository) Create(ctx context.Context, tenantID string, doc *document.Document) error {
	query := `
		INSERT INTO documents (id, tenant_id, title, source_type, base_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		tenantID,
		doc.Title,
		doc.SourceType,
		dateValue(doc.BaseDate),
		doc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create document: %w", err)
	}

	doc.TenantID = tenantID
	return nil
}

// Get retrieves a document by ID
func (r *DocumentRepository) Get(ctx context.Context, tenantID, id string) (*document.Document, error) {
	query := `
		SELECT id, tenant_id, title, source_type, base_date, created_at
		FROM documents
		WHERE id = ? AND tenant_id = ?
	`

	var doc document.Document
	var baseDate sql.NullString
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&doc.ID,
		&doc.TenantID,
		&doc.Title,
		&doc.SourceType,
		&baseDate,
		&doc.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	doc.BaseDate = scanDate(baseDate)

	return &doc, nil
}

// List returns all documents for a tenant with item counts, newest first
func (r *DocumentRepository) List(ctx context.Context, tenantID string) ([]document.DocumentSummary, error) {
	query := `
		SELECT
			d.id,
			d.title,
			d.source_type,
			d.base_date,
			d.created_at,
			COUNT(i.id) as item_count,
			COUNT(CASE WHEN i.status = 'done' THEN 1 END) as done_count,
			COUNT(i.due_date) as dated_count,
			COUNT(CASE WHEN i.relative_source = 'unresolved' THEN 1 END) as unresolved_count
		FROM documents d
		LEFT JOIN items i ON i.document_id = d.id AND i.tenant_id = d.tenant_id
		WHERE d.tenant_id = ?
		GROUP BY d.id, d.title, d.source_type, d.base_date, d.created_at
		ORDER BY d.created_at DESC, d.id
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var summaries []document.DocumentSummary
	for rows.Next() {
		var summary document.DocumentSummary
		var baseDate sql.NullString
		err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.SourceType,
			&baseDate,
			&summary.CreatedAt,
			&summary.ItemCount,
			&summary.DoneCount,
			&summary.DatedCount,
			&summary.UnresolvedCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document summary: %w", err)
		}
		summary.BaseDate = scanDate(baseDate)
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}

	return summaries, nil
}
