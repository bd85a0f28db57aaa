package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ganot/docflow/internal/calendar"
	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/repository"
)

const minTitleChars = 3

// Service handles document operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
}

// NewService creates a new document service.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger}
}

// CreateRequest defines document creation inputs. BaseDate accepts
// YYYY-MM-DD or DD/MM/YYYY and may be empty.
type CreateRequest struct {
	Title      string
	SourceType SourceType
	BaseDate   string
}

// Create validates and stores a new document.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Document, error) {
	title := strings.TrimSpace(req.Title)
	if utf8.RuneCountInString(title) < minTitleChars {
		return nil, fmt.Errorf("%w: title must have at least %d characters", ErrInvalidInput, minTitleChars)
	}

	source := req.SourceType
	switch source {
	case "":
		source = SourcePasted
	case SourcePDF, SourcePasted:
	default:
		return nil, fmt.Errorf("%w: unknown source type %q", ErrInvalidInput, source)
	}

	var base *calendar.Date
	if strings.TrimSpace(req.BaseDate) != "" {
		base = calendar.ParsePtr(req.BaseDate)
		if base == nil {
			return nil, fmt.Errorf("%w: %w %q", ErrInvalidInput, ErrInvalidBaseDate, req.BaseDate)
		}
	}

	doc := &Document{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Title:      title,
		SourceType: source,
		BaseDate:   base,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, tenantID, doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, tenantID, &activity.ActivityEntry{
			DocumentID:   doc.ID,
			ActivityType: activity.TypeDocumentCreated,
			Summary:      fmt.Sprintf("created document %q", doc.Title),
		})
	}

	return doc, nil
}

// Get fetches a document by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Document, error) {
	doc, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}

// List returns document summaries, newest first.
func (s *Service) List(ctx context.Context, tenantID string) ([]DocumentSummary, error) {
	return s.repo.List(ctx, tenantID)
}
