package item_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ganot/docflow/internal/calendar"
	"github.com/ganot/docflow/internal/domain/activity"
	"github.com/ganot/docflow/internal/domain/document"
	"github.com/ganot/docflow/internal/domain/item"
	"github.com/ganot/docflow/internal/events"
	"github.com/ganot/docflow/internal/relative"
	"github.com/ganot/docflow/internal/repository"
	"github.com/ganot/docflow/internal/repository/mocks"
)

func TestItemService_Ingest(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"
	base := calendar.New(2026, time.February, 1)

	docs := &mocks.DocumentRepository{}
	items := &mocks.ItemRepository{}
	activities := &mocks.ActivityRepository{}

	docs.On("Get", ctx, tenantID, "doc1").Return(&document.Document{ID: "doc1", TenantID: tenantID, BaseDate: &base}, nil)
	items.On("ReplaceForDocument", ctx, tenantID, "doc1", mock.Anything).Return(nil)
	activities.On("Log", ctx, tenantID, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeItemsIngested && e.DocumentID == "doc1"
	})).Return(nil)

	svc := item.NewService(items, docs, activities, nil, nil)
	res, err := svc.Ingest(ctx, tenantID, item.IngestRequest{
		DocumentID: "doc1",
		Drafts: []item.Draft{
			draft("1", "Interpor recurso", "até 10 dias corridos após a divulgação do resultado"),
			draft("2", "Divulgação do resultado", "2026-02-05"),
			draft("3", "Credenciamento", "5 dias após a cerimônia oficial de abertura"),
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)

	for _, it := range res.Items {
		assert.NotContains(t, []string{"1", "2", "3"}, it.ID)
		assert.Equal(t, "doc1", it.DocumentID)
		assert.Equal(t, tenantID, it.TenantID)
	}
	assert.Equal(t, "2026-02-15", res.Items[0].DueDate.String())
	assert.Nil(t, res.Items[2].DueDate)

	assert.Equal(t, 3, res.Summary.Total)
	assert.Equal(t, 2, res.Summary.Dated)
	assert.Equal(t, 1, res.Summary.Explicit)
	assert.Equal(t, 1, res.Summary.Anchored)
	assert.Equal(t, 1, res.Summary.Unresolved)
	assert.True(t, res.Summary.NeedsBaseDate)

	items.AssertExpectations(t)
	activities.AssertExpectations(t)
}

func TestItemService_Ingest_Errors(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	docs := &mocks.DocumentRepository{}
	docs.On("Get", ctx, tenantID, "missing").Return((*document.Document)(nil), repository.ErrNotFound)
	docs.On("Get", ctx, tenantID, "doc1").Return(&document.Document{ID: "doc1"}, nil)

	svc := item.NewService(&mocks.ItemRepository{}, docs, nil, nil, nil)

	_, err := svc.Ingest(ctx, tenantID, item.IngestRequest{DocumentID: "missing", Drafts: []item.Draft{draft("1", "A", "")}})
	require.ErrorIs(t, err, document.ErrDocumentNotFound)

	_, err = svc.Ingest(ctx, tenantID, item.IngestRequest{DocumentID: "doc1"})
	require.ErrorIs(t, err, item.ErrInvalidInput)

	_, err = svc.Ingest(ctx, tenantID, item.IngestRequest{})
	require.ErrorIs(t, err, item.ErrInvalidInput)
}

func TestItemService_SetStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	items := &mocks.ItemRepository{}
	activities := &mocks.ActivityRepository{}
	items.On("Get", ctx, tenantID, "i1").Return(&item.Item{ID: "i1", DocumentID: "doc1", Status: item.StatusPending}, nil)
	items.On("UpdateStatus", ctx, tenantID, "i1", item.StatusDone, mock.AnythingOfType("time.Time")).Return(nil)
	activities.On("Log", ctx, tenantID, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeItemStatusChanged && e.ItemID != nil && *e.ItemID == "i1"
	})).Return(nil)

	svc := item.NewService(items, &mocks.DocumentRepository{}, activities, nil, nil)

	updated, err := svc.SetStatus(ctx, tenantID, "i1", item.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, item.StatusDone, updated.Status)
	activities.AssertExpectations(t)

	_, err = svc.SetStatus(ctx, tenantID, "i1", "archived")
	require.ErrorIs(t, err, item.ErrInvalidStatus)
}

func TestItemService_SetStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	items := &mocks.ItemRepository{}
	items.On("Get", ctx, "tenant1", "nope").Return((*item.Item)(nil), repository.ErrNotFound)

	svc := item.NewService(items, &mocks.DocumentRepository{}, nil, nil, nil)
	_, err := svc.SetStatus(ctx, "tenant1", "nope", item.StatusDone)
	require.ErrorIs(t, err, item.ErrItemNotFound)
}

func TestItemService_Timeline(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"
	start := calendar.New(2026, time.February, 1)
	due := calendar.New(2026, time.February, 11)

	docs := &mocks.DocumentRepository{}
	items := &mocks.ItemRepository{}
	docs.On("Get", ctx, tenantID, "doc1").Return(&document.Document{ID: "doc1", Title: "Edital 01/2026"}, nil)
	items.On("List", ctx, tenantID, item.ListOptions{DocumentID: "doc1"}).Return([]item.Item{
		{
			ID:                  "i1",
			Title:               "Interpor recurso",
			DueDate:             &due,
			DueDateRaw:          "ate 10 dias corridos apos a divulgacao do resultado",
			Confidence:          relative.ConfidenceMedium,
			RelativeRule:        relative.RuleWindowAfter,
			RelativeWindowStart: &start,
			RelativeSource:      relative.SourceAnchorItem,
		},
		{ID: "i2", Title: "Sem data", RelativeSource: relative.SourceNone},
	}, nil)

	svc := item.NewService(items, docs, nil, nil, nil)
	doc, evs, err := svc.Timeline(ctx, tenantID, "doc1")
	require.NoError(t, err)
	assert.Equal(t, "Edital 01/2026", doc.Title)
	require.Len(t, evs, 2)
	assert.Equal(t, events.KindWindowStart, evs[0].Kind)
	assert.Equal(t, "i1-window-start", evs[0].ID)
	assert.Equal(t, events.KindDeadline, evs[1].Kind)
}

func TestItemService_Search(t *testing.T) {
	ctx := context.Background()
	search := &mocks.SearchRepository{}
	search.On("Search", ctx, "tenant1", "doc1", "recurso", item.SearchOptions{Limit: 5}).
		Return([]item.SearchResult{{Item: item.ItemRef{ID: "i1"}}}, nil)

	svc := item.NewService(&mocks.ItemRepository{}, &mocks.DocumentRepository{}, nil, search, nil)

	results, err := svc.Search(ctx, "tenant1", "doc1", "recurso", item.SearchOptions{Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)

	_, err = svc.Search(ctx, "tenant1", "doc1", "", item.SearchOptions{})
	require.ErrorIs(t, err, item.ErrInvalidInput)
}

func TestResolve_Stateless(t *testing.T) {
	base := calendar.New(2026, time.March, 1)

	items, summary, err := item.Resolve([]item.Draft{
		draft("1", "Impugnação do edital", "até 10 dias após a publicação do edital"),
		draft("2", "Inscrições", "15/03/2026"),
	}, &base)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "1", items[0].ID, "upstream ids are kept when nothing is stored")
	assert.Equal(t, "2026-03-11", items[0].DueDate.String())
	assert.Equal(t, relative.SourceBaseDate, items[0].RelativeSource)
	assert.Equal(t, 1, summary.FromBase)
	assert.Equal(t, 1, summary.Explicit)

	evs := item.Events(items)
	require.Len(t, evs, 3)
	assert.Equal(t, events.KindWindowStart, evs[0].Kind)
	assert.Equal(t, "2026-03-01", evs[0].DueDate.String())

	_, _, err = item.Resolve(nil, nil)
	require.ErrorIs(t, err, item.ErrInvalidInput)
}

func TestParseBaseDate(t *testing.T) {
	d, err := item.ParseBaseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = item.ParseBaseDate("05/01/2026")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", d.String())

	_, err = item.ParseBaseDate("2026-13-01")
	require.ErrorIs(t, err, item.ErrInvalidInput)
	require.ErrorIs(t, err, document.ErrInvalidBaseDate)
}
