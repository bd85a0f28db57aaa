package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganot/docflow/internal/calendar"
	"github.com/ganot/docflow/internal/domain/item"
	"github.com/ganot/docflow/internal/relative"
	"github.com/ganot/docflow/internal/repository"
)

func newTestItem(id, title string, due *calendar.Date, status item.Status, source relative.Source, now time.Time) item.Item {
	return item.Item{
		ID:              id,
		Type:            item.TypeDeadline,
		Title:           title,
		Description:     "Descricao de " + title,
		DueDate:         due,
		Dependencies:    []string{},
		EvidenceSnippet: "Trecho do edital sobre " + title,
		Confidence:      relative.ConfidenceMedium,
		Status:          status,
		RelativeSource:  source,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestItemRepository_ReplaceAndGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertDocument(t, db, "d1", "tenant1")
	repo := NewItemRepository(db)

	due := calendar.New(2026, time.March, 11)
	start := calendar.New(2026, time.March, 1)
	now := time.Now()
	it := newTestItem("i1", "Impugnacao", &due, item.StatusPending, relative.SourceBaseDate, now)
	it.DueDateRaw = "ate 10 dias apos a publicacao"
	it.Conditional = true
	it.Dependencies = []string{"Possui clausula condicional no texto-fonte."}
	it.RelativeRule = relative.RuleWindowAfter
	it.RelativeAnchorText = "publicacao"
	it.RelativeWindowStart = &start

	require.NoError(t, repo.ReplaceForDocument(ctx, "tenant1", "d1", []item.Item{it}))

	got, err := repo.Get(ctx, "tenant1", "i1")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.DocumentID)
	assert.Equal(t, "tenant1", got.TenantID)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-03-11", got.DueDate.String())
	assert.True(t, got.Conditional)
	assert.Equal(t, it.Dependencies, got.Dependencies)
	assert.Equal(t, relative.RuleWindowAfter, got.RelativeRule)
	assert.Equal(t, "publicacao", got.RelativeAnchorText)
	require.NotNil(t, got.RelativeWindowStart)
	assert.Equal(t, "2026-03-01", got.RelativeWindowStart.String())
	assert.Equal(t, relative.SourceBaseDate, got.RelativeSource)

	_, err = repo.Get(ctx, "tenant2", "i1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	replacement := newTestItem("i2", "Recurso", nil, item.StatusPending, relative.SourceNone, now)
	require.NoError(t, repo.ReplaceForDocument(ctx, "tenant1", "d1", []item.Item{replacement}))

	_, err = repo.Get(ctx, "tenant1", "i1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	got, err = repo.Get(ctx, "tenant1", "i2")
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
	assert.Empty(t, got.Dependencies)
}

func TestItemRepository_ReplaceUnknownDocument(t *testing.T) {
	db := NewTestDB(t)
	repo := NewItemRepository(db)

	it := newTestItem("i1", "Recurso", nil, item.StatusPending, relative.SourceNone, time.Now())
	err := repo.ReplaceForDocument(context.Background(), "tenant1", "missing", []item.Item{it})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestItemRepository_ListOrderAndFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertDocument(t, db, "d1", "tenant1")
	repo := NewItemRepository(db)

	late := calendar.New(2026, time.May, 1)
	early := calendar.New(2026, time.April, 1)
	now := time.Now()
	undated := newTestItem("u", "Ler anexo", nil, item.StatusPending, relative.SourceNone, now)
	undated.Type = item.TypeWarning
	items := []item.Item{
		undated,
		newTestItem("l", "Resultado", &late, item.StatusDone, relative.SourceExplicitDate, now),
		newTestItem("e", "Inscricao", &early, item.StatusPending, relative.SourceExplicitDate, now),
	}
	require.NoError(t, repo.ReplaceForDocument(ctx, "tenant1", "d1", items))

	list, err := repo.List(ctx, "tenant1", item.ListOptions{DocumentID: "d1"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"e", "l", "u"}, []string{list[0].ID, list[1].ID, list[2].ID})

	pending := item.StatusPending
	list, err = repo.List(ctx, "tenant1", item.ListOptions{DocumentID: "d1", Status: &pending})
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = repo.List(ctx, "tenant1", item.ListOptions{Types: []item.Type{item.TypeWarning}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "u", list[0].ID)

	list, err = repo.List(ctx, "tenant1", item.ListOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = repo.List(ctx, "tenant2", item.ListOptions{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestItemRepository_UpdateStatus(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertDocument(t, db, "d1", "tenant1")
	repo := NewItemRepository(db)

	now := time.Now()
	require.NoError(t, repo.ReplaceForDocument(ctx, "tenant1", "d1", []item.Item{
		newTestItem("i1", "Recurso", nil, item.StatusPending, relative.SourceNone, now),
	}))

	require.NoError(t, repo.UpdateStatus(ctx, "tenant1", "i1", item.StatusDone, now.Add(time.Minute)))
	got, err := repo.Get(ctx, "tenant1", "i1")
	require.NoError(t, err)
	assert.Equal(t, item.StatusDone, got.Status)

	err = repo.UpdateStatus(ctx, "tenant2", "i1", item.StatusPending, now)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
