package relative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganot/docflow/internal/calendar"
)

func mustDate(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, ok := calendar.Parse(s)
	require.True(t, ok, "invalid test date %q", s)
	return d
}

func byID(t *testing.T, res Result, id string) Resolved {
	t.Helper()
	for _, it := range res.Items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %q not in result", id)
	return Resolved{}
}

func TestResolve_AbsoluteDatesUnchanged(t *testing.T) {
	items := []Item{
		{ID: "a", Title: "Inscricoes", DueDate: "2026-03-01"},
		{ID: "b", Title: "Prova", DueDate: "12/04/2026"},
		{ID: "c", Title: "Enviar documentos"},
	}

	res := Resolve(items, nil)

	require.Len(t, res.Items, 3)
	assert.Equal(t, "2026-03-01", res.Items[0].Due.String())
	assert.Equal(t, SourceExplicitDate, res.Items[0].Source)
	assert.Equal(t, "2026-04-12", res.Items[1].Due.String())
	assert.Equal(t, "2026-04-12", res.Items[1].DueDate)
	assert.Nil(t, res.Items[2].Due)
	assert.Equal(t, SourceNone, res.Items[2].Source)

	again := Resolve([]Item{res.Items[0].Item, res.Items[1].Item}, nil)
	assert.Equal(t, "2026-03-01", again.Items[0].Due.String())
	assert.Equal(t, "2026-04-12", again.Items[1].Due.String())
	assert.Equal(t, SourceExplicitDate, again.Items[1].Source)
	assert.Equal(t, "12/04/2026", items[1].DueDate, "input must not be modified")
}

func TestResolve_RawBrazilianDate(t *testing.T) {
	res := Resolve([]Item{{ID: "a", Title: "Recurso", DueDateRaw: "15/03/2026"}}, nil)

	it := res.Items[0]
	require.NotNil(t, it.Due)
	assert.Equal(t, "2026-03-15", it.Due.String())
	assert.Equal(t, SourceExplicitDate, it.Source)
}

func TestResolve_BusinessDays(t *testing.T) {
	items := []Item{
		{ID: "b", Title: "Divulgação do gabarito", DueDate: "2026-01-02"},
		{ID: "a", Title: "Recurso contra o gabarito", DueDateRaw: "2 dias úteis após divulgação"},
	}

	it := byID(t, Resolve(items, nil), "a")

	require.NotNil(t, it.Due)
	assert.Equal(t, "2026-01-06", it.Due.String())
	assert.Equal(t, RuleAfter, it.Rule)
	assert.Equal(t, SourceAnchorItem, it.Source)
	assert.Nil(t, it.WindowStart)
}

func TestResolve_WindowRule(t *testing.T) {
	items := []Item{
		{ID: "a", Title: "Interpor recurso", DueDateRaw: "até 10 dias corridos após a divulgação do resultado"},
		{ID: "b", Title: "Divulgação do resultado", DueDate: "2026-02-01"},
	}

	it := byID(t, Resolve(items, nil), "a")

	require.NotNil(t, it.Due)
	assert.Equal(t, "2026-02-11", it.Due.String())
	require.NotNil(t, it.WindowStart)
	assert.Equal(t, "2026-02-01", it.WindowStart.String())
	assert.Equal(t, RuleWindowAfter, it.Rule)
	assert.Equal(t, "divulgacao do resultado", it.AnchorText)
}

func TestResolve_UnresolvableAnchor(t *testing.T) {
	items := []Item{
		{ID: "a", Title: "Credenciamento", DueDateRaw: "5 dias após a cerimônia de abertura"},
		{ID: "b", Title: "Prova objetiva", DueDate: "2026-04-12"},
		{ID: "c", Title: "Resultado final", DueDate: "2026-05-12"},
	}

	res := Resolve(items, nil)
	it := byID(t, res, "a")

	assert.Nil(t, it.Due)
	assert.Empty(t, it.DueDate)
	assert.Equal(t, SourceUnresolved, it.Source)
	assert.Equal(t, RuleAfter, it.Rule)
	assert.Equal(t, "cerimonia de abertura", it.AnchorText)
	require.Len(t, res.Unresolved(), 1)
	assert.Equal(t, "a", res.Unresolved()[0].ID)
}

func TestResolve_BaseDateFallback(t *testing.T) {
	base := mustDate(t, "2026-03-01")
	items := []Item{{ID: "a", Title: "Impugnação", Description: "até 10 dias após a publicação do edital"}}

	it := Resolve(items, &base).Items[0]

	require.NotNil(t, it.Due)
	assert.Equal(t, "2026-03-11", it.Due.String())
	assert.Equal(t, SourceBaseDate, it.Source)
	assert.Equal(t, "2026-03-01", it.WindowStart.String())
}

func TestResolve_ExplicitDateInAnchor(t *testing.T) {
	items := []Item{{ID: "a", Title: "Recurso", Description: "Recurso em 5 dias apos 10/03/2026"}}

	it := Resolve(items, nil).Items[0]

	require.NotNil(t, it.Due)
	assert.Equal(t, "2026-03-15", it.Due.String())
	assert.Equal(t, SourceExplicitDate, it.Source)
}

func TestResolve_ChainedAnchors(t *testing.T) {
	t.Run("direct anchor", func(t *testing.T) {
		items := []Item{
			{ID: "a", Title: "Prazo de recurso", DueDateRaw: "3 dias após a publicação"},
			{ID: "b", Title: "Publicação do resultado", DueDateRaw: "publicado em 10/05/2026"},
		}

		res := Resolve(items, nil)

		assert.Equal(t, "2026-05-10", byID(t, res, "b").Due.String())
		assert.Equal(t, "2026-05-13", byID(t, res, "a").Due.String())
		assert.LessOrEqual(t, res.Passes, len(items))
	})

	t.Run("anchor resolved in an earlier pass", func(t *testing.T) {
		items := []Item{
			{ID: "a", Title: "Recurso", DueDateRaw: "3 dias apos a publicacao da lista de inscritos"},
			{ID: "b", Title: "Publicacao da lista de inscritos", DueDateRaw: "5 dias apos a abertura das inscricoes"},
			{ID: "c", Title: "Abertura das inscricoes", DueDate: "2026-05-05"},
		}

		res := Resolve(items, nil)

		assert.Equal(t, "2026-05-10", byID(t, res, "b").Due.String())
		assert.Equal(t, "2026-05-13", byID(t, res, "a").Due.String())
		assert.Equal(t, SourceAnchorItem, byID(t, res, "a").Source)
		assert.GreaterOrEqual(t, res.Passes, 2)
		assert.LessOrEqual(t, res.Passes, len(items))
	})
}

func TestResolve_CycleTerminates(t *testing.T) {
	items := []Item{
		{ID: "a", Title: "Homologacao do resultado", DueDateRaw: "2 dias apos a entrega do recurso final"},
		{ID: "b", Title: "Entrega do recurso final", DueDateRaw: "3 dias apos a homologacao do resultado"},
	}

	res := Resolve(items, nil)

	assert.Equal(t, 1, res.Passes)
	for _, it := range res.Items {
		assert.Nil(t, it.Due)
		assert.Equal(t, SourceUnresolved, it.Source)
	}
}

func TestResolve_Empty(t *testing.T) {
	res := Resolve(nil, nil)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Passes)
}
