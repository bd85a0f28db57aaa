package export

import (
	"strings"

	"github.com/ganot/docflow/internal/domain/item"
)

var checklistHeader = []string{
	"tipo", "titulo", "descricao", "prazo", "prazo_texto",
	"condicional", "dependencias", "confianca", "status", "evidencia",
}

// ChecklistCSV renders items as CSV. Every cell is quoted.
func ChecklistCSV(items []item.Item) string {
	var b strings.Builder
	writeRow(&b, checklistHeader)
	for _, it := range items {
		due := ""
		if it.DueDate != nil {
			due = it.DueDate.String()
		}
		conditional := "nao"
		if it.Conditional {
			conditional = "sim"
		}
		writeRow(&b, []string{
			string(it.Type),
			it.Title,
			it.Description,
			due,
			it.DueDateRaw,
			conditional,
			strings.Join(it.Dependencies, "; "),
			string(it.Confidence),
			string(it.Status),
			it.EvidenceSnippet,
		})
	}
	return b.String()
}

// ChecklistFilename returns the download name for a document checklist.
func ChecklistFilename(title string) string {
	return "DocFlow-" + slug(title) + ".csv"
}

func writeRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(c))
	}
	b.WriteString(crlf)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
