package sqlite

import (
	"database/sql"

	"github.com/ganot/docflow/internal/calendar"
)

// Dates are stored as ISO text so that ORDER BY sorts them chronologically.

func dateValue(d *calendar.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanDate(s sql.NullString) *calendar.Date {
	if !s.Valid {
		return nil
	}
	return calendar.ParsePtr(s.String)
}
