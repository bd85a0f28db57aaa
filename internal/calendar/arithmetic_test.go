package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddDays(t *testing.T) {
	base := New(2026, time.February, 1)

	assert.Equal(t, "2026-02-11", base.AddDays(10).String())
	assert.Equal(t, "2026-01-29", base.AddDays(-3).String())
	assert.Equal(t, "2026-03-01", New(2026, time.February, 28).AddDays(1).String())
	assert.Equal(t, "2028-02-29", New(2028, time.February, 28).AddDays(1).String())
}

func TestAddBusinessDays(t *testing.T) {
	friday := New(2026, time.January, 2)

	tests := []struct {
		name string
		from Date
		n    int
		want string
	}{
		{"skips weekend", friday, 2, "2026-01-06"},
		{"one from friday", friday, 1, "2026-01-05"},
		{"zero", friday, 0, "2026-01-02"},
		{"backwards over weekend", New(2026, time.January, 5), -1, "2026-01-02"},
		{"starting on saturday", New(2026, time.January, 3), 1, "2026-01-05"},
		{"full week", New(2026, time.January, 5), 5, "2026-01-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.AddBusinessDays(tt.n).String())
		})
	}
}

func TestAddHours(t *testing.T) {
	base := New(2026, time.March, 10)

	assert.Equal(t, "2026-03-11", base.AddHours(48-24).String())
	assert.Equal(t, "2026-03-12", base.AddHours(48).String())
	assert.Equal(t, "2026-03-10", base.AddHours(23).String())
	assert.Equal(t, "2026-03-09", base.AddHours(-1).String())
}
