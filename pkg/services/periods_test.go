package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
	"github.com/dansfisica85/dalmaso/pkg/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name      string
		period    models.PeriodType
		ref       time.Time
		wantStart string
		wantEnd   string
	}{
		{"day", models.PeriodDay, date(2025, time.August, 20), "2025-08-20", "2025-08-20"},
		{"week from wednesday", models.PeriodWeek, date(2025, time.August, 20), "2025-08-18", "2025-08-22"},
		{"week from monday", models.PeriodWeek, date(2025, time.August, 18), "2025-08-18", "2025-08-22"},
		{"week from sunday", models.PeriodWeek, date(2025, time.August, 24), "2025-08-18", "2025-08-22"},
		{"month", models.PeriodMonth, date(2025, time.February, 10), "2025-02-01", "2025-02-28"},
		{"bimester july-august", models.PeriodBimester, date(2025, time.August, 31), "2025-07-01", "2025-08-31"},
		{"bimester january-february", models.PeriodBimester, date(2025, time.January, 1), "2025-01-01", "2025-02-28"},
		{"bimester november-december", models.PeriodBimester, date(2025, time.December, 25), "2025-11-01", "2025-12-31"},
		{"year", models.PeriodYear, date(2025, time.June, 15), "2025-01-01", "2025-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePeriod(tt.period, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantEnd, got.End)
		})
	}
}

func TestResolvePeriod_UnknownPeriod(t *testing.T) {
	_, err := ResolvePeriod(models.PeriodType("trimestre"), date(2025, time.August, 20))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestResolvePeriod_TimeOfDayIgnored(t *testing.T) {
	ref := time.Date(2025, time.August, 20, 23, 59, 0, 0, time.UTC)
	got, err := ResolvePeriod(models.PeriodDay, ref)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-20", got.Start)
}
