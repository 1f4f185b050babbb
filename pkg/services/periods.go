package services

import (
	"fmt"
	"time"

	"github.com/dansfisica85/dalmaso/pkg/apperrors"
	"github.com/dansfisica85/dalmaso/pkg/models"
)

const dateLayout = "2006-01-02"

// ResolvePeriod maps a period type and reference date to an inclusive
// [start, end] range.
func ResolvePeriod(period models.PeriodType, ref time.Time) (models.DateRange, error) {
	ref = time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	var start, end time.Time
	switch period {
	case models.PeriodDay:
		start, end = ref, ref
	case models.PeriodWeek:
		// School week: Monday through Friday of the ISO week holding ref.
		daysSinceMonday := (int(ref.Weekday()) + 6) % 7
		start = ref.AddDate(0, 0, -daysSinceMonday)
		end = start.AddDate(0, 0, 4)
	case models.PeriodMonth:
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case models.PeriodBimester:
		// Fixed two-month windows: Jan-Feb, Mar-Apr, ..., Nov-Dec.
		firstMonth := time.Month((int(ref.Month())-1)/2*2 + 1)
		start = time.Date(ref.Year(), firstMonth, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 2, -1)
	case models.PeriodYear:
		start = time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return models.DateRange{}, fmt.Errorf("%w: unknown period %q", apperrors.ErrValidation, period)
	}

	return models.DateRange{
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
	}, nil
}
