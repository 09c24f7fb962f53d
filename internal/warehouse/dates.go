package warehouse

import (
	"context"
	"fmt"
	"time"
)

// DateRowFor derives the full date dimension row for a calendar day.
// Day-of-week follows the 0=Monday convention of the reporting schema.
func DateRowFor(day time.Time) DateRow {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	weekday := (int(day.Weekday()) + 6) % 7
	_, week := day.ISOWeek()
	month := int(day.Month())

	return DateRow{
		Day:          day,
		Year:         day.Year(),
		Quarter:      (month-1)/3 + 1,
		Month:        month,
		Week:         week,
		DayOfMonth:   day.Day(),
		DayOfWeek:    weekday,
		DayName:      day.Weekday().String(),
		IsWeekend:    weekday >= 5,
		IsQuarterEnd: isQuarterEnd(day),
		IsYearEnd:    month == 12 && day.Day() == 31,
	}
}

func isQuarterEnd(day time.Time) bool {
	switch day.Month() {
	case time.March:
		return day.Day() == 31
	case time.June, time.September:
		return day.Day() == 30
	case time.December:
		return day.Day() == 31
	default:
		return false
	}
}

// EnsureDateRange pre-populates the date dimension for [from, to] inclusive.
// Existing days are left untouched, so the range can overlap prior runs.
func EnsureDateRange(ctx context.Context, store Store, from, to time.Time) error {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return fmt.Errorf("invalid date range: %s after %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var rows []DateRow
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		rows = append(rows, DateRowFor(day))
	}

	return store.InsertDates(ctx, rows)
}
