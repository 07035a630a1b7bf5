// Package scheduler computes next-run times for the small schedule
// expression language used by the prefetcher (@every plus the named
// shortcuts).
package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextRun parses a schedule expression and returns the next run time from
// baseTime. Supported: @every <duration>, @hourly, @daily, @weekly,
// @monthly, @yearly.
func NextRun(expr string, baseTime time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "@") {
		return time.Time{}, fmt.Errorf("unsupported schedule expression: %s", expr)
	}

	switch {
	case expr == "@yearly" || expr == "@annually":
		return time.Date(baseTime.Year()+1, 1, 1, 0, 0, 0, 0, baseTime.Location()), nil
	case expr == "@monthly":
		return nextMonth(baseTime), nil
	case expr == "@weekly":
		return nextWeek(baseTime), nil
	case expr == "@daily":
		return time.Date(baseTime.Year(), baseTime.Month(), baseTime.Day()+1, 0, 0, 0, 0, baseTime.Location()), nil
	case expr == "@hourly":
		return baseTime.Add(time.Hour).Truncate(time.Hour), nil
	case strings.HasPrefix(expr, "@every "):
		d, err := parseEveryDuration(strings.TrimPrefix(expr, "@every "))
		if err != nil {
			return time.Time{}, err
		}
		return baseTime.Add(d), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported schedule expression: %s", expr)
	}
}

// Validate checks a schedule expression without computing a run time.
func Validate(expr string) error {
	_, err := NextRun(expr, time.Now())
	return err
}

// parseEveryDuration handles "30s", "2m", "1h" and the "7d" day suffix
// that time.ParseDuration rejects.
func parseEveryDuration(duration string) (time.Duration, error) {
	if strings.HasSuffix(duration, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(duration, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", duration)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(duration)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %s", duration)
	}
	return d, nil
}

func nextMonth(t time.Time) time.Time {
	year := t.Year()
	month := t.Month() + 1
	if month > 12 {
		month = 1
		year++
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

func nextWeek(t time.Time) time.Time {
	daysUntilSunday := (7 - int(t.Weekday())) % 7
	if daysUntilSunday == 0 {
		daysUntilSunday = 7
	}
	return time.Date(t.Year(), t.Month(), t.Day()+daysUntilSunday, 0, 0, 0, 0, t.Location())
}
