// Package schedule implements the check-in schedule arithmetic: when a user's
// next check-in is due and how far past due they are, in the unit that their
// frequency's grace period is measured in (minutes for the five-minute test
// cadence, days for everything else).
package schedule

import (
	"time"

	"github.com/assetindex/asset-index/internal/models"
)

// Frequency is a check-in cadence. Values are the strings stored on the user
// record ("5 Minutes", "Weekly", "Monthly", "Yearly").
type Frequency string

const (
	FiveMinutes Frequency = models.FrequencyFiveMinutes
	Weekly      Frequency = models.FrequencyWeekly
	Monthly     Frequency = models.FrequencyMonthly
	Yearly      Frequency = models.FrequencyYearly
)

// NextDue returns the timestamp at which the next check-in is due.
// Monthly and Yearly use calendar arithmetic with the day-of-month clamped to
// the target month's length (Jan 31 + 1 month = Feb 28/29), which is why this
// does not use time.AddDate: AddDate normalizes overflow into the next month.
// An unrecognized frequency falls back to Monthly, matching the user model's
// column default.
func NextDue(lastCheckIn time.Time, f Frequency) time.Time {
	switch f {
	case FiveMinutes:
		return lastCheckIn.Add(5 * time.Minute)
	case Weekly:
		return lastCheckIn.AddDate(0, 0, 7)
	case Yearly:
		return addYears(lastCheckIn, 1)
	default:
		return addMonths(lastCheckIn, 1)
	}
}

// OverdueUnits returns how many whole grace units now is past due: minutes for
// FiveMinutes, days otherwise. Any fraction of a unit counts as a full unit
// (ceiling), so the grace boundary check errs toward acting earlier. Returns 0
// when now is not past due.
func OverdueUnits(now, due time.Time, f Frequency) int {
	elapsed := now.Sub(due)
	if elapsed <= 0 {
		return 0
	}

	unit := 24 * time.Hour
	if f == FiveMinutes {
		unit = time.Minute
	}

	units := elapsed / unit
	if elapsed%unit != 0 {
		units++
	}
	return int(units)
}

// GraceUnit names the unit a grace period is measured in for a frequency
func GraceUnit(f Frequency) string {
	if f == FiveMinutes {
		return "minutes"
	}
	return "days"
}

// addMonths advances t by the given number of calendar months, clamping the
// day-of-month to the length of the target month.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := year*12 + int(month) - 1 + months
	targetYear, targetMonth := total/12, time.Month(total%12+1)
	if last := daysIn(targetYear, targetMonth); day > last {
		day = last
	}
	return time.Date(targetYear, targetMonth, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// addYears advances t by whole years, clamping Feb 29 to Feb 28 off leap years
func addYears(t time.Time, years int) time.Time {
	year, month, day := t.Date()
	year += years
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
