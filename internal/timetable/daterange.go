package timetable

import (
	"fmt"
	"iter"
	"slices"
	"time"

	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
)

// RestDay is the weekday on which no lessons are held; it never appears in an enumeration.
const RestDay = time.Sunday

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewDateRange validates the bounds. An end before the start is a contract
// violation and is rejected rather than silently enumerating nothing.
func NewDateRange(from, to Date) (DateRange, error) {
	if from.IsZero() || to.IsZero() {
		return DateRange{}, appErrors.Clone(appErrors.ErrInvalidRange, "date range requires both bounds")
	}
	if to.Before(from) {
		return DateRange{}, appErrors.Clone(appErrors.ErrInvalidRange, fmt.Sprintf("date range end %s is before start %s", to, from))
	}
	return DateRange{From: from, To: to}, nil
}

// ParseDateRange parses two ISO dates into a validated range.
func ParseDateRange(from, to string) (DateRange, error) {
	start, err := ParseDate(from)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(start, end)
}

// All yields every day from From to To inclusive, skipping RestDay. The
// sequence is empty when the range is inverted or unset, and can be ranged
// over any number of times.
func (r DateRange) All() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		if r.From.IsZero() || r.To.IsZero() {
			return
		}
		for d := r.From; !d.After(r.To); d = d.AddDays(1) {
			if d.Weekday() == RestDay {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Dates collects All into a slice.
func (r DateRange) Dates() []Date {
	return slices.Collect(r.All())
}

// Len returns the number of enumerated days without materialising them.
func (r DateRange) Len() int {
	if r.From.IsZero() || r.To.IsZero() || r.To.Before(r.From) {
		return 0
	}
	span := r.From.DaysUntil(r.To) + 1
	return span - countWeekday(r.From, span, RestDay)
}

// Contains reports whether d would be yielded by All.
func (r DateRange) Contains(d Date) bool {
	if r.From.IsZero() || r.To.IsZero() {
		return false
	}
	return !d.Before(r.From) && !d.After(r.To) && d.Weekday() != RestDay
}

func countWeekday(start Date, span int, wd time.Weekday) int {
	offset := (int(wd) - int(start.Weekday()) + 7) % 7
	if offset >= span {
		return 0
	}
	return (span-offset-1)/7 + 1
}
