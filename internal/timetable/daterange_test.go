package timetable

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
)

func TestDateRangeSkipsRestDay(t *testing.T) {
	r, err := NewDateRange(MustParseDate("2024-03-04"), MustParseDate("2024-03-17"))
	require.NoError(t, err)

	dates := r.Dates()
	assert.Len(t, dates, 12)
	assert.Equal(t, 12, r.Len())
	assert.Equal(t, "2024-03-04", dates[0].String())
	assert.Equal(t, "2024-03-16", dates[len(dates)-1].String())
	for _, d := range dates {
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
}

func TestDateRangeLengthMatchesCalendarSpan(t *testing.T) {
	base := MustParseDate("2024-02-26")
	for offset := 0; offset < 14; offset++ {
		for span := 1; span <= 40; span++ {
			from := base.AddDays(offset)
			to := from.AddDays(span - 1)
			r, err := NewDateRange(from, to)
			require.NoError(t, err)

			sundays := 0
			for d := from; !d.After(to); d = d.AddDays(1) {
				if d.Weekday() == time.Sunday {
					sundays++
				}
			}
			dates := r.Dates()
			assert.Equal(t, span-sundays, len(dates), "from %s span %d", from, span)
			assert.Equal(t, len(dates), r.Len(), "from %s span %d", from, span)
		}
	}
}

func TestDateRangeOnlyRestDayIsEmpty(t *testing.T) {
	sunday := MustParseDate("2024-03-10")
	r, err := NewDateRange(sunday, sunday)
	require.NoError(t, err)
	assert.Empty(t, r.Dates())
	assert.Zero(t, r.Len())
	assert.False(t, r.Contains(sunday))
}

func TestNewDateRangeRejectsInvertedBounds(t *testing.T) {
	_, err := NewDateRange(MustParseDate("2024-03-05"), MustParseDate("2024-03-04"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidRange))

	_, err = NewDateRange(Date{}, MustParseDate("2024-03-04"))
	require.Error(t, err)
}

func TestDateRangeLiteralInvertedEnumeratesNothing(t *testing.T) {
	r := DateRange{From: MustParseDate("2024-03-05"), To: MustParseDate("2024-03-04")}
	assert.Empty(t, r.Dates())
	assert.Zero(t, r.Len())
	assert.Empty(t, DateRange{}.Dates())
}

func TestDateRangeIsRestartable(t *testing.T) {
	r, err := ParseDateRange("2024-03-01", "2024-03-06")
	require.NoError(t, err)

	first := r.Dates()
	second := r.Dates()
	assert.Equal(t, first, second)

	var seen []string
	for d := range r.All() {
		seen = append(seen, d.String())
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"2024-03-01", "2024-03-02"}, seen)
}

func TestDateRangeCrossesMonthAndYear(t *testing.T) {
	r, err := ParseDateRange("2024-12-30", "2025-01-02")
	require.NoError(t, err)
	var got []string
	for _, d := range r.Dates() {
		got = append(got, d.String())
	}
	assert.Equal(t, []string{"2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02"}, got)
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("2024-13-01")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDateTextRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2024-03-04")))
	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", string(out))
	assert.Equal(t, time.Monday, d.Weekday())
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	late := time.Date(2024, time.March, 4, 23, 30, 0, 0, loc)
	assert.Equal(t, "2024-03-04", DateOf(late).String())
}
