package timetable

import (
	"fmt"
	"time"

	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
)

// Parity is the odd/even classification of a teaching week.
type Parity int

const (
	ParityEven Parity = iota
	ParityOdd
)

// WeekParityOf classifies a week number. Any week whose remainder by two is
// non-zero is odd.
func WeekParityOf(week int) Parity {
	if week%2 != 0 {
		return ParityOdd
	}
	return ParityEven
}

func (p Parity) String() string {
	if p == ParityOdd {
		return "odd"
	}
	return "even"
}

// Adjective is the bare parity word, e.g. "нечётная".
func (p Parity) Adjective() string {
	if p == ParityOdd {
		return "нечётная"
	}
	return "чётная"
}

// Label is the full display label, e.g. "нечётная неделя".
func (p Parity) Label() string {
	return p.Adjective() + " неделя"
}

func (p Parity) dative() string {
	if p == ParityOdd {
		return "нечётным"
	}
	return "чётным"
}

// SemesterWeeks is the number of teaching weeks in a semester.
const SemesterWeeks = 18

// Semcode encodes a semester as year*10 + term, term 1 being autumn and 2 spring.
type Semcode int

// NewSemcode builds a semcode from its parts.
func NewSemcode(year, term int) Semcode {
	return Semcode(year*10 + term)
}

// Year of the semester start.
func (s Semcode) Year() int { return int(s) / 10 }

// Term is 1 for autumn and 2 for spring.
func (s Semcode) Term() int { return int(s) % 10 }

// Valid reports whether the term digit is 1 or 2.
func (s Semcode) Valid() bool {
	return s > 0 && (s.Term() == 1 || s.Term() == 2)
}

// CurrentSemcode returns the semester in force on today. July and August
// belong to the upcoming autumn term, January to the previous one.
func CurrentSemcode(today Date) Semcode {
	year := today.t.Year()
	switch month := today.t.Month(); {
	case month >= time.February && month <= time.June:
		return NewSemcode(year, 2)
	case month == time.January:
		return NewSemcode(year-1, 1)
	default:
		return NewSemcode(year, 1)
	}
}

// Semester is the concrete calendar span of a semcode.
type Semester struct {
	Code  Semcode `json:"semcode"`
	Start Date    `json:"start"`
	End   Date    `json:"end"`
}

// NewSemester resolves a semcode to its dates. Autumn starts on the first
// Monday on or after 1 September; spring one week after the first Monday on
// or after 1 February.
func NewSemester(code Semcode) (Semester, error) {
	if !code.Valid() {
		return Semester{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid semcode %d", code))
	}
	var start Date
	if code.Term() == 1 {
		start = firstMondayFrom(NewDate(code.Year(), time.September, 1))
	} else {
		start = firstMondayFrom(NewDate(code.Year(), time.February, 1)).AddDays(7)
	}
	return Semester{
		Code:  code,
		Start: start,
		End:   start.AddDays(SemesterWeeks*7 - 1),
	}, nil
}

// WeekOf returns the 1-based teaching week containing d.
func (s Semester) WeekOf(d Date) (int, bool) {
	if s.Start.IsZero() || d.Before(s.Start) || d.After(s.End) {
		return 0, false
	}
	return s.Start.DaysUntil(d)/7 + 1, true
}

// Range returns the semester as an enumerable date range.
func (s Semester) Range() DateRange {
	return DateRange{From: s.Start, To: s.End}
}

func firstMondayFrom(d Date) Date {
	offset := (8 - int(d.Weekday())) % 7
	return d.AddDays(offset)
}
