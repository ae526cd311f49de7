package timetable

import (
	"fmt"

	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
)

// Pair numbering of a teaching day.
const (
	MinPair = 1
	MaxPair = 7
)

type pairWindow struct {
	start, end string
}

var pairWindows = [MaxPair + 1]pairWindow{
	1: {"09:00", "10:30"},
	2: {"10:40", "12:10"},
	3: {"12:40", "14:10"},
	4: {"14:20", "15:50"},
	5: {"16:20", "17:50"},
	6: {"18:00", "19:30"},
	7: {"19:40", "21:10"},
}

// ValidPair reports whether p is a pair number of the teaching day.
func ValidPair(p int) bool {
	return p >= MinPair && p <= MaxPair
}

// PairTime returns the "HH:MM - HH:MM" label of a pair, or "" for an unknown pair.
func PairTime(p int) string {
	if !ValidPair(p) {
		return ""
	}
	w := pairWindows[p]
	return w.start + " - " + w.end
}

// PairByStart maps a "HH:MM" start time back to its pair number.
func PairByStart(start string) (int, bool) {
	for p := MinPair; p <= MaxPair; p++ {
		if pairWindows[p].start == start {
			return p, true
		}
	}
	return 0, false
}

// PairRange is an inclusive band of pairs.
type PairRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// NewPairRange validates a band of pairs.
func NewPairRange(min, max int) (PairRange, error) {
	if !ValidPair(min) || !ValidPair(max) {
		return PairRange{}, appErrors.Clone(appErrors.ErrInvalidRange, fmt.Sprintf("pairs must be within %d..%d", MinPair, MaxPair))
	}
	if min > max {
		return PairRange{}, appErrors.Clone(appErrors.ErrInvalidRange, fmt.Sprintf("min pair %d is greater than max pair %d", min, max))
	}
	return PairRange{Min: min, Max: max}, nil
}

// FullDay covers every pair of the day.
func FullDay() PairRange {
	return PairRange{Min: MinPair, Max: MaxPair}
}

// Contains reports whether p falls inside the band.
func (r PairRange) Contains(p int) bool {
	return ValidPair(p) && p >= r.Min && p <= r.Max
}

// Pairs lists the band in ascending order.
func (r PairRange) Pairs() []int {
	var out []int
	for p := r.Min; p <= r.Max; p++ {
		if ValidPair(p) {
			out = append(out, p)
		}
	}
	return out
}
