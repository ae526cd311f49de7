package timetable

import (
	"fmt"
	"slices"
	"strings"

	"github.com/noah-isme/timetable-view/internal/models"
	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
)

// SortColumn names a sortable free-slot column.
type SortColumn string

const (
	SortByDate     SortColumn = "date"
	SortByPair     SortColumn = "pair"
	SortByEntities SortColumn = "entities"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortColumn validates a column name; empty selects the date column.
func ParseSortColumn(raw string) (SortColumn, error) {
	switch col := SortColumn(strings.ToLower(strings.TrimSpace(raw))); col {
	case "":
		return SortByDate, nil
	case SortByDate, SortByPair, SortByEntities:
		return col, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown sort column %q", raw))
	}
}

// ParseSortDirection validates a direction; empty selects ascending.
func ParseSortDirection(raw string) (SortDirection, error) {
	switch dir := SortDirection(strings.ToLower(strings.TrimSpace(raw))); dir {
	case "":
		return SortAsc, nil
	case SortAsc, SortDesc:
		return dir, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown sort direction %q", raw))
	}
}

// SortState is the active ordering of the free-slot table.
type SortState struct {
	Column    SortColumn    `json:"sort"`
	Direction SortDirection `json:"order"`
}

// DefaultSortState orders by date ascending.
func DefaultSortState() SortState {
	return SortState{Column: SortByDate, Direction: SortAsc}
}

// Toggle applies a header selection: the active column flips direction, any
// other column becomes active in ascending order.
func (s SortState) Toggle(column SortColumn) SortState {
	if column == s.Column {
		if s.Direction == SortAsc {
			return SortState{Column: column, Direction: SortDesc}
		}
		return SortState{Column: column, Direction: SortAsc}
	}
	return SortState{Column: column, Direction: SortAsc}
}

// Apply sorts slots by the state.
func (s SortState) Apply(slots []models.CommonFreeSlot) []models.CommonFreeSlot {
	return SortSlots(slots, s.Column, s.Direction)
}

// Comparator returns a three-way comparison for the column and direction.
// Unknown columns compare everything equal.
func Comparator(column SortColumn, direction SortDirection) func(a, b models.CommonFreeSlot) int {
	var cmp func(a, b models.CommonFreeSlot) int
	switch column {
	case SortByDate:
		cmp = compareSlotDates
	case SortByPair:
		cmp = func(a, b models.CommonFreeSlot) int { return a.Pair - b.Pair }
	case SortByEntities:
		cmp = func(a, b models.CommonFreeSlot) int {
			return strings.Compare(strings.Join(a.Entities, ", "), strings.Join(b.Entities, ", "))
		}
	default:
		return func(models.CommonFreeSlot, models.CommonFreeSlot) int { return 0 }
	}
	if direction == SortDesc {
		return func(a, b models.CommonFreeSlot) int { return -cmp(a, b) }
	}
	return cmp
}

// SortSlots returns a stably sorted copy; the input is left untouched.
func SortSlots(slots []models.CommonFreeSlot, column SortColumn, direction SortDirection) []models.CommonFreeSlot {
	out := slices.Clone(slots)
	slices.SortStableFunc(out, Comparator(column, direction))
	return out
}

func compareSlotDates(a, b models.CommonFreeSlot) int {
	da, errA := ParseDate(a.Date)
	db, errB := ParseDate(b.Date)
	if errA != nil || errB != nil {
		return strings.Compare(a.Date, b.Date)
	}
	return da.Compare(db)
}
