package timetable

import (
	"strings"

	"github.com/noah-isme/timetable-view/internal/models"
)

// CellStatus classifies a grid cell.
type CellStatus string

const (
	CellBusy CellStatus = "busy"
	CellFree CellStatus = "free"
)

// LessonKind is the display class of a lesson type code.
type LessonKind string

const (
	LessonLecture  LessonKind = "lecture"
	LessonPractice LessonKind = "practice"
	LessonLab      LessonKind = "lab"
	LessonExam     LessonKind = "exam"
)

// LessonKindOf maps a short lesson type code to its class. Unknown or empty
// codes are treated as practice.
func LessonKindOf(code string) LessonKind {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "ЛК":
		return LessonLecture
	case "ЛАБ":
		return LessonLab
	case "ЭКЗ", "ЗАЧ", "КР":
		return LessonExam
	default:
		return LessonPractice
	}
}

// Filter is one active filter: a category and the entities chosen through it.
type Filter struct {
	Category models.EntityCategory `json:"type"`
	Values   []string              `json:"values"`
}

// FilterSet is the ordered list of active filters.
type FilterSet []Filter

// FilterSetFromRefs groups entity refs by category, keeping first-seen order.
func FilterSetFromRefs(refs []models.EntityRef) FilterSet {
	var fs FilterSet
	index := make(map[models.EntityCategory]int)
	for _, ref := range refs {
		i, ok := index[ref.Category]
		if !ok {
			i = len(fs)
			index[ref.Category] = i
			fs = append(fs, Filter{Category: ref.Category})
		}
		fs[i].Values = append(fs[i].Values, ref.Name)
	}
	return fs
}

// CategoryOf finds the first filter listing entity. Entities listed nowhere
// resolve to EntityCategoryUnknown.
func (fs FilterSet) CategoryOf(entity string) models.EntityCategory {
	for _, f := range fs {
		for _, v := range f.Values {
			if v == entity {
				return f.Category
			}
		}
	}
	return models.EntityCategoryUnknown
}

// Entities returns every selected entity once, in filter order.
func (fs FilterSet) Entities() []string {
	var names []string
	for _, f := range fs {
		names = append(names, f.Values...)
	}
	return uniqueNames(names)
}

// GridEntity is a grid column.
type GridEntity struct {
	Name     string                `json:"name"`
	Category models.EntityCategory `json:"category"`
}

// GridCell is the state of one entity at one (date, pair).
type GridCell struct {
	Entity string                `json:"entity"`
	Status CellStatus            `json:"status"`
	Entry  *models.ScheduleEntry `json:"entry,omitempty"`
	Kind   LessonKind            `json:"kind,omitempty"`
	// LessonID is set only when the source supplied one.
	LessonID     *int64 `json:"lessonId,omitempty"`
	Unidentified bool   `json:"unidentified,omitempty"`
	ShowGroups   bool   `json:"showGroups,omitempty"`
}

// GridRow is one pair of one day across every entity.
type GridRow struct {
	Pair     int        `json:"pair"`
	PairTime string     `json:"pairTime"`
	AllFree  bool       `json:"allFree"`
	Cells    []GridCell `json:"cells"`
}

// GridDay groups the rows of a date.
type GridDay struct {
	Date    Date      `json:"date"`
	Weekday string    `json:"weekday"`
	Week    int       `json:"week,omitempty"`
	Parity  string    `json:"parity,omitempty"`
	Rows    []GridRow `json:"rows"`
}

// Grid is the date × pair × entity busy/free matrix.
type Grid struct {
	Entities []GridEntity `json:"entities"`
	Days     []GridDay    `json:"days"`
}

// Empty reports whether there is nothing to show.
func (g Grid) Empty() bool {
	return len(g.Entities) == 0 || len(g.Days) == 0
}

// BusyCells counts busy cells in the grid.
func (g Grid) BusyCells() int {
	n := 0
	for _, day := range g.Days {
		for _, row := range day.Rows {
			for _, cell := range row.Cells {
				if cell.Status == CellBusy {
					n++
				}
			}
		}
	}
	return n
}

// Unidentified returns the cells whose lesson has no stable id.
func (g Grid) Unidentified() []GridCell {
	var out []GridCell
	for _, day := range g.Days {
		for _, row := range day.Rows {
			for _, cell := range row.Cells {
				if cell.Unidentified {
					out = append(out, cell)
				}
			}
		}
	}
	return out
}

type gridOptions struct {
	semester *Semester
}

// GridOption tunes BuildGrid.
type GridOption func(*gridOptions)

// WithSemester annotates each day with its teaching week and parity.
func WithSemester(s Semester) GridOption {
	return func(o *gridOptions) {
		o.semester = &s
	}
}

// BuildGrid lays out every entity against every enumerated date and pair.
// Entities keep their given order with duplicates dropped; the pair domain is
// always the full day.
func BuildGrid(entities []string, dates DateRange, schedules models.EntitySchedule, filters FilterSet, opts ...GridOption) Grid {
	var o gridOptions
	for _, opt := range opts {
		opt(&o)
	}

	names := uniqueNames(entities)
	grid := Grid{Entities: make([]GridEntity, 0, len(names)), Days: make([]GridDay, 0, dates.Len())}
	for _, name := range names {
		grid.Entities = append(grid.Entities, GridEntity{Name: name, Category: filters.CategoryOf(name)})
	}
	if len(names) == 0 {
		return grid
	}

	for date := range dates.All() {
		day := GridDay{
			Date:    date,
			Weekday: WeekdayLabel(date.Weekday()),
			Rows:    make([]GridRow, 0, MaxPair),
		}
		if o.semester != nil {
			if week, ok := o.semester.WeekOf(date); ok {
				day.Week = week
				day.Parity = WeekParityOf(week).Label()
			}
		}
		iso := date.String()
		for pair := MinPair; pair <= MaxPair; pair++ {
			row := GridRow{Pair: pair, PairTime: PairTime(pair), AllFree: true, Cells: make([]GridCell, 0, len(names))}
			for _, entity := range grid.Entities {
				cell := buildCell(entity, schedules, iso, pair)
				if cell.Status == CellBusy {
					row.AllFree = false
				}
				row.Cells = append(row.Cells, cell)
			}
			day.Rows = append(day.Rows, row)
		}
		grid.Days = append(grid.Days, day)
	}
	return grid
}

func buildCell(entity GridEntity, schedules models.EntitySchedule, date string, pair int) GridCell {
	entry, ok := schedules.Lookup(entity.Name, date, pair)
	if !ok {
		return GridCell{Entity: entity.Name, Status: CellFree}
	}
	cell := GridCell{
		Entity: entity.Name,
		Status: CellBusy,
		Entry:  &entry,
		Kind:   LessonKindOf(entry.LessonType),
		// a group's own column already names the group
		ShowGroups: entity.Category == models.EntityCategoryTeacher || entity.Category == models.EntityCategoryRoom,
	}
	if id, ok := entry.Identity(); ok {
		cell.LessonID = &id
	} else {
		cell.Unidentified = true
	}
	return cell
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
