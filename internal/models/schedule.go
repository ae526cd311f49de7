package models

// EntityCategory identifies which kind of filter an entity was selected through.
type EntityCategory string

const (
	EntityCategoryGroup   EntityCategory = "group"
	EntityCategoryTeacher EntityCategory = "prep"
	EntityCategoryRoom    EntityCategory = "room"
	// EntityCategoryUnknown marks an entity that no active filter lists.
	EntityCategoryUnknown EntityCategory = ""
)

// Valid reports whether the category is one of the selectable filter types.
func (c EntityCategory) Valid() bool {
	switch c {
	case EntityCategoryGroup, EntityCategoryTeacher, EntityCategoryRoom:
		return true
	}
	return false
}

// EntityRef names an entity together with the filter type it was picked from.
type EntityRef struct {
	Category EntityCategory `json:"type" validate:"required,oneof=group prep room"`
	Name     string         `json:"value" validate:"required"`
}

// ScheduleEntry is one occupied slot as delivered by the schedule source.
type ScheduleEntry struct {
	Subject      string   `json:"subject"`
	Teacher      string   `json:"teacher,omitempty"`
	Room         string   `json:"room,omitempty"`
	Campus       string   `json:"campus,omitempty"`
	LessonType   string   `json:"lesson_type,omitempty"`
	LessonTypeID *int     `json:"lesson_type_id,omitempty"`
	Groups       []string `json:"groups,omitempty"`
	Teachers     []string `json:"teachers,omitempty"`
	TimeStart    string   `json:"timestart,omitempty"`
	TimeEnd      string   `json:"timeend,omitempty"`
	LessonID     *int64   `json:"lessonId,omitempty"`
	ID           *int64   `json:"id,omitempty"`
}

// Identity returns the stable lesson id. The second value is false when the
// source did not provide one; callers must not invent a substitute.
func (e ScheduleEntry) Identity() (int64, bool) {
	if e.LessonID != nil {
		return *e.LessonID, true
	}
	if e.ID != nil {
		return *e.ID, true
	}
	return 0, false
}

// PairSchedule maps pair number to the lesson occupying it. Absent pairs are free.
type PairSchedule map[int]ScheduleEntry

// EntitySchedule maps entity name -> ISO date -> pair -> entry.
type EntitySchedule map[string]map[string]PairSchedule

// Lookup returns the entry for entity/date/pair, if any.
func (s EntitySchedule) Lookup(entity, date string, pair int) (ScheduleEntry, bool) {
	days, ok := s[entity]
	if !ok {
		return ScheduleEntry{}, false
	}
	pairs, ok := days[date]
	if !ok {
		return ScheduleEntry{}, false
	}
	entry, ok := pairs[pair]
	return entry, ok
}

// FreeSlotMap maps ISO date -> entity name -> free pair numbers.
type FreeSlotMap map[string]map[string][]int

// CommonFreeSlot is a (date, pair) free for every selected entity.
type CommonFreeSlot struct {
	Date        string   `json:"date"`
	Pair        int      `json:"pair"`
	PairTime    string   `json:"pairTime"`
	EntityCount int      `json:"entityCount"`
	Entities    []string `json:"entities"`
}
